package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/pricing"
)

// SetPriceRequest sets the price, stock and promotion of an item in a warehouse
type SetPriceRequest struct {
	Price       decimal.Decimal  `json:"price" binding:"required"`
	Currency    string           `json:"currency" binding:"omitempty,len=3"`
	Quantity    int              `json:"quantity" binding:"min=0"`
	PromoPrice  *decimal.Decimal `json:"promo_price"`
	PromoEndsAt *time.Time       `json:"promo_ends_at"`
	Badge       string           `json:"badge" binding:"omitempty,oneof=new hit sale exclusive limited"`
}

// PriceResponse is the current price of an item in one warehouse
type PriceResponse struct {
	ID              uuid.UUID        `json:"id"`
	ItemID          uuid.UUID        `json:"item_id"`
	WarehouseID     uuid.UUID        `json:"warehouse_id"`
	WarehouseName   string           `json:"warehouse_name,omitempty"`
	CountryCode     string           `json:"country_code,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	Currency        string           `json:"currency"`
	Quantity        int              `json:"quantity"`
	PromoPrice      *decimal.Decimal `json:"promo_price,omitempty"`
	PromoEndsAt     *time.Time       `json:"promo_ends_at,omitempty"`
	PromoActive     bool             `json:"promo_active"`
	EffectivePrice  decimal.Decimal  `json:"effective_price"`
	DiscountPercent int              `json:"discount_percent"`
	Badge           string           `json:"badge,omitempty"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Version         int              `json:"version"`
}

// HistoryFilter narrows the price history listing
type HistoryFilter struct {
	WarehouseID *uuid.UUID `form:"-"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// HistoryResponse is one archived price record
type HistoryResponse struct {
	ID          uuid.UUID        `json:"id"`
	ItemID      uuid.UUID        `json:"item_id"`
	WarehouseID uuid.UUID        `json:"warehouse_id"`
	Price       decimal.Decimal  `json:"price"`
	Currency    string           `json:"currency"`
	Quantity    int              `json:"quantity"`
	PromoPrice  *decimal.Decimal `json:"promo_price,omitempty"`
	PromoEndsAt *time.Time       `json:"promo_ends_at,omitempty"`
	Badge       string           `json:"badge,omitempty"`
	Source      string           `json:"source"`
	RecordedAt  time.Time        `json:"recorded_at"`
}

// RateResponse is one row of the exchange-rate table
type RateResponse struct {
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
	IsBase   bool            `json:"is_base"`
}

// RatesResponse is the full exchange-rate table
type RatesResponse struct {
	Base  string         `json:"base"`
	Rates []RateResponse `json:"rates"`
}

// UpsertRateRequest stores an exchange-rate override
type UpsertRateRequest struct {
	Rate decimal.Decimal `json:"rate" binding:"required"`
}

// ConvertRequest converts an amount between currencies
type ConvertRequest struct {
	Amount string `form:"amount" binding:"required"`
	From   string `form:"from" binding:"required,len=3"`
	To     string `form:"to" binding:"required,len=3"`
}

// ConvertResponse is the result of a conversion
type ConvertResponse struct {
	Amount decimal.Decimal `json:"amount"`
	From   string          `json:"from"`
	To     string          `json:"to"`
	Result decimal.Decimal `json:"result"`
}

// ToPriceResponse converts a price row to a response
func ToPriceResponse(p *pricing.ItemPrice, now time.Time) PriceResponse {
	return PriceResponse{
		ID:              p.ID,
		ItemID:          p.ItemID,
		WarehouseID:     p.WarehouseID,
		Price:           p.Price,
		Currency:        p.Currency,
		Quantity:        p.Quantity,
		PromoPrice:      p.PromoPrice,
		PromoEndsAt:     p.PromoEndsAt,
		PromoActive:     pricing.IsPromoActive(*p, now),
		EffectivePrice:  pricing.EffectivePrice(*p, now),
		DiscountPercent: pricing.DiscountPercent(*p, now),
		Badge:           string(p.Badge),
		UpdatedAt:       p.UpdatedAt,
		Version:         p.Version,
	}
}

// ToOfferResponse converts a warehouse offer to a response
func ToOfferResponse(o *pricing.WarehouseOffer, now time.Time) PriceResponse {
	resp := ToPriceResponse(&o.Price, now)
	resp.WarehouseName = o.WarehouseName
	resp.CountryCode = o.CountryCode
	return resp
}

// ToHistoryResponse converts a history row to a response
func ToHistoryResponse(h *pricing.ItemPriceHistory) HistoryResponse {
	return HistoryResponse{
		ID:          h.ID,
		ItemID:      h.ItemID,
		WarehouseID: h.WarehouseID,
		Price:       h.Price,
		Currency:    h.Currency,
		Quantity:    h.Quantity,
		PromoPrice:  h.PromoPrice,
		PromoEndsAt: h.PromoEndsAt,
		Badge:       string(h.Badge),
		Source:      h.Source,
		RecordedAt:  h.RecordedAt,
	}
}
