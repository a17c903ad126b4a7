package pricing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Badge is a marketing label shown next to a price
type Badge string

const (
	BadgeNone      Badge = ""
	BadgeNew       Badge = "new"
	BadgeHit       Badge = "hit"
	BadgeSale      Badge = "sale"
	BadgeExclusive Badge = "exclusive"
	BadgeLimited   Badge = "limited"
)

// ParseBadge normalizes a badge value; empty means no badge
func ParseBadge(s string) (Badge, error) {
	b := Badge(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case BadgeNone, BadgeNew, BadgeHit, BadgeSale, BadgeExclusive, BadgeLimited:
		return b, nil
	}
	return "", shared.NewDomainError("INVALID_BADGE", "Unknown badge: "+s)
}

// History sources
const (
	SourceManual     = "manual"
	SourceBulkUpload = "bulk_upload"
	SourceSeed       = "seed"
	SourceCheckout   = "checkout"
)

// ItemPrice is the current price, stock and promotion of an item in one warehouse
type ItemPrice struct {
	shared.BaseAggregateRoot
	ItemID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_item_price_item_warehouse,priority:1"`
	WarehouseID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_item_price_item_warehouse,priority:2;index"`
	Price       decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Currency    string           `gorm:"type:varchar(3);not null"`
	Quantity    int              `gorm:"not null;default:0"`
	PromoPrice  *decimal.Decimal `gorm:"type:decimal(18,2)"`
	PromoEndsAt *time.Time
	Badge       Badge `gorm:"type:varchar(20);not null;default:''"`
}

// TableName returns the table name for GORM
func (ItemPrice) TableName() string {
	return "item_prices"
}

// PriceValues is the mutable part of an ItemPrice
type PriceValues struct {
	Price       decimal.Decimal
	Currency    string
	Quantity    int
	PromoPrice  *decimal.Decimal
	PromoEndsAt *time.Time
	Badge       Badge
}

// Validate checks the values and normalizes the currency code
func (v *PriceValues) Validate() error {
	if !v.Price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}
	if v.Quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	cur, err := valueobject.ParseCurrency(v.Currency)
	if err != nil {
		return shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	v.Currency = string(cur)
	if v.PromoPrice != nil {
		if !v.PromoPrice.IsPositive() {
			return shared.NewDomainError("INVALID_PROMO_PRICE", "Promotion price must be greater than zero")
		}
		if !v.PromoPrice.LessThan(v.Price) {
			return shared.NewDomainError("INVALID_PROMO_PRICE", "Promotion price must be lower than the base price")
		}
		if v.PromoEndsAt == nil {
			return shared.NewDomainError("INVALID_PROMO_PRICE", "Promotion price requires an end date")
		}
	}
	if _, err := ParseBadge(string(v.Badge)); err != nil {
		return err
	}
	return nil
}

// NewItemPrice creates the price row for an item in a warehouse
func NewItemPrice(itemID, warehouseID uuid.UUID, values PriceValues) (*ItemPrice, error) {
	if itemID == uuid.Nil || warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Item and warehouse are required")
	}
	if err := values.Validate(); err != nil {
		return nil, err
	}
	p := &ItemPrice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemID:            itemID,
		WarehouseID:       warehouseID,
	}
	p.set(values)
	return p, nil
}

// Apply replaces the current values and returns the snapshot of the superseded ones.
// The caller appends the snapshot to the history.
func (p *ItemPrice) Apply(values PriceValues, source string, now time.Time) (*ItemPriceHistory, error) {
	if err := values.Validate(); err != nil {
		return nil, err
	}
	snapshot := p.Snapshot(source, now)
	p.set(values)
	p.IncrementVersion()
	return snapshot, nil
}

// Values returns the current mutable values
func (p *ItemPrice) Values() PriceValues {
	return PriceValues{
		Price:       p.Price,
		Currency:    p.Currency,
		Quantity:    p.Quantity,
		PromoPrice:  p.PromoPrice,
		PromoEndsAt: p.PromoEndsAt,
		Badge:       p.Badge,
	}
}

// Snapshot copies the current values into a history row
func (p *ItemPrice) Snapshot(source string, now time.Time) *ItemPriceHistory {
	h := &ItemPriceHistory{
		ID:          uuid.New(),
		ItemPriceID: p.ID,
		ItemID:      p.ItemID,
		WarehouseID: p.WarehouseID,
		Price:       p.Price,
		Currency:    p.Currency,
		Quantity:    p.Quantity,
		Badge:       p.Badge,
		Source:      source,
		RecordedAt:  now,
	}
	if p.PromoPrice != nil {
		promo := *p.PromoPrice
		h.PromoPrice = &promo
	}
	if p.PromoEndsAt != nil {
		ends := *p.PromoEndsAt
		h.PromoEndsAt = &ends
	}
	return h
}

// Reserve takes qty units out of stock
func (p *ItemPrice) Reserve(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.Quantity < qty {
		return shared.ErrInsufficientStock
	}
	p.Quantity -= qty
	p.IncrementVersion()
	return nil
}

// Restock puts qty units back into stock
func (p *ItemPrice) Restock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	p.Quantity += qty
	p.IncrementVersion()
	return nil
}

// InStock reports whether at least one unit is available
func (p *ItemPrice) InStock() bool {
	return p.Quantity > 0
}

func (p *ItemPrice) set(v PriceValues) {
	p.Price = v.Price
	p.Currency = v.Currency
	p.Quantity = v.Quantity
	p.PromoPrice = v.PromoPrice
	p.PromoEndsAt = v.PromoEndsAt
	p.Badge = v.Badge
}

// ItemPriceHistory is an append-only record of superseded price values
type ItemPriceHistory struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ItemPriceID uuid.UUID        `gorm:"type:uuid;not null;index"`
	ItemID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Price       decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Currency    string           `gorm:"type:varchar(3);not null"`
	Quantity    int              `gorm:"not null"`
	PromoPrice  *decimal.Decimal `gorm:"type:decimal(18,2)"`
	PromoEndsAt *time.Time
	Badge       Badge     `gorm:"type:varchar(20);not null;default:''"`
	Source      string    `gorm:"type:varchar(30);not null"`
	RecordedAt  time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ItemPriceHistory) TableName() string {
	return "item_price_history"
}
