package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// WarehouseOffer is an item price together with the warehouse it is stocked in
type WarehouseOffer struct {
	Price         ItemPrice
	WarehouseName string
	CountryCode   string
}

// ResolvedPrice is what the storefront shows for an item
type ResolvedPrice struct {
	WarehouseID     uuid.UUID
	WarehouseName   string
	CountryCode     string
	Price           valueobject.Money // base price in display currency
	EffectivePrice  valueobject.Money // promotion-aware price in display currency
	DiscountPercent int
	PromoEndsAt     *time.Time
	Badge           Badge
	Quantity        int
	InStock         bool
}

// IsPromoActive reports whether the promotion price applies at now
func IsPromoActive(p ItemPrice, now time.Time) bool {
	return p.PromoPrice != nil && p.PromoEndsAt != nil && p.PromoEndsAt.After(now)
}

// EffectivePrice returns the promotion price while the promotion runs, else the base price
func EffectivePrice(p ItemPrice, now time.Time) decimal.Decimal {
	if IsPromoActive(p, now) {
		return *p.PromoPrice
	}
	return p.Price
}

// DiscountPercent returns the whole-number discount of the running promotion, 0 without one
func DiscountPercent(p ItemPrice, now time.Time) int {
	if !IsPromoActive(p, now) || !p.Price.IsPositive() {
		return 0
	}
	off := p.Price.Sub(*p.PromoPrice).Div(p.Price).Mul(decimal.NewFromInt(100)).Round(0)
	if off.IsNegative() {
		return 0
	}
	return int(off.IntPart())
}

// SelectRecommended picks the warehouse to sell from, in order of preference:
// in stock in the preferred country, first in stock anywhere, preferred country
// without stock, first offer. It returns nil for no offers.
func SelectRecommended(offers []WarehouseOffer, preferredCountry string) *WarehouseOffer {
	if len(offers) == 0 {
		return nil
	}
	var firstInStock, countryNoStock *WarehouseOffer
	for i := range offers {
		o := &offers[i]
		matches := preferredCountry != "" && o.CountryCode == preferredCountry
		if o.Price.InStock() {
			if matches {
				return o
			}
			if firstInStock == nil {
				firstInStock = o
			}
		} else if matches && countryNoStock == nil {
			countryNoStock = o
		}
	}
	if firstInStock != nil {
		return firstInStock
	}
	if countryNoStock != nil {
		return countryNoStock
	}
	return &offers[0]
}

// Resolve selects the recommended offer and prices it in the display currency
func Resolve(offers []WarehouseOffer, preferredCountry string, display valueobject.Currency, rates ExchangeRates, now time.Time) (*ResolvedPrice, error) {
	offer := SelectRecommended(offers, preferredCountry)
	if offer == nil {
		return nil, nil
	}
	return Price(*offer, display, rates, now)
}

// Price prices a single offer in the display currency
func Price(offer WarehouseOffer, display valueobject.Currency, rates ExchangeRates, now time.Time) (*ResolvedPrice, error) {
	from := valueobject.Currency(offer.Price.Currency)

	base, err := rates.Convert(offer.Price.Price, from, display)
	if err != nil {
		return nil, err
	}
	effective, err := rates.Convert(EffectivePrice(offer.Price, now), from, display)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedPrice{
		WarehouseID:     offer.Price.WarehouseID,
		WarehouseName:   offer.WarehouseName,
		CountryCode:     offer.CountryCode,
		Price:           valueobject.MustMoney(base.Round(2), display),
		EffectivePrice:  valueobject.MustMoney(effective.Round(2), display),
		DiscountPercent: DiscountPercent(offer.Price, now),
		Badge:           offer.Price.Badge,
		Quantity:        offer.Price.Quantity,
		InStock:         offer.Price.InStock(),
	}
	if IsPromoActive(offer.Price, now) {
		resolved.PromoEndsAt = offer.Price.PromoEndsAt
	}
	return resolved, nil
}
