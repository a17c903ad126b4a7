package pricing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ExchangeRates is a static table of rates relative to a base currency:
// one unit of Base buys Rates[c] units of c.
type ExchangeRates struct {
	Base  valueobject.Currency
	rates map[valueobject.Currency]decimal.Decimal
}

// NewExchangeRates builds a table; the base currency always has rate 1
// and non-positive rates are dropped.
func NewExchangeRates(base valueobject.Currency, rates map[valueobject.Currency]decimal.Decimal) ExchangeRates {
	table := make(map[valueobject.Currency]decimal.Decimal, len(rates)+1)
	for c, r := range rates {
		if r.IsPositive() {
			table[valueobject.Currency(strings.ToUpper(string(c)))] = r
		}
	}
	table[base] = decimal.NewFromInt(1)
	return ExchangeRates{Base: base, rates: table}
}

// Rate returns units of c per one base unit
func (r ExchangeRates) Rate(c valueobject.Currency) (decimal.Decimal, bool) {
	rate, ok := r.rates[c]
	return rate, ok
}

// Supports reports whether c has a rate
func (r ExchangeRates) Supports(c valueobject.Currency) bool {
	_, ok := r.rates[c]
	return ok
}

// Currencies returns the known currencies sorted by code
func (r ExchangeRates) Currencies() []valueobject.Currency {
	out := make([]valueobject.Currency, 0, len(r.rates))
	for c := range r.rates {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Convert converts amount between currencies through the base currency.
// The result is not rounded.
func (r ExchangeRates) Convert(amount decimal.Decimal, from, to valueobject.Currency) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	fromRate, ok := r.rates[from]
	if !ok {
		return decimal.Zero, unsupportedCurrency(from)
	}
	toRate, ok := r.rates[to]
	if !ok {
		return decimal.Zero, unsupportedCurrency(to)
	}
	return amount.Div(fromRate).Mul(toRate), nil
}

// WithRate returns a copy of the table with c set to rate
func (r ExchangeRates) WithRate(c valueobject.Currency, rate decimal.Decimal) ExchangeRates {
	rates := make(map[valueobject.Currency]decimal.Decimal, len(r.rates)+1)
	for k, v := range r.rates {
		rates[k] = v
	}
	rates[c] = rate
	return NewExchangeRates(r.Base, rates)
}

// DisplayCurrency resolves a requested display currency; empty means the base currency
func (r ExchangeRates) DisplayCurrency(requested string) (valueobject.Currency, error) {
	if strings.TrimSpace(requested) == "" {
		return r.Base, nil
	}
	c, err := valueobject.ParseCurrency(requested)
	if err != nil {
		return "", shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	if !r.Supports(c) {
		return "", unsupportedCurrency(c)
	}
	return c, nil
}

func unsupportedCurrency(c valueobject.Currency) error {
	return shared.NewDomainError("UNSUPPORTED_CURRENCY", fmt.Sprintf("No exchange rate for currency %s", c))
}

// ExchangeRate is a stored override of the static rate table
type ExchangeRate struct {
	shared.BaseEntity
	Currency  string          `gorm:"type:varchar(3);not null;uniqueIndex"`
	Rate      decimal.Decimal `gorm:"type:decimal(18,8);not null"`
	UpdatedBy *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ExchangeRate) TableName() string {
	return "currency_rates"
}

// NewExchangeRate validates and creates a stored rate
func NewExchangeRate(currency string, rate decimal.Decimal) (*ExchangeRate, error) {
	cur, err := valueobject.ParseCurrency(currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	if !rate.IsPositive() {
		return nil, shared.NewDomainError("INVALID_RATE", "Exchange rate must be greater than zero")
	}
	return &ExchangeRate{
		BaseEntity: shared.NewBaseEntity(),
		Currency:   string(cur),
		Rate:       rate,
	}, nil
}

// SetRate replaces the stored rate
func (r *ExchangeRate) SetRate(rate decimal.Decimal, by *uuid.UUID) error {
	if !rate.IsPositive() {
		return shared.NewDomainError("INVALID_RATE", "Exchange rate must be greater than zero")
	}
	r.Rate = rate
	r.UpdatedBy = by
	r.Touch()
	return nil
}
