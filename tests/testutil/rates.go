package testutil

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// RatesStub serves a fixed exchange-rate table
type RatesStub struct {
	Table pricing.ExchangeRates
	Err   error
}

// Rates returns the fixed table
func (s RatesStub) Rates(context.Context) (pricing.ExchangeRates, error) {
	return s.Table, s.Err
}

// NewRatesStub builds a USD-based table; rates are units per one USD
func NewRatesStub(rates map[string]string) RatesStub {
	table := make(map[valueobject.Currency]decimal.Decimal, len(rates))
	for c, r := range rates {
		table[valueobject.Currency(c)] = decimal.RequireFromString(r)
	}
	return RatesStub{Table: pricing.NewExchangeRates(valueobject.USD, table)}
}
