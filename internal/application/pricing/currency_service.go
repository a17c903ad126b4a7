package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// RateCache caches the merged exchange-rate table.
// GetRates returns (nil, nil) on a miss.
type RateCache interface {
	GetRates(ctx context.Context) (map[string]decimal.Decimal, error)
	SetRates(ctx context.Context, rates map[string]decimal.Decimal, ttl time.Duration) error
	InvalidateRates(ctx context.Context) error
}

// RatesProvider returns the current exchange-rate table
type RatesProvider interface {
	Rates(ctx context.Context) (pricing.ExchangeRates, error)
}

// CurrencyConfig holds the static rate table and cache settings
type CurrencyConfig struct {
	Base     string
	Rates    map[string]decimal.Decimal
	CacheTTL time.Duration
}

// CurrencyService serves exchange rates: static defaults overlaid with stored overrides
type CurrencyService struct {
	rateRepo pricing.ExchangeRateRepository
	cache    RateCache
	base     valueobject.Currency
	defaults map[string]decimal.Decimal
	ttl      time.Duration
	logger   *zap.Logger
}

// NewCurrencyService creates a new CurrencyService. cache may be nil.
func NewCurrencyService(rateRepo pricing.ExchangeRateRepository, cache RateCache, cfg CurrencyConfig, logger *zap.Logger) (*CurrencyService, error) {
	base, err := valueobject.ParseCurrency(cfg.Base)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &CurrencyService{
		rateRepo: rateRepo,
		cache:    cache,
		base:     base,
		defaults: cfg.Rates,
		ttl:      cfg.CacheTTL,
		logger:   logger,
	}, nil
}

// Base returns the base currency
func (s *CurrencyService) Base() valueobject.Currency {
	return s.base
}

// Rates returns the merged rate table, from cache when possible
func (s *CurrencyService) Rates(ctx context.Context) (pricing.ExchangeRates, error) {
	if s.cache != nil {
		cached, err := s.cache.GetRates(ctx)
		if err != nil {
			s.logger.Warn("Exchange rate cache read failed", zap.Error(err))
		} else if cached != nil {
			return s.table(cached), nil
		}
	}

	merged, err := s.load(ctx)
	if err != nil {
		return pricing.ExchangeRates{}, err
	}
	if s.cache != nil {
		if err := s.cache.SetRates(ctx, merged, s.ttl); err != nil {
			s.logger.Warn("Exchange rate cache write failed", zap.Error(err))
		}
	}
	return s.table(merged), nil
}

// ListRates returns the rate table sorted by currency
func (s *CurrencyService) ListRates(ctx context.Context) (*RatesResponse, error) {
	table, err := s.Rates(ctx)
	if err != nil {
		return nil, err
	}
	resp := &RatesResponse{Base: string(s.base)}
	for _, c := range table.Currencies() {
		rate, _ := table.Rate(c)
		resp.Rates = append(resp.Rates, RateResponse{
			Currency: string(c),
			Rate:     rate,
			IsBase:   c == s.base,
		})
	}
	return resp, nil
}

// UpsertRate stores an override for one currency and drops the cached table
func (s *CurrencyService) UpsertRate(ctx context.Context, currency string, req UpsertRateRequest, by *uuid.UUID) (*RateResponse, error) {
	cur, err := valueobject.ParseCurrency(currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	if cur == s.base {
		return nil, shared.NewDomainError("BASE_CURRENCY_RATE", "The base currency always has rate 1")
	}

	rate, err := s.rateRepo.FindByCurrency(ctx, string(cur))
	switch {
	case err == nil:
		if err := rate.SetRate(req.Rate, by); err != nil {
			return nil, err
		}
	case shared.IsNotFound(err):
		rate, err = pricing.NewExchangeRate(string(cur), req.Rate)
		if err != nil {
			return nil, err
		}
		rate.UpdatedBy = by
	default:
		return nil, err
	}

	if err := s.rateRepo.Save(ctx, rate); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateRates(ctx); err != nil {
			s.logger.Warn("Exchange rate cache invalidation failed", zap.Error(err))
		}
	}

	s.logger.Info("Exchange rate updated",
		zap.String("currency", rate.Currency),
		zap.String("rate", rate.Rate.String()))

	return &RateResponse{Currency: rate.Currency, Rate: rate.Rate}, nil
}

// Convert converts an amount; the result is rounded to cents
func (s *CurrencyService) Convert(ctx context.Context, req ConvertRequest) (*ConvertResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be a decimal number")
	}
	from, err := valueobject.ParseCurrency(req.From)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	to, err := valueobject.ParseCurrency(req.To)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}

	table, err := s.Rates(ctx)
	if err != nil {
		return nil, err
	}
	result, err := table.Convert(amount, from, to)
	if err != nil {
		return nil, err
	}
	return &ConvertResponse{
		Amount: amount,
		From:   string(from),
		To:     string(to),
		Result: result.Round(2),
	}, nil
}

func (s *CurrencyService) load(ctx context.Context) (map[string]decimal.Decimal, error) {
	merged := make(map[string]decimal.Decimal, len(s.defaults))
	for c, r := range s.defaults {
		merged[c] = r
	}
	overrides, err := s.rateRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		merged[o.Currency] = o.Rate
	}
	return merged, nil
}

func (s *CurrencyService) table(rates map[string]decimal.Decimal) pricing.ExchangeRates {
	converted := make(map[valueobject.Currency]decimal.Decimal, len(rates))
	for c, r := range rates {
		converted[valueobject.Currency(c)] = r
	}
	return pricing.NewExchangeRates(s.base, converted)
}

var _ RatesProvider = (*CurrencyService)(nil)
