package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) GetRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockRateCache) SetRates(ctx context.Context, rates map[string]decimal.Decimal, ttl time.Duration) error {
	return m.Called(ctx, rates, ttl).Error(0)
}

func (m *MockRateCache) InvalidateRates(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newCurrencyService(t *testing.T, repo *testutil.MockExchangeRateRepository, cache RateCache) *CurrencyService {
	t.Helper()
	svc, err := NewCurrencyService(repo, cache, CurrencyConfig{
		Base: "USD",
		Rates: map[string]decimal.Decimal{
			"EUR": decimal.RequireFromString("0.9"),
			"KZT": decimal.NewFromInt(450),
		},
		CacheTTL: time.Minute,
	}, nil)
	require.NoError(t, err)
	return svc
}

func TestCurrencyService_Rates_OverridesDefaults(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockExchangeRateRepository)
	override, _ := pricing.NewExchangeRate("KZT", decimal.NewFromInt(500))
	repo.On("FindAll", ctx).Return([]pricing.ExchangeRate{*override}, nil)
	svc := newCurrencyService(t, repo, nil)

	table, err := svc.Rates(ctx)

	require.NoError(t, err)
	kzt, ok := table.Rate("KZT")
	require.True(t, ok)
	assert.True(t, kzt.Equal(decimal.NewFromInt(500)))
	usd, _ := table.Rate("USD")
	assert.True(t, usd.Equal(decimal.NewFromInt(1)))
}

func TestCurrencyService_Rates_UsesCache(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockExchangeRateRepository)
	cache := new(MockRateCache)
	cache.On("GetRates", ctx).Return(map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.5")}, nil)
	svc := newCurrencyService(t, repo, cache)

	table, err := svc.Rates(ctx)

	require.NoError(t, err)
	eur, _ := table.Rate("EUR")
	assert.True(t, eur.Equal(decimal.RequireFromString("0.5")))
	repo.AssertNotCalled(t, "FindAll", mock.Anything)
}

func TestCurrencyService_Rates_CacheMissFillsCache(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockExchangeRateRepository)
	cache := new(MockRateCache)
	cache.On("GetRates", ctx).Return(nil, nil)
	repo.On("FindAll", ctx).Return([]pricing.ExchangeRate{}, nil)
	cache.On("SetRates", ctx, mock.Anything, time.Minute).Return(nil)
	svc := newCurrencyService(t, repo, cache)

	_, err := svc.Rates(ctx)

	require.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestCurrencyService_Rates_CacheErrorFallsBack(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockExchangeRateRepository)
	cache := new(MockRateCache)
	cache.On("GetRates", ctx).Return(nil, errors.New("redis down"))
	cache.On("SetRates", ctx, mock.Anything, time.Minute).Return(errors.New("redis down"))
	repo.On("FindAll", ctx).Return([]pricing.ExchangeRate{}, nil)
	svc := newCurrencyService(t, repo, cache)

	table, err := svc.Rates(ctx)

	require.NoError(t, err)
	assert.True(t, table.Supports("EUR"))
}

func TestCurrencyService_UpsertRate(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects base currency", func(t *testing.T) {
		svc := newCurrencyService(t, new(testutil.MockExchangeRateRepository), nil)
		_, err := svc.UpsertRate(ctx, "usd", UpsertRateRequest{Rate: decimal.NewFromInt(2)}, nil)

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "BASE_CURRENCY_RATE", de.Code)
	})

	t.Run("creates override and invalidates cache", func(t *testing.T) {
		repo := new(testutil.MockExchangeRateRepository)
		cache := new(MockRateCache)
		repo.On("FindByCurrency", ctx, "RUB").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*pricing.ExchangeRate")).Return(nil)
		cache.On("InvalidateRates", ctx).Return(nil)
		svc := newCurrencyService(t, repo, cache)
		admin := uuid.New()

		resp, err := svc.UpsertRate(ctx, "rub", UpsertRateRequest{Rate: decimal.NewFromInt(90)}, &admin)

		require.NoError(t, err)
		assert.Equal(t, "RUB", resp.Currency)
		cache.AssertExpectations(t)
	})

	t.Run("rejects non-positive rate", func(t *testing.T) {
		repo := new(testutil.MockExchangeRateRepository)
		repo.On("FindByCurrency", ctx, "RUB").Return(nil, shared.ErrNotFound)
		svc := newCurrencyService(t, repo, nil)

		_, err := svc.UpsertRate(ctx, "RUB", UpsertRateRequest{Rate: decimal.Zero}, nil)

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_RATE", de.Code)
	})
}

func TestCurrencyService_Convert(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockExchangeRateRepository)
	repo.On("FindAll", ctx).Return([]pricing.ExchangeRate{}, nil)
	svc := newCurrencyService(t, repo, nil)

	resp, err := svc.Convert(ctx, ConvertRequest{Amount: "9", From: "eur", To: "kzt"})
	require.NoError(t, err)
	assert.Equal(t, "4500", resp.Result.String())

	_, err = svc.Convert(ctx, ConvertRequest{Amount: "1", From: "USD", To: "JPY"})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "UNSUPPORTED_CURRENCY", de.Code)

	_, err = svc.Convert(ctx, ConvertRequest{Amount: "abc", From: "USD", To: "EUR"})
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_AMOUNT", de.Code)
}

func TestCurrencyService_ListRates(t *testing.T) {
	ctx := context.Background()
	repo := new(testutil.MockExchangeRateRepository)
	repo.On("FindAll", ctx).Return([]pricing.ExchangeRate{}, nil)
	svc := newCurrencyService(t, repo, nil)

	resp, err := svc.ListRates(ctx)

	require.NoError(t, err)
	assert.Equal(t, "USD", resp.Base)
	require.Len(t, resp.Rates, 3)
	assert.Equal(t, "EUR", resp.Rates[0].Currency)
	assert.True(t, resp.Rates[2].IsBase)
}
