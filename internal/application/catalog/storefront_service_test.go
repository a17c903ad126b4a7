package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedRates struct {
	rates pricing.ExchangeRates
}

func (f fixedRates) Rates(context.Context) (pricing.ExchangeRates, error) {
	return f.rates, nil
}

type storefrontFixture struct {
	svc           *StorefrontService
	items         *testutil.MockItemRepository
	categories    *testutil.MockCategoryRepository
	subcategories *testutil.MockSubcategoryRepository
	brands        *testutil.MockBrandRepository
	prices        *testutil.MockItemPriceRepository
	now           time.Time
}

func newStorefrontFixture() *storefrontFixture {
	f := &storefrontFixture{
		items:         new(testutil.MockItemRepository),
		categories:    new(testutil.MockCategoryRepository),
		subcategories: new(testutil.MockSubcategoryRepository),
		brands:        new(testutil.MockBrandRepository),
		prices:        new(testutil.MockItemPriceRepository),
		now:           time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	rates := pricing.NewExchangeRates(valueobject.USD, map[valueobject.Currency]decimal.Decimal{
		valueobject.KZT: decimal.NewFromInt(500),
		valueobject.EUR: decimal.RequireFromString("0.9"),
	})
	f.svc = NewStorefrontService(f.items, f.categories, f.subcategories, f.brands, f.prices,
		fixedRates{rates: rates}, catalog.NewLocaleMatcher([]string{"en", "ru"}), "kz", nil)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func offer(t *testing.T, itemID uuid.UUID, country string, price int64, currency string, qty int) pricing.WarehouseOffer {
	t.Helper()
	p, err := pricing.NewItemPrice(itemID, uuid.New(), pricing.PriceValues{
		Price:    decimal.NewFromInt(price),
		Currency: currency,
		Quantity: qty,
	})
	require.NoError(t, err)
	return pricing.WarehouseOffer{Price: *p, WarehouseName: country + " warehouse", CountryCode: country}
}

func TestStorefrontService_ListItems(t *testing.T) {
	f := newStorefrontFixture()
	ctx := context.Background()

	item, _ := catalog.NewItem("AB-100", "")
	details, _ := catalog.NewItemDetails(item.ID, "ru", "Телефон", "Описание")
	item.Details = []catalog.ItemDetails{*details}
	category, _ := catalog.NewCategory("phones", "en", "Phones")
	item.CategoryID = &category.ID

	expected := shared.Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]interface{}{"is_active": true, "category_id": category.ID},
	}
	f.categories.On("FindBySlug", ctx, "phones").Return(category, nil)
	f.items.On("FindAll", ctx, expected).Return([]catalog.Item{*item}, nil)
	f.items.On("Count", ctx, expected).Return(int64(1), nil)
	f.prices.On("FindOffersForItems", ctx, []uuid.UUID{item.ID}).Return(map[uuid.UUID][]pricing.WarehouseOffer{
		item.ID: {
			offer(t, item.ID, "DE", 10, "EUR", 3),
			offer(t, item.ID, "KZ", 20, "USD", 0),
		},
	}, nil)
	f.categories.On("FindAll", ctx).Return([]catalog.Category{*category}, nil)
	f.brands.On("FindAll", ctx, mock.Anything).Return([]catalog.Brand{}, nil)

	result, total, err := f.svc.ListItems(ctx, StorefrontQuery{Category: "phones", Locale: "ru", Currency: "kzt"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, result, 1)
	got := result[0]
	assert.Equal(t, "Телефон", got.Name)
	assert.Empty(t, got.Description)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Phones", got.Category.Name)
	// KZ has no stock, so the first in-stock offer wins
	require.NotNil(t, got.Price)
	assert.Equal(t, "DE", got.Price.CountryCode)
	assert.Equal(t, "KZT", got.Price.Currency)
	assert.Equal(t, "5555.56", got.Price.Price.String())
	assert.True(t, got.Price.InStock)
	assert.Empty(t, got.Offers)
}

func TestStorefrontService_ListItems_UnknownCategory(t *testing.T) {
	f := newStorefrontFixture()
	ctx := context.Background()
	f.categories.On("FindBySlug", ctx, "nope").Return(nil, shared.ErrNotFound)

	result, total, err := f.svc.ListItems(ctx, StorefrontQuery{Category: "nope"})

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, result)
	f.items.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestStorefrontService_ListItems_UnsupportedCurrency(t *testing.T) {
	f := newStorefrontFixture()

	_, _, err := f.svc.ListItems(context.Background(), StorefrontQuery{Currency: "JPY"})

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "UNSUPPORTED_CURRENCY", de.Code)
}

func TestStorefrontService_GetItem(t *testing.T) {
	f := newStorefrontFixture()
	ctx := context.Background()

	item, _ := catalog.NewItem("AB-100", "")
	details, _ := catalog.NewItemDetails(item.ID, "en", "Phone", "A phone")
	item.Details = []catalog.ItemDetails{*details}

	f.items.On("FindBySlug", ctx, "ab-100").Return(item, nil)
	f.prices.On("FindOffers", ctx, item.ID).Return([]pricing.WarehouseOffer{
		offer(t, item.ID, "DE", 10, "EUR", 3),
		offer(t, item.ID, "KZ", 20, "USD", 5),
	}, nil)
	f.categories.On("FindAll", ctx).Return([]catalog.Category{}, nil)
	f.brands.On("FindAll", ctx, mock.Anything).Return([]catalog.Brand{}, nil)

	got, err := f.svc.GetItem(ctx, "ab-100", StorefrontQuery{})

	require.NoError(t, err)
	assert.Equal(t, "Phone", got.Name)
	assert.Equal(t, "A phone", got.Description)
	// Default country KZ is in stock
	require.NotNil(t, got.Price)
	assert.Equal(t, "KZ", got.Price.CountryCode)
	assert.Equal(t, "USD", got.Price.Currency)
	assert.Len(t, got.Offers, 2)
}

func TestStorefrontService_GetItem_Inactive(t *testing.T) {
	f := newStorefrontFixture()
	ctx := context.Background()
	item, _ := catalog.NewItem("AB-100", "")
	item.Deactivate()
	f.items.On("FindBySlug", ctx, "ab-100").Return(item, nil)

	_, err := f.svc.GetItem(ctx, "ab-100", StorefrontQuery{})

	assert.True(t, shared.IsNotFound(err))
}
