package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/application/transaction"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/warehouse"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type priceFixture struct {
	svc        *PriceService
	items      *testutil.MockItemRepository
	warehouses *testutil.MockWarehouseRepository
	prices     *testutil.MockItemPriceRepository
	history    *testutil.MockPriceHistoryRepository
	item       *catalog.Item
	warehouse  *warehouse.Warehouse
	now        time.Time
}

func newPriceFixture(t *testing.T) *priceFixture {
	t.Helper()
	f := &priceFixture{
		items:      new(testutil.MockItemRepository),
		warehouses: new(testutil.MockWarehouseRepository),
		prices:     new(testutil.MockItemPriceRepository),
		history:    new(testutil.MockPriceHistoryRepository),
		now:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	scope := transaction.NewNoOpScope(transaction.NoOpRepos{Prices: f.prices, History: f.history})
	f.svc = NewPriceService(scope, f.prices, f.history, f.items, f.warehouses, "USD", nil)
	f.svc.now = func() time.Time { return f.now }

	var err error
	f.item, err = catalog.NewItem("ART-1", "")
	require.NoError(t, err)
	f.warehouse, err = warehouse.NewWarehouse("ALA-1", "Almaty", "KZ")
	require.NoError(t, err)
	return f
}

func TestPriceService_SetPrice_CreatesRow(t *testing.T) {
	f := newPriceFixture(t)
	ctx := context.Background()
	f.items.On("FindByID", ctx, f.item.ID).Return(f.item, nil)
	f.warehouses.On("FindByID", ctx, f.warehouse.ID).Return(f.warehouse, nil)
	f.prices.On("FindByItemAndWarehouse", ctx, f.item.ID, f.warehouse.ID).Return(nil, shared.ErrNotFound)
	f.prices.On("Save", ctx, mock.AnythingOfType("*pricing.ItemPrice")).Return(nil)

	resp, err := f.svc.SetPrice(ctx, f.item.ID, f.warehouse.ID, SetPriceRequest{
		Price:    decimal.NewFromInt(100),
		Quantity: 5,
		Badge:    "new",
	})

	require.NoError(t, err)
	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, 5, resp.Quantity)
	assert.Equal(t, "new", resp.Badge)
	assert.True(t, resp.EffectivePrice.Equal(decimal.NewFromInt(100)))
	f.history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestPriceService_SetPrice_ArchivesPreviousValues(t *testing.T) {
	f := newPriceFixture(t)
	ctx := context.Background()
	current, err := pricing.NewItemPrice(f.item.ID, f.warehouse.ID, pricing.PriceValues{
		Price:    decimal.NewFromInt(100),
		Currency: "KZT",
		Quantity: 3,
	})
	require.NoError(t, err)

	f.items.On("FindByID", ctx, f.item.ID).Return(f.item, nil)
	f.warehouses.On("FindByID", ctx, f.warehouse.ID).Return(f.warehouse, nil)
	f.prices.On("FindByItemAndWarehouse", ctx, f.item.ID, f.warehouse.ID).Return(current, nil)
	f.history.On("Append", ctx, mock.MatchedBy(func(h *pricing.ItemPriceHistory) bool {
		return h.Price.Equal(decimal.NewFromInt(100)) && h.Quantity == 3 && h.Source == pricing.SourceManual
	})).Return(nil)
	f.prices.On("SaveWithLock", ctx, current).Return(nil)

	ends := f.now.Add(48 * time.Hour)
	promo := decimal.NewFromInt(80)
	resp, err := f.svc.SetPrice(ctx, f.item.ID, f.warehouse.ID, SetPriceRequest{
		Price:       decimal.NewFromInt(120),
		Quantity:    7,
		PromoPrice:  &promo,
		PromoEndsAt: &ends,
	})

	require.NoError(t, err)
	assert.Equal(t, "KZT", resp.Currency, "currency is kept when omitted")
	assert.True(t, resp.PromoActive)
	assert.True(t, resp.EffectivePrice.Equal(promo))
	assert.Equal(t, 33, resp.DiscountPercent)
	f.history.AssertExpectations(t)
	f.prices.AssertExpectations(t)
}

func TestPriceService_SetPrice_RejectsPromoAboveBase(t *testing.T) {
	f := newPriceFixture(t)
	ctx := context.Background()
	f.items.On("FindByID", ctx, f.item.ID).Return(f.item, nil)
	f.warehouses.On("FindByID", ctx, f.warehouse.ID).Return(f.warehouse, nil)
	f.prices.On("FindByItemAndWarehouse", ctx, f.item.ID, f.warehouse.ID).Return(nil, shared.ErrNotFound)

	ends := f.now.Add(time.Hour)
	promo := decimal.NewFromInt(150)
	_, err := f.svc.SetPrice(ctx, f.item.ID, f.warehouse.ID, SetPriceRequest{
		Price:       decimal.NewFromInt(100),
		PromoPrice:  &promo,
		PromoEndsAt: &ends,
	})

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_PROMO_PRICE", de.Code)
	f.prices.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPriceService_SetPrice_UnknownItem(t *testing.T) {
	f := newPriceFixture(t)
	ctx := context.Background()
	id := uuid.New()
	f.items.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

	_, err := f.svc.SetPrice(ctx, id, f.warehouse.ID, SetPriceRequest{Price: decimal.NewFromInt(1)})

	assert.True(t, shared.IsNotFound(err))
}

func TestPriceService_GetPrices(t *testing.T) {
	f := newPriceFixture(t)
	ctx := context.Background()
	p, _ := pricing.NewItemPrice(f.item.ID, f.warehouse.ID, pricing.PriceValues{Price: decimal.NewFromInt(10), Currency: "USD", Quantity: 1})
	f.items.On("FindByID", ctx, f.item.ID).Return(f.item, nil)
	f.prices.On("FindOffers", ctx, f.item.ID).Return([]pricing.WarehouseOffer{
		{Price: *p, WarehouseName: "Almaty", CountryCode: "KZ"},
	}, nil)

	out, err := f.svc.GetPrices(ctx, f.item.ID)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Almaty", out[0].WarehouseName)
	assert.Equal(t, "KZ", out[0].CountryCode)
}

func TestPriceService_ListHistory_Defaults(t *testing.T) {
	f := newPriceFixture(t)
	ctx := context.Background()
	f.items.On("FindByID", ctx, f.item.ID).Return(f.item, nil)
	f.history.On("ListByItem", ctx, f.item.ID, (*uuid.UUID)(nil), 1, 20).Return([]pricing.ItemPriceHistory{
		{ID: uuid.New(), ItemID: f.item.ID, Price: decimal.NewFromInt(5), Currency: "USD", Source: pricing.SourceBulkUpload},
	}, int64(1), nil)

	rows, total, err := f.svc.ListHistory(ctx, f.item.ID, HistoryFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, pricing.SourceBulkUpload, rows[0].Source)
}
