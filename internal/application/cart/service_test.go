package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    *CartService
	carts  *testutil.MockCartRepository
	items  *testutil.MockItemRepository
	prices *testutil.MockItemPriceRepository
	userID uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		carts:  new(testutil.MockCartRepository),
		items:  new(testutil.MockItemRepository),
		prices: new(testutil.MockItemPriceRepository),
		userID: uuid.New(),
	}
	f.svc = NewCartService(f.carts, f.items, f.prices,
		testutil.NewRatesStub(map[string]string{"EUR": "0.5"}),
		catalog.NewLocaleMatcher([]string{"en", "ru"}), nil)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func newItem(t *testing.T, article, name string) *catalog.Item {
	t.Helper()
	item, err := catalog.NewItem(article, "")
	require.NoError(t, err)
	d, err := catalog.NewItemDetails(item.ID, "en", name, "")
	require.NoError(t, err)
	item.Details = []catalog.ItemDetails{*d}
	return item
}

func newPrice(t *testing.T, itemID, warehouseID uuid.UUID, price string, qty int) *pricing.ItemPrice {
	t.Helper()
	p, err := pricing.NewItemPrice(itemID, warehouseID, pricing.PriceValues{
		Price:    decimal.RequireFromString(price),
		Currency: "USD",
		Quantity: qty,
	})
	require.NoError(t, err)
	return p
}

func TestCartService_GetCart_Empty(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.carts.On("FindByUser", ctx, f.userID).Return(nil, shared.ErrNotFound)

	view, err := f.svc.GetCart(ctx, f.userID, ViewQuery{})

	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, "USD", view.Currency)
	assert.Equal(t, "0.00", view.Subtotal)
	assert.False(t, view.CanCheckout)
}

func TestCartService_AddItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := newItem(t, "AB-1", "Phone")
	warehouseID := uuid.New()
	price := newPrice(t, item.ID, warehouseID, "10.50", 5)

	f.items.On("FindByID", ctx, item.ID).Return(item, nil)
	f.prices.On("FindByItemAndWarehouse", ctx, item.ID, warehouseID).Return(price, nil)
	f.carts.On("FindByUser", ctx, f.userID).Return(nil, shared.ErrNotFound)
	f.carts.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)
	f.items.On("FindByIDs", ctx, []uuid.UUID{item.ID}).Return([]catalog.Item{*item}, nil)
	f.prices.On("FindOffersForItems", ctx, []uuid.UUID{item.ID}).Return(map[uuid.UUID][]pricing.WarehouseOffer{
		item.ID: {{Price: *price, WarehouseName: "Almaty", CountryCode: "KZ"}},
	}, nil)

	view, err := f.svc.AddItem(ctx, f.userID, AddItemRequest{ItemID: item.ID, WarehouseID: warehouseID, Quantity: 2},
		ViewQuery{Currency: "eur"})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	line := view.Items[0]
	assert.Equal(t, "Phone", line.Name)
	assert.Equal(t, "Almaty", line.WarehouseName)
	assert.Equal(t, "5.25", line.UnitPrice)
	assert.Equal(t, "10.50", line.LineTotal)
	assert.True(t, line.Available)
	assert.Equal(t, "EUR", view.Currency)
	assert.Equal(t, "10.50", view.Subtotal)
	assert.True(t, view.CanCheckout)
}

func TestCartService_AddItem_ExceedsStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := newItem(t, "AB-1", "Phone")
	warehouseID := uuid.New()

	f.items.On("FindByID", ctx, item.ID).Return(item, nil)
	f.prices.On("FindByItemAndWarehouse", ctx, item.ID, warehouseID).Return(newPrice(t, item.ID, warehouseID, "1", 1), nil)
	f.carts.On("FindByUser", ctx, f.userID).Return(nil, shared.ErrNotFound)

	_, err := f.svc.AddItem(ctx, f.userID, AddItemRequest{ItemID: item.ID, WarehouseID: warehouseID, Quantity: 3}, ViewQuery{})

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INSUFFICIENT_STOCK", de.Code)
	f.carts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartService_AddItem_NotSoldFromWarehouse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := newItem(t, "AB-1", "Phone")
	warehouseID := uuid.New()

	f.items.On("FindByID", ctx, item.ID).Return(item, nil)
	f.prices.On("FindByItemAndWarehouse", ctx, item.ID, warehouseID).Return(nil, shared.ErrNotFound)

	_, err := f.svc.AddItem(ctx, f.userID, AddItemRequest{ItemID: item.ID, WarehouseID: warehouseID, Quantity: 1}, ViewQuery{})

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "ITEM_NOT_AVAILABLE", de.Code)
}

func TestCartService_UnavailableLineBlocksCheckout(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := newItem(t, "AB-1", "Phone")
	item.Deactivate()
	c := cart.NewCart(f.userID)
	_, err := c.AddItem(item.ID, uuid.New(), 1)
	require.NoError(t, err)

	f.carts.On("FindByUser", ctx, f.userID).Return(c, nil)
	f.items.On("FindByIDs", ctx, []uuid.UUID{item.ID}).Return([]catalog.Item{*item}, nil)
	f.prices.On("FindOffersForItems", ctx, []uuid.UUID{item.ID}).Return(map[uuid.UUID][]pricing.WarehouseOffer{}, nil)

	view, err := f.svc.GetCart(ctx, f.userID, ViewQuery{})

	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.False(t, view.Items[0].Available)
	assert.Empty(t, view.Items[0].UnitPrice)
	assert.False(t, view.CanCheckout)
	assert.Equal(t, "0.00", view.Subtotal)
}

func TestCartService_UpdateQuantityAndRemove(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := newItem(t, "AB-1", "Phone")
	warehouseID := uuid.New()
	price := newPrice(t, item.ID, warehouseID, "2", 4)
	c := cart.NewCart(f.userID)
	line, err := c.AddItem(item.ID, warehouseID, 1)
	require.NoError(t, err)
	lineID := line.ID

	f.carts.On("FindByUser", ctx, f.userID).Return(c, nil)
	f.carts.On("Save", ctx, c).Return(nil)
	f.prices.On("FindByItemAndWarehouse", ctx, item.ID, warehouseID).Return(price, nil)
	f.items.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Item{*item}, nil)
	f.prices.On("FindOffersForItems", ctx, mock.Anything).Return(map[uuid.UUID][]pricing.WarehouseOffer{
		item.ID: {{Price: *price}},
	}, nil)

	view, err := f.svc.UpdateQuantity(ctx, f.userID, lineID, 4, ViewQuery{})
	require.NoError(t, err)
	assert.Equal(t, 4, view.TotalQuantity)
	assert.Equal(t, "8.00", view.Subtotal)

	_, err = f.svc.UpdateQuantity(ctx, f.userID, lineID, 5, ViewQuery{})
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	view, err = f.svc.RemoveItem(ctx, f.userID, lineID, ViewQuery{})
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = f.svc.RemoveItem(ctx, f.userID, lineID, ViewQuery{})
	assert.True(t, shared.IsNotFound(err))
}

func TestCartService_Clear(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	c := cart.NewCart(f.userID)
	_, err := c.AddItem(uuid.New(), uuid.New(), 1)
	require.NoError(t, err)
	f.carts.On("FindByUser", ctx, f.userID).Return(c, nil)
	f.carts.On("Save", ctx, c).Return(nil)

	require.NoError(t, f.svc.Clear(ctx, f.userID))
	assert.True(t, c.IsEmpty())
}
