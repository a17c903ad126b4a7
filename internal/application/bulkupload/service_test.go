package bulkupload

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/application/transaction"
	"github.com/storefront/backend/internal/domain/bulk"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/warehouse"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc           *Service
	items         *testutil.MockItemRepository
	details       *testutil.MockItemDetailsRepository
	prices        *testutil.MockItemPriceRepository
	history       *testutil.MockPriceHistoryRepository
	warehouses    *testutil.MockWarehouseRepository
	categories    *testutil.MockCategoryRepository
	subcategories *testutil.MockSubcategoryRepository
	brands        *testutil.MockBrandRepository
	uploads       *testutil.MockUploadRepository
	warehouse     *warehouse.Warehouse
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	wh, err := warehouse.NewWarehouse("ALA-1", "Almaty", "KZ")
	require.NoError(t, err)

	f := &fixture{
		items:         new(testutil.MockItemRepository),
		details:       new(testutil.MockItemDetailsRepository),
		prices:        new(testutil.MockItemPriceRepository),
		history:       new(testutil.MockPriceHistoryRepository),
		warehouses:    new(testutil.MockWarehouseRepository),
		categories:    new(testutil.MockCategoryRepository),
		subcategories: new(testutil.MockSubcategoryRepository),
		brands:        new(testutil.MockBrandRepository),
		uploads:       new(testutil.MockUploadRepository),
		warehouse:     wh,
	}
	scope := transaction.NewNoOpScope(transaction.NoOpRepos{
		Items:         f.items,
		Details:       f.details,
		Categories:    f.categories,
		Subcategories: f.subcategories,
		Brands:        f.brands,
		Prices:        f.prices,
		History:       f.history,
	})
	f.svc = NewService(scope, f.warehouses, f.uploads,
		catalog.NewLocaleMatcher([]string{"en", "ru"}), nil,
		Config{MaxRows: 1000, MaxErrors: 100, BaseCurrency: "USD"}, nil)
	f.warehouses.On("FindByID", mock.Anything, wh.ID).Return(wh, nil)
	return f
}

func newPrice(t *testing.T, itemID, warehouseID uuid.UUID, price string) *pricing.ItemPrice {
	t.Helper()
	p, err := pricing.NewItemPrice(itemID, warehouseID, pricing.PriceValues{
		Price:    decimal.RequireFromString(price),
		Currency: "USD",
		Quantity: 1,
	})
	require.NoError(t, err)
	return p
}

func TestReconcile_UpdatesAndCreates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	existing, err := catalog.NewItem("AB-1", "")
	require.NoError(t, err)
	current := newPrice(t, existing.ID, f.warehouse.ID, "8")
	category, err := catalog.NewCategory("phones", "en", "Phones")
	require.NoError(t, err)

	f.items.On("FindByArticle", mock.Anything, "AB-1").Return(existing, nil)
	f.prices.On("FindByItemAndWarehouse", mock.Anything, existing.ID, f.warehouse.ID).Return(current, nil)
	f.history.On("Append", mock.Anything, mock.AnythingOfType("*pricing.ItemPriceHistory")).Return(nil)
	f.prices.On("SaveWithLock", mock.Anything, current).Return(nil)
	f.prices.On("Save", mock.Anything, mock.AnythingOfType("*pricing.ItemPrice")).Return(nil)

	f.items.On("FindByArticle", mock.Anything, "CD-2").Return(nil, shared.ErrNotFound)
	f.categories.On("FindBySlug", mock.Anything, "phones").Return(category, nil)
	f.items.On("ExistsBySlug", mock.Anything, "cd-2").Return(false, nil)
	f.items.On("Save", mock.Anything, mock.MatchedBy(func(i *catalog.Item) bool {
		return i.Article == "CD-2" && i.CategoryID != nil && *i.CategoryID == category.ID
	})).Return(nil)
	f.details.On("Save", mock.Anything, mock.MatchedBy(func(d *catalog.ItemDetails) bool {
		return d.Locale == "ru" && d.Name == "Новый"
	})).Return(nil)
	f.prices.On("FindByItemAndWarehouse", mock.Anything, mock.Anything, f.warehouse.ID).Return(nil, shared.ErrNotFound)

	f.items.On("FindByArticle", mock.Anything, "EF-3").Return(nil, shared.ErrNotFound)

	rows := []Row{
		{Line: 2, Article: "AB-1", Price: decimal.NewFromInt(10), Quantity: 5},
		{Line: 3, Article: "CD-2", Price: decimal.NewFromInt(20), Quantity: 1, Category: "Phones", Name: "Новый"},
		{Line: 4, Article: "EF-3", Price: decimal.NewFromInt(30), Quantity: 1, Category: "Phones"},
	}
	result, err := f.svc.Reconcile(ctx, f.warehouse.ID, "ru", pricing.SourceBulkUpload, rows)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 1, result.UpdatedRows)
	assert.Equal(t, 1, result.CreatedRows)
	assert.Equal(t, 1, result.FailedRows)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 4, result.Errors[0].Line)
	assert.Equal(t, "name", result.Errors[0].Column)
	assert.True(t, current.Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 5, current.Quantity)
	f.history.AssertNumberOfCalls(t, "Append", 1)
}

func TestReconcile_UnknownCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.items.On("FindByArticle", mock.Anything, "AB-1").Return(nil, shared.ErrNotFound)
	f.categories.On("FindBySlug", mock.Anything, "garden").Return(nil, shared.ErrNotFound)
	f.categories.On("FindByName", mock.Anything, "Garden").Return(nil, shared.ErrNotFound)

	result, err := f.svc.Reconcile(ctx, f.warehouse.ID, "", pricing.SourceBulkUpload, []Row{
		{Line: 2, Article: "AB-1", Price: decimal.NewFromInt(10), Quantity: 1, Category: "Garden", Name: "Rake"},
	})
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ErrCodeCategoryNotFound, result.Errors[0].Code)
	f.items.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReconcile_DomainErrorBecomesRowError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	existing, err := catalog.NewItem("AB-1", "")
	require.NoError(t, err)
	f.items.On("FindByArticle", mock.Anything, "AB-1").Return(existing, nil)
	f.prices.On("FindByItemAndWarehouse", mock.Anything, existing.ID, f.warehouse.ID).Return(nil, shared.ErrNotFound)

	result, err := f.svc.Reconcile(ctx, f.warehouse.ID, "en", pricing.SourceBulkUpload, []Row{
		{Line: 7, Article: "AB-1", Price: decimal.Zero, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.FailedRows)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "INVALID_PRICE", result.Errors[0].Code)
	assert.Equal(t, 7, result.Errors[0].Line)
}

func TestReconcile_WarehouseNotFound(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()
	f.warehouses.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

	_, err := f.svc.Reconcile(context.Background(), missing, "en", pricing.SourceBulkUpload, nil)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "WAREHOUSE_NOT_FOUND", de.Code)
}

func TestReconcile_UnsupportedLocale(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Reconcile(context.Background(), f.warehouse.ID, "de", pricing.SourceBulkUpload, nil)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "UNSUPPORTED_LOCALE", de.Code)
}

func TestReconcile_Cancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.svc.Reconcile(ctx, f.warehouse.ID, "en", pricing.SourceBulkUpload, []Row{
		{Line: 2, Article: "AB-1", Price: decimal.NewFromInt(1), Quantity: 1},
	})
	require.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, result)
	assert.True(t, result.Cancelled)
	assert.Zero(t, result.CreatedRows+result.UpdatedRows)
	assert.Equal(t, 1, result.SkippedRows)
	assert.Zero(t, result.FailedRows, "rows never reached are not failures")
	f.items.AssertNotCalled(t, "FindByArticle", mock.Anything, mock.Anything)
}

func TestUpload_CSV(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	existing, err := catalog.NewItem("AB-1", "")
	require.NoError(t, err)
	current := newPrice(t, existing.ID, f.warehouse.ID, "8")
	f.items.On("FindByArticle", mock.Anything, "AB-1").Return(existing, nil)
	f.prices.On("FindByItemAndWarehouse", mock.Anything, existing.ID, f.warehouse.ID).Return(current, nil)
	f.history.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.prices.On("SaveWithLock", mock.Anything, current).Return(nil)

	var saved *bulk.Upload
	f.uploads.On("Save", mock.Anything, mock.AnythingOfType("*bulk.Upload")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*bulk.Upload) }).
		Return(nil)

	body := "SKU;Price;Qty\nab-1;12,50;3\nzz-9;abc;1\n"
	resp, err := f.svc.Upload(ctx, UploadRequest{
		WarehouseID: f.warehouse.ID,
		FileName:    "prices.csv",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TotalRows)
	assert.Equal(t, 1, resp.UpdatedRows)
	assert.Equal(t, 1, resp.FailedRows)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, 3, resp.Errors[0].Line)
	assert.Equal(t, "price", resp.Errors[0].Column)
	assert.True(t, current.Price.Equal(decimal.RequireFromString("12.5")))

	require.NotNil(t, saved)
	assert.Equal(t, resp.UploadID, saved.ID)
	assert.Equal(t, bulk.UploadStatusCompleted, saved.Status)
	assert.Equal(t, "en", saved.Locale)
	assert.Len(t, saved.ErrorDetails, 1)
	f.uploads.AssertNumberOfCalls(t, "Save", 2)
}

func TestUpload_UnsupportedFormat(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Upload(context.Background(), UploadRequest{
		WarehouseID: f.warehouse.ID,
		FileName:    "prices.pdf",
		Body:        strings.NewReader("%PDF"),
	})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "UNSUPPORTED_FORMAT", de.Code)
	f.uploads.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestListUploads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := bulk.NewUpload(f.warehouse.ID, "en", pricing.SourceBulkUpload, "a.csv", 10, nil)
	require.NoError(t, err)

	f.uploads.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["status"] == "processing" && filter.PageSize == 20
	})).Return([]bulk.Upload{*u}, nil)
	f.uploads.On("Count", ctx, mock.Anything).Return(int64(1), nil)

	list, total, err := f.svc.ListUploads(ctx, UploadListFilter{Status: "processing"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "a.csv", list[0].FileName)
}
