package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/warehouse"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a single-connection in-memory sqlite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(Models()...))
	return db
}

func seedItem(t *testing.T, db *gorm.DB, article, name string) *catalog.Item {
	t.Helper()
	ctx := context.Background()
	item, err := catalog.NewItem(article, "")
	require.NoError(t, err)
	require.NoError(t, NewGormItemRepository(db).Save(ctx, item))
	details, err := catalog.NewItemDetails(item.ID, "en", name, "")
	require.NoError(t, err)
	require.NoError(t, NewGormItemDetailsRepository(db).Save(ctx, details))
	return item
}

func seedWarehouse(t *testing.T, db *gorm.DB, code, name string, sortOrder int) *warehouse.Warehouse {
	t.Helper()
	wh, err := warehouse.NewWarehouse(code, name, "KZ")
	require.NoError(t, err)
	wh.SortOrder = sortOrder
	require.NoError(t, NewGormWarehouseRepository(db).Save(context.Background(), wh))
	return wh
}

func seedPrice(t *testing.T, db *gorm.DB, item *catalog.Item, wh *warehouse.Warehouse, price string, qty int) *pricing.ItemPrice {
	t.Helper()
	p, err := pricing.NewItemPrice(item.ID, wh.ID, pricing.PriceValues{
		Price:    decimal.RequireFromString(price),
		Currency: "USD",
		Quantity: qty,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormItemPriceRepository(db).Save(context.Background(), p))
	return p
}
