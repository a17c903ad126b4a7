package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/warehouse"
	"gorm.io/gorm"
)

// GormItemPriceRepository implements pricing.ItemPriceRepository using GORM
type GormItemPriceRepository struct {
	db *gorm.DB
}

// NewGormItemPriceRepository creates a new GormItemPriceRepository
func NewGormItemPriceRepository(db *gorm.DB) *GormItemPriceRepository {
	return &GormItemPriceRepository{db: db}
}

// FindByID finds a price row by ID
func (r *GormItemPriceRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.ItemPrice, error) {
	return r.findOne(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByItemAndWarehouse finds the price row of an item in a warehouse
func (r *GormItemPriceRepository) FindByItemAndWarehouse(ctx context.Context, itemID, warehouseID uuid.UUID) (*pricing.ItemPrice, error) {
	return r.findOne(r.db.WithContext(ctx).Where("item_id = ? AND warehouse_id = ?", itemID, warehouseID))
}

func (r *GormItemPriceRepository) findOne(query *gorm.DB) (*pricing.ItemPrice, error) {
	var price pricing.ItemPrice
	if err := query.First(&price).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &price, nil
}

// FindOffers returns the prices of an item in active warehouses
func (r *GormItemPriceRepository) FindOffers(ctx context.Context, itemID uuid.UUID) ([]pricing.WarehouseOffer, error) {
	offers, err := r.FindOffersForItems(ctx, []uuid.UUID{itemID})
	if err != nil {
		return nil, err
	}
	return offers[itemID], nil
}

// FindOffersForItems loads prices for several items and joins them with their
// warehouses in memory. Inactive warehouses are skipped; offers follow the
// warehouse sort order.
func (r *GormItemPriceRepository) FindOffersForItems(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]pricing.WarehouseOffer, error) {
	result := make(map[uuid.UUID][]pricing.WarehouseOffer, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	var prices []pricing.ItemPrice
	if err := r.db.WithContext(ctx).Where("item_id IN ?", itemIDs).Find(&prices).Error; err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return result, nil
	}

	var warehouses []warehouse.Warehouse
	if err := r.db.WithContext(ctx).
		Where("id IN (?) AND is_active = ?", r.db.Model(&pricing.ItemPrice{}).Select("warehouse_id").Where("item_id IN ?", itemIDs), true).
		Order("sort_order, name").
		Find(&warehouses).Error; err != nil {
		return nil, err
	}

	byWarehouse := make(map[uuid.UUID][]pricing.ItemPrice)
	for _, p := range prices {
		byWarehouse[p.WarehouseID] = append(byWarehouse[p.WarehouseID], p)
	}
	for _, wh := range warehouses {
		for _, p := range byWarehouse[wh.ID] {
			result[p.ItemID] = append(result[p.ItemID], pricing.WarehouseOffer{
				Price:         p,
				WarehouseName: wh.Name,
				CountryCode:   wh.CountryCode,
			})
		}
	}
	return result, nil
}

// Save creates or updates a price row
func (r *GormItemPriceRepository) Save(ctx context.Context, price *pricing.ItemPrice) error {
	return r.db.WithContext(ctx).Save(price).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormItemPriceRepository) SaveWithLock(ctx context.Context, price *pricing.ItemPrice) error {
	result := r.db.WithContext(ctx).
		Model(price).
		Where("id = ? AND version = ?", price.ID, price.Version-1).
		Updates(map[string]interface{}{
			"price":         price.Price,
			"currency":      price.Currency,
			"quantity":      price.Quantity,
			"promo_price":   price.PromoPrice,
			"promo_ends_at": price.PromoEndsAt,
			"badge":         price.Badge,
			"version":       price.Version,
			"updated_at":    price.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountByWarehouse counts price rows in a warehouse
func (r *GormItemPriceRepository) CountByWarehouse(ctx context.Context, warehouseID uuid.UUID) (int64, error) {
	return count(ctx, r.db, &pricing.ItemPrice{}, "warehouse_id = ?", warehouseID)
}

// DeleteByItem removes all price rows of an item
func (r *GormItemPriceRepository) DeleteByItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("item_id = ?", itemID).Delete(&pricing.ItemPrice{}).Error
}

// GormPriceHistoryRepository implements pricing.PriceHistoryRepository using GORM
type GormPriceHistoryRepository struct {
	db *gorm.DB
}

// NewGormPriceHistoryRepository creates a new GormPriceHistoryRepository
func NewGormPriceHistoryRepository(db *gorm.DB) *GormPriceHistoryRepository {
	return &GormPriceHistoryRepository{db: db}
}

// Append inserts a history entry
func (r *GormPriceHistoryRepository) Append(ctx context.Context, entry *pricing.ItemPriceHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByItem returns history for an item newest first
func (r *GormPriceHistoryRepository) ListByItem(ctx context.Context, itemID uuid.UUID, warehouseID *uuid.UUID, page, pageSize int) ([]pricing.ItemPriceHistory, int64, error) {
	query := r.db.WithContext(ctx).Model(&pricing.ItemPriceHistory{}).Where("item_id = ?", itemID)
	if warehouseID != nil {
		query = query.Where("warehouse_id = ?", *warehouseID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []pricing.ItemPriceHistory
	paged := query.Order("recorded_at DESC")
	if pageSize > 0 {
		f := shared.Filter{Page: page, PageSize: pageSize}
		paged = paged.Limit(pageSize).Offset(f.Offset())
	}
	if err := paged.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// GormExchangeRateRepository implements pricing.ExchangeRateRepository using GORM
type GormExchangeRateRepository struct {
	db *gorm.DB
}

// NewGormExchangeRateRepository creates a new GormExchangeRateRepository
func NewGormExchangeRateRepository(db *gorm.DB) *GormExchangeRateRepository {
	return &GormExchangeRateRepository{db: db}
}

// FindAll lists stored rate overrides by currency
func (r *GormExchangeRateRepository) FindAll(ctx context.Context) ([]pricing.ExchangeRate, error) {
	var rates []pricing.ExchangeRate
	if err := r.db.WithContext(ctx).Order("currency").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// FindByCurrency finds the override for one currency
func (r *GormExchangeRateRepository) FindByCurrency(ctx context.Context, currency string) (*pricing.ExchangeRate, error) {
	var rate pricing.ExchangeRate
	if err := r.db.WithContext(ctx).Where("currency = ?", strings.ToUpper(currency)).First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

// Save creates or updates a rate override
func (r *GormExchangeRateRepository) Save(ctx context.Context, rate *pricing.ExchangeRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

var (
	_ pricing.ItemPriceRepository    = (*GormItemPriceRepository)(nil)
	_ pricing.PriceHistoryRepository = (*GormPriceHistoryRepository)(nil)
	_ pricing.ExchangeRateRepository = (*GormExchangeRateRepository)(nil)
)
