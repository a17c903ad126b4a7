package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/warehouse"
	"gorm.io/gorm"
)

// GormWarehouseRepository implements warehouse.WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByID finds a warehouse by its ID
func (r *GormWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Warehouse, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByCode finds a warehouse by its code
func (r *GormWarehouseRepository) FindByCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	return r.findOne(ctx, "code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

func (r *GormWarehouseRepository) findOne(ctx context.Context, cond string, arg any) (*warehouse.Warehouse, error) {
	var wh warehouse.Warehouse
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&wh).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wh, nil
}

// FindByIDs finds multiple warehouses by their IDs
func (r *GormWarehouseRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]warehouse.Warehouse, error) {
	if len(ids) == 0 {
		return []warehouse.Warehouse{}, nil
	}
	var warehouses []warehouse.Warehouse
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("sort_order, name").Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

// FindAll finds all warehouses matching the filter
func (r *GormWarehouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]warehouse.Warehouse, error) {
	var warehouses []warehouse.Warehouse
	query := orderAndPage(r.applyFilter(r.db.WithContext(ctx).Model(&warehouse.Warehouse{}), filter),
		"warehouses", filter, WarehouseSortFields, "sort_order")
	if err := query.Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

// Count counts warehouses matching the filter
func (r *GormWarehouseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&warehouse.Warehouse{}), filter).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormWarehouseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(warehouses.name) LIKE ? OR LOWER(warehouses.code) LIKE ?", pattern, pattern)
	}
	for _, key := range []string{"country_code", "is_active"} {
		if value, ok := filter.Filters[key]; ok && value != nil {
			query = query.Where(fmt.Sprintf("warehouses.%s = ?", key), value)
		}
	}
	return query
}

// Save creates or updates a warehouse
func (r *GormWarehouseRepository) Save(ctx context.Context, wh *warehouse.Warehouse) error {
	return r.db.WithContext(ctx).Save(wh).Error
}

// Delete removes a warehouse
func (r *GormWarehouseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&warehouse.Warehouse{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByCode checks code uniqueness
func (r *GormWarehouseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return exists(ctx, r.db, &warehouse.Warehouse{}, "code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

// GormCountryRepository implements warehouse.CountryRepository using GORM
type GormCountryRepository struct {
	db *gorm.DB
}

// NewGormCountryRepository creates a new GormCountryRepository
func NewGormCountryRepository(db *gorm.DB) *GormCountryRepository {
	return &GormCountryRepository{db: db}
}

// FindByCode finds a country by ISO code
func (r *GormCountryRepository) FindByCode(ctx context.Context, code string) (*warehouse.Country, error) {
	var country warehouse.Country
	if err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&country).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &country, nil
}

// FindAll lists countries ordered by code
func (r *GormCountryRepository) FindAll(ctx context.Context) ([]warehouse.Country, error) {
	var countries []warehouse.Country
	if err := r.db.WithContext(ctx).Order("code").Find(&countries).Error; err != nil {
		return nil, err
	}
	return countries, nil
}

// Save creates or updates a country
func (r *GormCountryRepository) Save(ctx context.Context, country *warehouse.Country) error {
	return r.db.WithContext(ctx).Save(country).Error
}

var (
	_ warehouse.WarehouseRepository = (*GormWarehouseRepository)(nil)
	_ warehouse.CountryRepository   = (*GormCountryRepository)(nil)
)
