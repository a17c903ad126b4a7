package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item with its details
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindBySlug finds an item by slug
func (r *GormItemRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Item, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

// FindByArticle finds an item by its normalized article
func (r *GormItemRepository) FindByArticle(ctx context.Context, article string) (*catalog.Item, error) {
	return r.findOne(ctx, "article = ?", catalog.NormalizeArticle(article))
}

func (r *GormItemRepository) findOne(ctx context.Context, cond string, arg any) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).Preload("Details").Where(cond, arg).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDs loads several items with details
func (r *GormItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Item, error) {
	if len(ids) == 0 {
		return []catalog.Item{}, nil
	}
	var items []catalog.Item
	if err := r.db.WithContext(ctx).Preload("Details").Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindAll lists items matching the filter with their details
func (r *GormItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, error) {
	var items []catalog.Item
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Item{}), filter)
	query = orderAndPage(query, "items", filter, ItemSortFields, "created_at")
	if err := query.Preload("Details").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Count counts items matching the filter
func (r *GormItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Item{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(items.article) LIKE ? OR EXISTS (SELECT 1 FROM item_details d WHERE d.item_id = items.id AND LOWER(d.name) LIKE ?)",
			pattern, pattern,
		)
	}
	for _, key := range []string{"category_id", "subcategory_id", "brand_id", "is_active"} {
		if value, ok := filter.Filters[key]; ok && value != nil {
			query = query.Where(fmt.Sprintf("items.%s = ?", key), value)
		}
	}
	return query
}

// Save creates or updates an item; details are persisted by ItemDetailsRepository
func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

// Delete removes an item and its details
func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&catalog.ItemDetails{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Item{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsByArticle checks article uniqueness
func (r *GormItemRepository) ExistsByArticle(ctx context.Context, article string) (bool, error) {
	return exists(ctx, r.db, &catalog.Item{}, "article = ?", catalog.NormalizeArticle(article))
}

// ExistsBySlug checks slug uniqueness
func (r *GormItemRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return exists(ctx, r.db, &catalog.Item{}, "slug = ?", slug)
}

// CountByCategory counts items referencing a category
func (r *GormItemRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	return count(ctx, r.db, &catalog.Item{}, "category_id = ?", categoryID)
}

// CountByBrand counts items referencing a brand
func (r *GormItemRepository) CountByBrand(ctx context.Context, brandID uuid.UUID) (int64, error) {
	return count(ctx, r.db, &catalog.Item{}, "brand_id = ?", brandID)
}

// GormItemDetailsRepository implements catalog.ItemDetailsRepository using GORM
type GormItemDetailsRepository struct {
	db *gorm.DB
}

// NewGormItemDetailsRepository creates a new GormItemDetailsRepository
func NewGormItemDetailsRepository(db *gorm.DB) *GormItemDetailsRepository {
	return &GormItemDetailsRepository{db: db}
}

// FindByItem returns all localized details of an item ordered by locale
func (r *GormItemDetailsRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]catalog.ItemDetails, error) {
	var details []catalog.ItemDetails
	if err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Order("locale").Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

// FindByItemAndLocale returns the details of an item in one locale
func (r *GormItemDetailsRepository) FindByItemAndLocale(ctx context.Context, itemID uuid.UUID, locale string) (*catalog.ItemDetails, error) {
	var details catalog.ItemDetails
	if err := r.db.WithContext(ctx).Where("item_id = ? AND locale = ?", itemID, locale).First(&details).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &details, nil
}

// Save creates or updates item details
func (r *GormItemDetailsRepository) Save(ctx context.Context, details *catalog.ItemDetails) error {
	return r.db.WithContext(ctx).Save(details).Error
}

// Delete removes the details of an item in one locale
func (r *GormItemDetailsRepository) Delete(ctx context.Context, itemID uuid.UUID, locale string) error {
	result := r.db.WithContext(ctx).Where("item_id = ? AND locale = ?", itemID, locale).Delete(&catalog.ItemDetails{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func exists(ctx context.Context, db *gorm.DB, model any, cond string, args ...any) (bool, error) {
	n, err := count(ctx, db, model, cond, args...)
	return n > 0, err
}

func count(ctx context.Context, db *gorm.DB, model any, cond string, args ...any) (int64, error) {
	var n int64
	if err := db.WithContext(ctx).Model(model).Where(cond, args...).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

var (
	_ catalog.ItemRepository        = (*GormItemRepository)(nil)
	_ catalog.ItemDetailsRepository = (*GormItemDetailsRepository)(nil)
)
