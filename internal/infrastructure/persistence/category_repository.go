package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Translations").
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order, slug")
		}).
		Preload("Subcategories.Translations")
}

// FindByID finds a category with translations and subcategories
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	return r.findOne(r.preloaded(ctx).Where("id = ?", id))
}

// FindBySlug finds a category by slug
func (r *GormCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	return r.findOne(r.preloaded(ctx).Where("slug = ?", slug))
}

// FindByName finds a category whose translated name matches in any locale
func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	return r.findOne(r.preloaded(ctx).Where(
		"id IN (SELECT category_id FROM category_translations WHERE LOWER(name) = ?)",
		strings.ToLower(strings.TrimSpace(name)),
	))
}

func (r *GormCategoryRepository) findOne(query *gorm.DB) (*catalog.Category, error) {
	var category catalog.Category
	if err := query.First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAll returns every category ordered by sort order
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.preloaded(ctx).Order("sort_order, slug").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates a category with its translations
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Omit("Subcategories").
		Save(category).Error
}

// Delete removes a category, its subcategories and all their translations
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subIDs := tx.Model(&catalog.Subcategory{}).Select("id").Where("category_id = ?", id)
		if err := tx.Where("subcategory_id IN (?)", subIDs).Delete(&catalog.SubcategoryTranslation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&catalog.Subcategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&catalog.CategoryTranslation{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Category{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsBySlug checks slug uniqueness
func (r *GormCategoryRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return exists(ctx, r.db, &catalog.Category{}, "slug = ?", slug)
}

// GormSubcategoryRepository implements catalog.SubcategoryRepository using GORM
type GormSubcategoryRepository struct {
	db *gorm.DB
}

// NewGormSubcategoryRepository creates a new GormSubcategoryRepository
func NewGormSubcategoryRepository(db *gorm.DB) *GormSubcategoryRepository {
	return &GormSubcategoryRepository{db: db}
}

// FindByID finds a subcategory with translations
func (r *GormSubcategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Subcategory, error) {
	return r.findOne(r.db.WithContext(ctx).Preload("Translations").Where("id = ?", id))
}

// FindBySlug finds a subcategory by slug
func (r *GormSubcategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Subcategory, error) {
	return r.findOne(r.db.WithContext(ctx).Preload("Translations").Where("slug = ?", slug))
}

// FindByName finds a subcategory of categoryID by translated name
func (r *GormSubcategoryRepository) FindByName(ctx context.Context, categoryID uuid.UUID, name string) (*catalog.Subcategory, error) {
	return r.findOne(r.db.WithContext(ctx).Preload("Translations").Where(
		"category_id = ? AND id IN (SELECT subcategory_id FROM subcategory_translations WHERE LOWER(name) = ?)",
		categoryID, strings.ToLower(strings.TrimSpace(name)),
	))
}

func (r *GormSubcategoryRepository) findOne(query *gorm.DB) (*catalog.Subcategory, error) {
	var sub catalog.Subcategory
	if err := query.First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByCategory lists the subcategories of a category
func (r *GormSubcategoryRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]catalog.Subcategory, error) {
	var subs []catalog.Subcategory
	if err := r.db.WithContext(ctx).Preload("Translations").
		Where("category_id = ?", categoryID).
		Order("sort_order, slug").
		Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// Save creates or updates a subcategory with its translations
func (r *GormSubcategoryRepository) Save(ctx context.Context, sub *catalog.Subcategory) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(sub).Error
}

// Delete removes a subcategory and its translations
func (r *GormSubcategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subcategory_id = ?", id).Delete(&catalog.SubcategoryTranslation{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Subcategory{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsBySlug checks slug uniqueness
func (r *GormSubcategoryRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return exists(ctx, r.db, &catalog.Subcategory{}, "slug = ?", slug)
}

// CountItems counts items referencing the subcategory
func (r *GormSubcategoryRepository) CountItems(ctx context.Context, id uuid.UUID) (int64, error) {
	return count(ctx, r.db, &catalog.Item{}, "subcategory_id = ?", id)
}

// GormBrandRepository implements catalog.BrandRepository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// FindByID finds a brand by ID
func (r *GormBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Brand, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindBySlug finds a brand by slug
func (r *GormBrandRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Brand, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

// FindByName finds a brand by name, case-insensitively
func (r *GormBrandRepository) FindByName(ctx context.Context, name string) (*catalog.Brand, error) {
	return r.findOne(ctx, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
}

func (r *GormBrandRepository) findOne(ctx context.Context, cond string, arg any) (*catalog.Brand, error) {
	var brand catalog.Brand
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &brand, nil
}

// FindAll lists brands matching the filter
func (r *GormBrandRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Brand, error) {
	var brands []catalog.Brand
	query := orderAndPage(r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Brand{}), filter), "brands", filter, BrandSortFields, "name")
	if err := query.Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

// Count counts brands matching the filter
func (r *GormBrandRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Brand{}), filter).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormBrandRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(brands.name) LIKE ?", likePattern(filter.Search))
	}
	return query
}

// Save creates or updates a brand
func (r *GormBrandRepository) Save(ctx context.Context, brand *catalog.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

// Delete removes a brand
func (r *GormBrandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Brand{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsBySlug checks slug uniqueness
func (r *GormBrandRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	return exists(ctx, r.db, &catalog.Brand{}, "slug = ?", slug)
}

var (
	_ catalog.CategoryRepository    = (*GormCategoryRepository)(nil)
	_ catalog.SubcategoryRepository = (*GormSubcategoryRepository)(nil)
	_ catalog.BrandRepository       = (*GormBrandRepository)(nil)
)
