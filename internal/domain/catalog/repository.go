package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// FindByID finds an item with its details
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindBySlug finds an item by slug with its details
	FindBySlug(ctx context.Context, slug string) (*Item, error)

	// FindByArticle finds an item by its (normalized) article
	FindByArticle(ctx context.Context, article string) (*Item, error)

	// FindByIDs loads several items with details, in no particular order
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Item, error)

	// FindAll lists items. Filters: category_id, subcategory_id, brand_id, is_active.
	// Search matches the article or any localized name.
	FindAll(ctx context.Context, filter shared.Filter) ([]Item, error)

	// Count counts items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates an item (details are saved separately)
	Save(ctx context.Context, item *Item) error

	// Delete removes an item and its details
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByArticle checks article uniqueness
	ExistsByArticle(ctx context.Context, article string) (bool, error)

	// ExistsBySlug checks slug uniqueness
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// CountByCategory counts items referencing a category
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// CountByBrand counts items referencing a brand
	CountByBrand(ctx context.Context, brandID uuid.UUID) (int64, error)
}

// ItemDetailsRepository persists locale-specific item details
type ItemDetailsRepository interface {
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]ItemDetails, error)
	FindByItemAndLocale(ctx context.Context, itemID uuid.UUID, locale string) (*ItemDetails, error)
	Save(ctx context.Context, details *ItemDetails) error
	Delete(ctx context.Context, itemID uuid.UUID, locale string) error
}

// CategoryRepository persists categories with their translations
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	// FindByName matches a translated name case-insensitively in any locale
	FindByName(ctx context.Context, name string) (*Category, error)
	// FindAll returns categories with translations and subcategories, ordered by sort_order
	FindAll(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// SubcategoryRepository persists subcategories with their translations
type SubcategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Subcategory, error)
	FindBySlug(ctx context.Context, slug string) (*Subcategory, error)
	// FindByName matches a translated name inside one category
	FindByName(ctx context.Context, categoryID uuid.UUID, name string) (*Subcategory, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]Subcategory, error)
	Save(ctx context.Context, subcategory *Subcategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	CountItems(ctx context.Context, id uuid.UUID) (int64, error)
}

// BrandRepository persists brands
type BrandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	FindBySlug(ctx context.Context, slug string) (*Brand, error)
	// FindByName matches case-insensitively
	FindByName(ctx context.Context, name string) (*Brand, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Brand, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, brand *Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}
