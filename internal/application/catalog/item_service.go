package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/transaction"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// ItemService handles admin item management
type ItemService struct {
	scope           transaction.Scope
	itemRepo        catalog.ItemRepository
	detailsRepo     catalog.ItemDetailsRepository
	categoryRepo    catalog.CategoryRepository
	subcategoryRepo catalog.SubcategoryRepository
	brandRepo       catalog.BrandRepository
	locales         *catalog.LocaleMatcher
}

// NewItemService creates a new ItemService
func NewItemService(
	scope transaction.Scope,
	itemRepo catalog.ItemRepository,
	detailsRepo catalog.ItemDetailsRepository,
	categoryRepo catalog.CategoryRepository,
	subcategoryRepo catalog.SubcategoryRepository,
	brandRepo catalog.BrandRepository,
	locales *catalog.LocaleMatcher,
) *ItemService {
	return &ItemService{
		scope:           scope,
		itemRepo:        itemRepo,
		detailsRepo:     detailsRepo,
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		brandRepo:       brandRepo,
		locales:         locales,
	}
}

// Create creates a new item, optionally with details in one locale
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	exists, err := s.itemRepo.ExistsByArticle(ctx, req.Article)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Item with this article already exists")
	}

	item, err := catalog.NewItem(req.Article, req.Slug)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, item.Slug); err != nil {
		return nil, err
	}
	if err := s.checkClassification(ctx, req.CategoryID, req.SubcategoryID, req.BrandID); err != nil {
		return nil, err
	}
	if err := item.Classify(req.CategoryID, req.SubcategoryID, req.BrandID); err != nil {
		return nil, err
	}
	if len(req.Images) > 0 {
		if err := item.SetImages(req.Images); err != nil {
			return nil, err
		}
	}

	var details *catalog.ItemDetails
	if strings.TrimSpace(req.Name) != "" {
		locale, err := s.supportedLocale(req.Locale)
		if err != nil {
			return nil, err
		}
		details, err = catalog.NewItemDetails(item.ID, locale, req.Name, req.Description)
		if err != nil {
			return nil, err
		}
	}

	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		if err := repos.ItemRepo().Save(ctx, item); err != nil {
			return err
		}
		if details != nil {
			return repos.DetailsRepo().Save(ctx, details)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if details != nil {
		item.Details = []catalog.ItemDetails{*details}
	}

	resp := ToItemResponse(item, s.locales.Default())
	return &resp, nil
}

// GetByID retrieves an item with all its details
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item, s.locales.Default())
	return &resp, nil
}

// List lists items with filtering and pagination
func (s *ItemService) List(ctx context.Context, filter ItemListFilter) ([]ItemResponse, int64, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.SubcategoryID != nil {
		domainFilter.Filters["subcategory_id"] = *filter.SubcategoryID
	}
	if filter.BrandID != nil {
		domainFilter.Filters["brand_id"] = *filter.BrandID
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	items, err := s.itemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	locale := s.locales.Match(filter.Locale)
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i], locale)
	}
	return responses, total, nil
}

// Update applies a partial update
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil && *req.Slug != item.Slug {
		if err := s.ensureSlugFree(ctx, *req.Slug); err != nil {
			return nil, err
		}
		if err := item.SetSlug(*req.Slug); err != nil {
			return nil, err
		}
	}
	if req.Reclassify || req.CategoryID != nil || req.SubcategoryID != nil || req.BrandID != nil {
		if err := s.checkClassification(ctx, req.CategoryID, req.SubcategoryID, req.BrandID); err != nil {
			return nil, err
		}
		if err := item.Classify(req.CategoryID, req.SubcategoryID, req.BrandID); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		if *req.IsActive {
			item.Activate()
		} else {
			item.Deactivate()
		}
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	resp := ToItemResponse(item, s.locales.Default())
	return &resp, nil
}

// Delete removes an item together with its prices and details
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.itemRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		if err := repos.PriceRepo().DeleteByItem(ctx, id); err != nil {
			return err
		}
		return repos.ItemRepo().Delete(ctx, id)
	})
}

// SetImages replaces the image links of an item
func (s *ItemService) SetImages(ctx context.Context, id uuid.UUID, req SetImagesRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.SetImages(req.Images); err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	resp := ToItemResponse(item, s.locales.Default())
	return &resp, nil
}

// UpsertDetails creates or replaces the details of an item in a supported locale
func (s *ItemService) UpsertDetails(ctx context.Context, id uuid.UUID, locale string, req UpsertDetailsRequest) (*ItemDetailsResponse, error) {
	locale, err := s.supportedLocale(locale)
	if err != nil {
		return nil, err
	}
	if _, err := s.itemRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	details, err := s.detailsRepo.FindByItemAndLocale(ctx, id, locale)
	switch {
	case err == nil:
		if err := details.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	case shared.IsNotFound(err):
		details, err = catalog.NewItemDetails(id, locale, req.Name, req.Description)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.detailsRepo.Save(ctx, details); err != nil {
		return nil, err
	}
	resp := ToItemDetailsResponse(details)
	return &resp, nil
}

// ListDetails lists the details of an item in every locale
func (s *ItemService) ListDetails(ctx context.Context, id uuid.UUID) ([]ItemDetailsResponse, error) {
	if _, err := s.itemRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	details, err := s.detailsRepo.FindByItem(ctx, id)
	if err != nil {
		return nil, err
	}
	responses := make([]ItemDetailsResponse, len(details))
	for i := range details {
		responses[i] = ToItemDetailsResponse(&details[i])
	}
	return responses, nil
}

// DeleteDetails removes the details of an item in one locale
func (s *ItemService) DeleteDetails(ctx context.Context, id uuid.UUID, locale string) error {
	normalized, err := catalog.NormalizeLocale(locale)
	if err != nil {
		return err
	}
	return s.detailsRepo.Delete(ctx, id, normalized)
}

func (s *ItemService) supportedLocale(locale string) (string, error) {
	if strings.TrimSpace(locale) == "" {
		return s.locales.Default(), nil
	}
	normalized, err := catalog.NormalizeLocale(locale)
	if err != nil {
		return "", err
	}
	if !s.locales.IsSupported(normalized) {
		return "", shared.NewDomainError("UNSUPPORTED_LOCALE", "Locale is not supported: "+normalized)
	}
	return normalized, nil
}

func (s *ItemService) ensureSlugFree(ctx context.Context, slug string) error {
	taken, err := s.itemRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if taken {
		return shared.NewDomainError("SLUG_TAKEN", "Slug is already used by another item")
	}
	return nil
}

// checkClassification verifies the referenced category, subcategory and brand exist
// and that the subcategory belongs to the category
func (s *ItemService) checkClassification(ctx context.Context, categoryID, subcategoryID, brandID *uuid.UUID) error {
	if categoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *categoryID); err != nil {
			if shared.IsNotFound(err) {
				return shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
			}
			return err
		}
	}
	if subcategoryID != nil {
		sub, err := s.subcategoryRepo.FindByID(ctx, *subcategoryID)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewDomainError("SUBCATEGORY_NOT_FOUND", "Subcategory not found")
			}
			return err
		}
		if categoryID == nil || sub.CategoryID != *categoryID {
			return shared.NewDomainError("INVALID_CATEGORY", "Subcategory does not belong to the category")
		}
	}
	if brandID != nil {
		if _, err := s.brandRepo.FindByID(ctx, *brandID); err != nil {
			if shared.IsNotFound(err) {
				return shared.NewDomainError("BRAND_NOT_FOUND", "Brand not found")
			}
			return err
		}
	}
	return nil
}
