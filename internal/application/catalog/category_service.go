package catalog

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryService handles categories, subcategories and their translations
type CategoryService struct {
	categoryRepo    catalog.CategoryRepository
	subcategoryRepo catalog.SubcategoryRepository
	itemRepo        catalog.ItemRepository
	locales         *catalog.LocaleMatcher
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	subcategoryRepo catalog.SubcategoryRepository,
	itemRepo catalog.ItemRepository,
	locales *catalog.LocaleMatcher,
) *CategoryService {
	return &CategoryService{
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		itemRepo:        itemRepo,
		locales:         locales,
	}
}

// ListTree returns every category with its subcategories, named in the locale best matching requested
func (s *CategoryService) ListTree(ctx context.Context, requested string, withNames bool) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	locale := s.locales.Match(requested)
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i], locale, s.locales.Default(), withNames)
	}
	return responses, nil
}

// GetByID retrieves a category with every translation
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c, s.locales.Default(), s.locales.Default(), true)
	return &resp, nil
}

// Create creates a category named in one or more supported locales
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	names, err := s.normalizeNames(req.Names)
	if err != nil {
		return nil, err
	}
	locales := s.orderedLocales(names)

	c, err := catalog.NewCategory(req.Slug, locales[0], names[locales[0]])
	if err != nil {
		return nil, err
	}
	for _, l := range locales[1:] {
		if err := c.SetTranslation(l, names[l]); err != nil {
			return nil, err
		}
	}
	if err := c.Update(c.Slug, req.SortOrder); err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsBySlug(ctx, c.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this slug already exists")
	}

	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c, s.locales.Default(), s.locales.Default(), true)
	return &resp, nil
}

// Update changes slug, sort order and merges translations
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slug, sortOrder := c.Slug, c.SortOrder
	if req.Slug != nil && *req.Slug != c.Slug {
		exists, err := s.categoryRepo.ExistsBySlug(ctx, *req.Slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this slug already exists")
		}
		slug = *req.Slug
	}
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	if err := c.Update(slug, sortOrder); err != nil {
		return nil, err
	}

	if len(req.Names) > 0 {
		names, err := s.normalizeNames(req.Names)
		if err != nil {
			return nil, err
		}
		for _, l := range s.orderedLocales(names) {
			if err := c.SetTranslation(l, names[l]); err != nil {
				return nil, err
			}
		}
	}

	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c, s.locales.Default(), s.locales.Default(), true)
	return &resp, nil
}

// Delete removes a category and its subcategories; it fails while items reference it
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.itemRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("CATEGORY_IN_USE", "Category is used by items")
	}
	return s.categoryRepo.Delete(ctx, id)
}

// CreateSubcategory creates a subcategory under an existing category
func (s *CategoryService) CreateSubcategory(ctx context.Context, categoryID uuid.UUID, req CreateSubcategoryRequest) (*SubcategoryResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	names, err := s.normalizeNames(req.Names)
	if err != nil {
		return nil, err
	}
	locales := s.orderedLocales(names)

	sub, err := catalog.NewSubcategory(categoryID, req.Slug, locales[0], names[locales[0]])
	if err != nil {
		return nil, err
	}
	for _, l := range locales[1:] {
		if err := sub.SetTranslation(l, names[l]); err != nil {
			return nil, err
		}
	}
	if err := sub.Update(sub.Slug, req.SortOrder); err != nil {
		return nil, err
	}

	exists, err := s.subcategoryRepo.ExistsBySlug(ctx, sub.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Subcategory with this slug already exists")
	}

	if err := s.subcategoryRepo.Save(ctx, sub); err != nil {
		return nil, err
	}
	resp := ToSubcategoryResponse(sub, s.locales.Default(), s.locales.Default(), true)
	return &resp, nil
}

// UpdateSubcategory changes slug, sort order and merges translations
func (s *CategoryService) UpdateSubcategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*SubcategoryResponse, error) {
	sub, err := s.subcategoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slug, sortOrder := sub.Slug, sub.SortOrder
	if req.Slug != nil && *req.Slug != sub.Slug {
		exists, err := s.subcategoryRepo.ExistsBySlug(ctx, *req.Slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Subcategory with this slug already exists")
		}
		slug = *req.Slug
	}
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	if err := sub.Update(slug, sortOrder); err != nil {
		return nil, err
	}

	if len(req.Names) > 0 {
		names, err := s.normalizeNames(req.Names)
		if err != nil {
			return nil, err
		}
		for _, l := range s.orderedLocales(names) {
			if err := sub.SetTranslation(l, names[l]); err != nil {
				return nil, err
			}
		}
	}

	if err := s.subcategoryRepo.Save(ctx, sub); err != nil {
		return nil, err
	}
	resp := ToSubcategoryResponse(sub, s.locales.Default(), s.locales.Default(), true)
	return &resp, nil
}

// DeleteSubcategory removes a subcategory; it fails while items reference it
func (s *CategoryService) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.subcategoryRepo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.subcategoryRepo.CountItems(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("SUBCATEGORY_IN_USE", "Subcategory is used by items")
	}
	return s.subcategoryRepo.Delete(ctx, id)
}

// normalizeNames canonicalizes locale keys and rejects unsupported locales
func (s *CategoryService) normalizeNames(names map[string]string) (map[string]string, error) {
	if len(names) == 0 {
		return nil, shared.NewDomainError("INVALID_NAME", "At least one name is required")
	}
	out := make(map[string]string, len(names))
	for locale, name := range names {
		normalized, err := catalog.NormalizeLocale(locale)
		if err != nil {
			return nil, err
		}
		if !s.locales.IsSupported(normalized) {
			return nil, shared.NewDomainError("UNSUPPORTED_LOCALE", "Locale is not supported: "+normalized)
		}
		out[normalized] = name
	}
	return out, nil
}

// orderedLocales returns the keys of names with the default locale first, the rest sorted
func (s *CategoryService) orderedLocales(names map[string]string) []string {
	def := s.locales.Default()
	out := make([]string, 0, len(names))
	for l := range names {
		if l != def {
			out = append(out, l)
		}
	}
	sort.Strings(out)
	if _, ok := names[def]; ok {
		out = append([]string{def}, out...)
	}
	return out
}
