package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// BrandService handles brand management
type BrandService struct {
	brandRepo catalog.BrandRepository
	itemRepo  catalog.ItemRepository
}

// NewBrandService creates a new BrandService
func NewBrandService(brandRepo catalog.BrandRepository, itemRepo catalog.ItemRepository) *BrandService {
	return &BrandService{brandRepo: brandRepo, itemRepo: itemRepo}
}

// Create creates a new brand
func (s *BrandService) Create(ctx context.Context, req CreateBrandRequest) (*BrandResponse, error) {
	b, err := catalog.NewBrand(req.Name, req.Slug)
	if err != nil {
		return nil, err
	}
	if req.LogoURL != "" {
		if err := b.Update(b.Name, b.Slug, req.LogoURL); err != nil {
			return nil, err
		}
	}

	exists, err := s.brandRepo.ExistsBySlug(ctx, b.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Brand with this slug already exists")
	}

	if err := s.brandRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBrandResponse(b)
	return &resp, nil
}

// GetByID retrieves a brand by ID
func (s *BrandService) GetByID(ctx context.Context, id uuid.UUID) (*BrandResponse, error) {
	b, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBrandResponse(b)
	return &resp, nil
}

// List lists brands with filtering and pagination
func (s *BrandService) List(ctx context.Context, filter BrandListFilter) ([]BrandResponse, int64, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	brands, err := s.brandRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.brandRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]BrandResponse, len(brands))
	for i := range brands {
		responses[i] = ToBrandResponse(&brands[i])
	}
	return responses, total, nil
}

// Update applies a partial update
func (s *BrandService) Update(ctx context.Context, id uuid.UUID, req UpdateBrandRequest) (*BrandResponse, error) {
	b, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, slug, logo := b.Name, b.Slug, b.LogoURL
	if req.Name != nil {
		name = *req.Name
	}
	if req.Slug != nil && *req.Slug != b.Slug {
		exists, err := s.brandRepo.ExistsBySlug(ctx, *req.Slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Brand with this slug already exists")
		}
		slug = *req.Slug
	}
	if req.LogoURL != nil {
		logo = *req.LogoURL
	}
	if err := b.Update(name, slug, logo); err != nil {
		return nil, err
	}

	if err := s.brandRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBrandResponse(b)
	return &resp, nil
}

// Delete removes a brand that no item references
func (s *BrandService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.brandRepo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.itemRepo.CountByBrand(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("BRAND_IN_USE", "Brand is used by items")
	}
	return s.brandRepo.Delete(ctx, id)
}

// FindOrCreateBrand returns the brand with the given name, creating it when missing.
// Used by bulk upload.
func FindOrCreateBrand(ctx context.Context, repo catalog.BrandRepository, name string) (*catalog.Brand, bool, error) {
	name = strings.TrimSpace(name)
	b, err := repo.FindByName(ctx, name)
	if err == nil {
		return b, false, nil
	}
	if !shared.IsNotFound(err) {
		return nil, false, err
	}

	b, err = catalog.NewBrand(name, "")
	if err != nil {
		return nil, false, err
	}
	// Two brands may slugify alike ("A&B" / "A-B")
	exists, err := repo.ExistsBySlug(ctx, b.Slug)
	if err != nil {
		return nil, false, err
	}
	if exists {
		if err := b.Update(b.Name, b.Slug+"-"+b.ID.String()[:8], ""); err != nil {
			return nil, false, err
		}
	}
	if err := repo.Save(ctx, b); err != nil {
		return nil, false, err
	}
	return b, true, nil
}
