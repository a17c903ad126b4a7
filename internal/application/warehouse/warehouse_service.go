package warehouse

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/warehouse"
)

// WarehouseService handles warehouse and country administration
type WarehouseService struct {
	warehouseRepo warehouse.WarehouseRepository
	countryRepo   warehouse.CountryRepository
	priceRepo     pricing.ItemPriceRepository
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(
	warehouseRepo warehouse.WarehouseRepository,
	countryRepo warehouse.CountryRepository,
	priceRepo pricing.ItemPriceRepository,
) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		countryRepo:   countryRepo,
		priceRepo:     priceRepo,
	}
}

// Create creates a new warehouse in an existing country
func (s *WarehouseService) Create(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	exists, err := s.warehouseRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Warehouse with this code already exists")
	}

	w, err := warehouse.NewWarehouse(req.Code, req.Name, req.CountryCode)
	if err != nil {
		return nil, err
	}
	if err := s.requireCountry(ctx, w.CountryCode); err != nil {
		return nil, err
	}

	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	if req.City != "" || req.Address != "" || sortOrder != 0 {
		if err := w.Update(w.Name, w.CountryCode, req.City, req.Address, sortOrder); err != nil {
			return nil, err
		}
	}

	if err := s.warehouseRepo.Save(ctx, w); err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// GetByID returns a warehouse
func (s *WarehouseService) GetByID(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	w, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// List returns a page of warehouses with the total count
func (s *WarehouseService) List(ctx context.Context, filter WarehouseListFilter) ([]WarehouseResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sort_order"
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
		Filters:  make(map[string]any),
	}
	if filter.CountryCode != "" {
		code, err := warehouse.NormalizeCountryCode(filter.CountryCode)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["country_code"] = code
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	warehouses, err := s.warehouseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.warehouseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]WarehouseResponse, len(warehouses))
	for i := range warehouses {
		out[i] = ToWarehouseResponse(&warehouses[i])
	}
	return out, total, nil
}

// Update applies a partial update
func (s *WarehouseService) Update(ctx context.Context, id uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	w, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, country, city, address, sortOrder := w.Name, w.CountryCode, w.City, w.Address, w.SortOrder
	if req.Name != nil {
		name = *req.Name
	}
	if req.CountryCode != nil {
		code, err := warehouse.NormalizeCountryCode(*req.CountryCode)
		if err != nil {
			return nil, err
		}
		if code != w.CountryCode {
			if err := s.requireCountry(ctx, code); err != nil {
				return nil, err
			}
		}
		country = code
	}
	if req.City != nil {
		city = *req.City
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}
	if err := w.Update(name, country, city, address, sortOrder); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		if *req.IsActive {
			w.Enable()
		} else {
			w.Disable()
		}
	}

	if err := s.warehouseRepo.Save(ctx, w); err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// Delete removes a warehouse that holds no prices
func (s *WarehouseService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.warehouseRepo.FindByID(ctx, id); err != nil {
		return err
	}
	n, err := s.priceRepo.CountByWarehouse(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.NewDomainError("WAREHOUSE_IN_USE", "Warehouse still has item prices; disable it instead")
	}
	return s.warehouseRepo.Delete(ctx, id)
}

// ListCountries returns all countries
func (s *WarehouseService) ListCountries(ctx context.Context) ([]CountryResponse, error) {
	countries, err := s.countryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CountryResponse, len(countries))
	for i := range countries {
		out[i] = ToCountryResponse(&countries[i])
	}
	return out, nil
}

// UpsertCountry creates a country or updates its name and currency
func (s *WarehouseService) UpsertCountry(ctx context.Context, req UpsertCountryRequest) (*CountryResponse, error) {
	code, err := warehouse.NormalizeCountryCode(req.Code)
	if err != nil {
		return nil, err
	}

	c, err := s.countryRepo.FindByCode(ctx, code)
	switch {
	case err == nil:
		if err := c.Update(req.Name, req.CurrencyCode); err != nil {
			return nil, err
		}
	case shared.IsNotFound(err):
		c, err = warehouse.NewCountry(code, req.Name, req.CurrencyCode)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.countryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCountryResponse(c)
	return &resp, nil
}

func (s *WarehouseService) requireCountry(ctx context.Context, code string) error {
	if _, err := s.countryRepo.FindByCode(ctx, code); err != nil {
		if shared.IsNotFound(err) {
			return shared.NewDomainError("COUNTRY_NOT_FOUND", "Country "+code+" is not configured")
		}
		return err
	}
	return nil
}
