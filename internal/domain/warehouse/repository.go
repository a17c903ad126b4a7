package warehouse

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// WarehouseRepository defines the interface for warehouse persistence
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	FindByCode(ctx context.Context, code string) (*Warehouse, error)
	// FindByIDs returns the warehouses that exist among ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Warehouse, error)
	// FindAll lists warehouses. Filters: country_code, is_active.
	FindAll(ctx context.Context, filter shared.Filter) ([]Warehouse, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, warehouse *Warehouse) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// CountryRepository persists warehouse countries
type CountryRepository interface {
	FindByCode(ctx context.Context, code string) (*Country, error)
	FindAll(ctx context.Context) ([]Country, error)
	Save(ctx context.Context, country *Country) error
}
