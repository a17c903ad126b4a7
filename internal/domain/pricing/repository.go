package pricing

import (
	"context"

	"github.com/google/uuid"
)

// ItemPriceRepository persists current prices
type ItemPriceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ItemPrice, error)
	FindByItemAndWarehouse(ctx context.Context, itemID, warehouseID uuid.UUID) (*ItemPrice, error)
	// FindOffers returns the prices of an item in active warehouses with warehouse info,
	// ordered by warehouse sort order then name
	FindOffers(ctx context.Context, itemID uuid.UUID) ([]WarehouseOffer, error)
	// FindOffersForItems is FindOffers for several items at once, keyed by item id
	FindOffersForItems(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]WarehouseOffer, error)
	Save(ctx context.Context, price *ItemPrice) error
	// SaveWithLock updates a loaded row only if nobody changed it since it was read.
	// It returns shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, price *ItemPrice) error
	CountByWarehouse(ctx context.Context, warehouseID uuid.UUID) (int64, error)
	DeleteByItem(ctx context.Context, itemID uuid.UUID) error
}

// PriceHistoryRepository is the append-only price log
type PriceHistoryRepository interface {
	Append(ctx context.Context, entry *ItemPriceHistory) error
	// ListByItem returns history newest first; warehouseID narrows when not nil
	ListByItem(ctx context.Context, itemID uuid.UUID, warehouseID *uuid.UUID, page, pageSize int) ([]ItemPriceHistory, int64, error)
}

// ExchangeRateRepository persists rate overrides
type ExchangeRateRepository interface {
	FindAll(ctx context.Context) ([]ExchangeRate, error)
	FindByCurrency(ctx context.Context, currency string) (*ExchangeRate, error)
	Save(ctx context.Context, rate *ExchangeRate) error
}
