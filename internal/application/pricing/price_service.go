package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/transaction"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/warehouse"
	"go.uber.org/zap"
)

// PriceService manages per-warehouse prices and their history
type PriceService struct {
	scope         transaction.Scope
	priceRepo     pricing.ItemPriceRepository
	historyRepo   pricing.PriceHistoryRepository
	itemRepo      catalog.ItemRepository
	warehouseRepo warehouse.WarehouseRepository
	baseCurrency  string
	logger        *zap.Logger
	now           func() time.Time
}

// NewPriceService creates a new PriceService
func NewPriceService(
	scope transaction.Scope,
	priceRepo pricing.ItemPriceRepository,
	historyRepo pricing.PriceHistoryRepository,
	itemRepo catalog.ItemRepository,
	warehouseRepo warehouse.WarehouseRepository,
	baseCurrency string,
	logger *zap.Logger,
) *PriceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceService{
		scope:         scope,
		priceRepo:     priceRepo,
		historyRepo:   historyRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		baseCurrency:  baseCurrency,
		logger:        logger,
		now:           time.Now,
	}
}

// SetPrice creates the price of an item in a warehouse, or archives the current
// values to history and replaces them. Both writes share one transaction.
func (s *PriceService) SetPrice(ctx context.Context, itemID, warehouseID uuid.UUID, req SetPriceRequest) (*PriceResponse, error) {
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, err
	}
	if _, err := s.warehouseRepo.FindByID(ctx, warehouseID); err != nil {
		return nil, err
	}

	badge, err := pricing.ParseBadge(req.Badge)
	if err != nil {
		return nil, err
	}
	values := pricing.PriceValues{
		Price:       req.Price,
		Currency:    req.Currency,
		Quantity:    req.Quantity,
		PromoPrice:  req.PromoPrice,
		PromoEndsAt: req.PromoEndsAt,
		Badge:       badge,
	}

	now := s.now()
	var saved *pricing.ItemPrice
	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		var err error
		saved, err = ApplyPrice(ctx, repos, itemID, warehouseID, values, s.baseCurrency, pricing.SourceManual, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Item price set",
		zap.String("item_id", itemID.String()),
		zap.String("warehouse_id", warehouseID.String()),
		zap.String("price", saved.Price.String()),
		zap.Int("quantity", saved.Quantity))

	resp := ToPriceResponse(saved, now)
	return &resp, nil
}

// ApplyPrice upserts the (item, warehouse) price inside a transaction.
// An existing row has its superseded values appended to history first.
// An empty currency keeps the existing one, or falls back to defaultCurrency.
// It returns the saved row.
func ApplyPrice(
	ctx context.Context,
	repos transaction.Repositories,
	itemID, warehouseID uuid.UUID,
	values pricing.PriceValues,
	defaultCurrency, source string,
	now time.Time,
) (*pricing.ItemPrice, error) {
	current, err := repos.PriceRepo().FindByItemAndWarehouse(ctx, itemID, warehouseID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}

	if current == nil {
		if values.Currency == "" {
			values.Currency = defaultCurrency
		}
		created, err := pricing.NewItemPrice(itemID, warehouseID, values)
		if err != nil {
			return nil, err
		}
		if err := repos.PriceRepo().Save(ctx, created); err != nil {
			return nil, err
		}
		return created, nil
	}

	if values.Currency == "" {
		values.Currency = current.Currency
	}
	snapshot, err := current.Apply(values, source, now)
	if err != nil {
		return nil, err
	}
	if err := repos.HistoryRepo().Append(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := repos.PriceRepo().SaveWithLock(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// GetPrices returns the item's prices in all active warehouses
func (s *PriceService) GetPrices(ctx context.Context, itemID uuid.UUID) ([]PriceResponse, error) {
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, err
	}
	offers, err := s.priceRepo.FindOffers(ctx, itemID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]PriceResponse, len(offers))
	for i := range offers {
		out[i] = ToOfferResponse(&offers[i], now)
	}
	return out, nil
}

// ListHistory returns archived prices of an item, newest first
func (s *PriceService) ListHistory(ctx context.Context, itemID uuid.UUID, filter HistoryFilter) ([]HistoryResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, 0, err
	}

	rows, total, err := s.historyRepo.ListByItem(ctx, itemID, filter.WarehouseID, filter.Page, filter.PageSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]HistoryResponse, len(rows))
	for i := range rows {
		out[i] = ToHistoryResponse(&rows[i])
	}
	return out, total, nil
}
