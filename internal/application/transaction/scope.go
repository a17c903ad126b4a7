// Package transaction defines the unit-of-work boundary used by application services
// that must change several aggregates atomically (price + history, order + stock + cart).
package transaction

import (
	"context"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/pricing"
)

// Scope runs a function inside a database transaction.
// If the function returns an error, the transaction is rolled back.
type Scope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories gives access to repositories bound to the current transaction.
// All repositories returned share the same underlying transaction.
type Repositories interface {
	ItemRepo() catalog.ItemRepository
	DetailsRepo() catalog.ItemDetailsRepository
	CategoryRepo() catalog.CategoryRepository
	SubcategoryRepo() catalog.SubcategoryRepository
	BrandRepo() catalog.BrandRepository
	PriceRepo() pricing.ItemPriceRepository
	// HistoryRepo is append-only
	HistoryRepo() pricing.PriceHistoryRepository
	OrderRepo() order.OrderRepository
	PaymentRepo() payment.PaymentRepository
	CartRepo() cart.CartRepository
}

// NoOpScope runs functions without a transaction against fixed repositories.
// Used in tests and wherever atomicity is not required.
type NoOpScope struct {
	itemRepo    catalog.ItemRepository
	detailsRepo catalog.ItemDetailsRepository
	categories  catalog.CategoryRepository
	subcats     catalog.SubcategoryRepository
	brands      catalog.BrandRepository
	priceRepo   pricing.ItemPriceRepository
	historyRepo pricing.PriceHistoryRepository
	orderRepo   order.OrderRepository
	paymentRepo payment.PaymentRepository
	cartRepo    cart.CartRepository
}

// NoOpRepos lists the repositories a NoOpScope hands out; nil entries stay nil
type NoOpRepos struct {
	Items         catalog.ItemRepository
	Details       catalog.ItemDetailsRepository
	Categories    catalog.CategoryRepository
	Subcategories catalog.SubcategoryRepository
	Brands        catalog.BrandRepository
	Prices        pricing.ItemPriceRepository
	History       pricing.PriceHistoryRepository
	Orders        order.OrderRepository
	Payments      payment.PaymentRepository
	Carts         cart.CartRepository
}

// NewNoOpScope creates a NoOpScope
func NewNoOpScope(r NoOpRepos) *NoOpScope {
	return &NoOpScope{
		itemRepo:    r.Items,
		detailsRepo: r.Details,
		categories:  r.Categories,
		subcats:     r.Subcategories,
		brands:      r.Brands,
		priceRepo:   r.Prices,
		historyRepo: r.History,
		orderRepo:   r.Orders,
		paymentRepo: r.Payments,
		cartRepo:    r.Carts,
	}
}

// Execute runs fn directly
func (s *NoOpScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

func (s *NoOpScope) ItemRepo() catalog.ItemRepository { return s.itemRepo }
func (s *NoOpScope) DetailsRepo() catalog.ItemDetailsRepository { return s.detailsRepo }
func (s *NoOpScope) CategoryRepo() catalog.CategoryRepository { return s.categories }
func (s *NoOpScope) SubcategoryRepo() catalog.SubcategoryRepository { return s.subcats }
func (s *NoOpScope) BrandRepo() catalog.BrandRepository { return s.brands }
func (s *NoOpScope) PriceRepo() pricing.ItemPriceRepository { return s.priceRepo }
func (s *NoOpScope) HistoryRepo() pricing.PriceHistoryRepository { return s.historyRepo }
func (s *NoOpScope) OrderRepo() order.OrderRepository { return s.orderRepo }
func (s *NoOpScope) PaymentRepo() payment.PaymentRepository { return s.paymentRepo }
func (s *NoOpScope) CartRepo() cart.CartRepository { return s.cartRepo }

var _ Scope = (*NoOpScope)(nil)
var _ Repositories = (*NoOpScope)(nil)
