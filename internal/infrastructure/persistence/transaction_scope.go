package persistence

import (
	"context"

	"github.com/storefront/backend/internal/application/transaction"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/pricing"
	"gorm.io/gorm"
)

// GormTransactionScope implements transaction.Scope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error the transaction is rolled back, otherwise committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos transaction.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories builds repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) ItemRepo() catalog.ItemRepository {
	return NewGormItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) DetailsRepo() catalog.ItemDetailsRepository {
	return NewGormItemDetailsRepository(r.tx)
}

func (r *gormTransactionalRepositories) CategoryRepo() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) SubcategoryRepo() catalog.SubcategoryRepository {
	return NewGormSubcategoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) BrandRepo() catalog.BrandRepository {
	return NewGormBrandRepository(r.tx)
}

func (r *gormTransactionalRepositories) PriceRepo() pricing.ItemPriceRepository {
	return NewGormItemPriceRepository(r.tx)
}

func (r *gormTransactionalRepositories) HistoryRepo() pricing.PriceHistoryRepository {
	return NewGormPriceHistoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) OrderRepo() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) PaymentRepo() payment.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormTransactionalRepositories) CartRepo() cart.CartRepository {
	return NewGormCartRepository(r.tx)
}

var _ transaction.Scope = (*GormTransactionScope)(nil)
var _ transaction.Repositories = (*gormTransactionalRepositories)(nil)
