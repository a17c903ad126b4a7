package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID loads an order with its lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByNumber loads an order by its number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*order.Order, error) {
	return r.findOne(ctx, "number = ?", number)
}

func (r *GormOrderRepository) findOne(ctx context.Context, cond string, arg any) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Preload("Items").Where(cond, arg).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll lists orders with lines
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	var orders []order.Order
	query := orderAndPage(r.applyFilter(r.db.WithContext(ctx).Model(&order.Order{}), filter),
		"orders", filter, OrderSortFields, "created_at")
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&order.Order{}), filter).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(orders.number) LIKE ? OR LOWER(orders.contact_email) LIKE ?", pattern, pattern)
	}
	for _, key := range []string{"user_id", "status"} {
		if value, ok := filter.Filters[key]; ok && value != nil {
			query = query.Where(fmt.Sprintf("orders.%s = ?", key), value)
		}
	}
	return query
}

// Save inserts a new order with its lines, or updates the header of an existing one.
// Lines are immutable once placed.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&order.Order{}).Where("id = ?", o.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return tx.Omit(clause.Associations).Save(o).Error
		}
		return tx.Create(o).Error
	})
}

// GormPaymentRepository implements payment.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	var p payment.Payment
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByOrder lists the payments of an order oldest first
func (r *GormPaymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]payment.Payment, error) {
	var payments []payment.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

var (
	_ order.OrderRepository     = (*GormOrderRepository)(nil)
	_ payment.PaymentRepository = (*GormPaymentRepository)(nil)
)
