package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	apppricing "github.com/storefront/backend/internal/application/pricing"
	"github.com/storefront/backend/internal/application/transaction"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// InvoiceRenderer renders an order invoice as a PDF document
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, o *order.Order) ([]byte, error)
}

// Metrics records business counters for placed orders
type Metrics interface {
	RecordOrderPlaced(ctx context.Context, currency string, total decimal.Decimal)
}

// FundsReleaser returns refunded money to the payer, e.g. through a card gateway
type FundsReleaser interface {
	ReleaseFunds(ctx context.Context, p *payment.Payment) error
}

// Config holds OrderService settings
type Config struct {
	// IdempotencyTTL is how long a checkout key blocks a repeat
	IdempotencyTTL time.Duration
}

// OrderService handles checkout and the order lifecycle
type OrderService struct {
	scope       transaction.Scope
	orderRepo   order.OrderRepository
	paymentRepo payment.PaymentRepository
	rates       apppricing.RatesProvider
	locales     *catalog.LocaleMatcher
	idempotency shared.IdempotencyStore
	invoices    InvoiceRenderer
	metrics     Metrics
	releaser    FundsReleaser
	config      Config
	logger      *zap.Logger
	now         func() time.Time
}

// NewOrderService creates a new OrderService. idempotency, invoices and metrics may be nil.
func NewOrderService(
	scope transaction.Scope,
	orderRepo order.OrderRepository,
	paymentRepo payment.PaymentRepository,
	rates apppricing.RatesProvider,
	locales *catalog.LocaleMatcher,
	idempotency shared.IdempotencyStore,
	invoices InvoiceRenderer,
	metrics Metrics,
	config Config,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.IdempotencyTTL == 0 {
		config.IdempotencyTTL = 24 * time.Hour
	}
	return &OrderService{
		scope:       scope,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		rates:       rates,
		locales:     locales,
		idempotency: idempotency,
		invoices:    invoices,
		metrics:     metrics,
		config:      config,
		logger:      logger,
		now:         time.Now,
	}
}

// Checkout turns the user's cart into a pending order with a pending payment.
// Stock is reserved per warehouse and the cart is emptied in the same transaction.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderResponse, error) {
	provider, err := payment.ParseProvider(req.PaymentProvider)
	if err != nil {
		return nil, err
	}
	rates, err := s.rates.Rates(ctx)
	if err != nil {
		return nil, err
	}
	currency, err := rates.DisplayCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	release, err := s.claim(ctx, userID, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	locale := s.locales.Match(req.Locale)
	contact := order.Contact{Name: req.Contact.Name, Email: req.Contact.Email, Phone: req.Contact.Phone}
	shipping := order.ShippingAddress{
		Country:    req.Shipping.Country,
		City:       req.Shipping.City,
		Address:    req.Shipping.Address,
		PostalCode: req.Shipping.PostalCode,
	}

	var placed *order.Order
	var pay *payment.Payment
	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		c, err := repos.CartRepo().FindByUser(ctx, userID)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewDomainError("CART_EMPTY", "Cart is empty")
			}
			return err
		}
		if c.IsEmpty() {
			return shared.NewDomainError("CART_EMPTY", "Cart is empty")
		}

		o, err := order.NewOrder(userID, currency, contact, shipping, req.Comment)
		if err != nil {
			return err
		}

		ids := make([]uuid.UUID, 0, len(c.Items))
		for _, line := range c.Items {
			ids = append(ids, line.ItemID)
		}
		items, err := repos.ItemRepo().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*catalog.Item, len(items))
		for i := range items {
			byID[items[i].ID] = &items[i]
		}

		now := s.now()
		for _, line := range c.Items {
			item, ok := byID[line.ItemID]
			if !ok || !item.IsActive {
				return shared.NewDomainError("ITEM_NOT_AVAILABLE", "An item in the cart is no longer available")
			}
			price, err := repos.PriceRepo().FindByItemAndWarehouse(ctx, line.ItemID, line.WarehouseID)
			if err != nil {
				if shared.IsNotFound(err) {
					return shared.NewDomainError("ITEM_NOT_AVAILABLE", "Item "+item.Article+" is not sold from this warehouse")
				}
				return err
			}
			if err := price.Reserve(line.Quantity); err != nil {
				if errors.Is(err, shared.ErrInsufficientStock) {
					return shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock for "+item.Article)
				}
				return err
			}
			// a concurrent checkout of the same row fails here instead of overselling
			if err := repos.PriceRepo().SaveWithLock(ctx, price); err != nil {
				return err
			}

			unit, err := rates.Convert(pricing.EffectivePrice(*price, now), valueobject.Currency(price.Currency), currency)
			if err != nil {
				return err
			}
			name := item.Article
			if d := item.DetailsFor(locale, s.locales.Default()); d != nil {
				name = d.Name
			}
			if err := o.AddLine(order.Line{
				ItemID:      line.ItemID,
				WarehouseID: line.WarehouseID,
				Article:     item.Article,
				Name:        name,
				UnitPrice:   unit,
				Quantity:    line.Quantity,
			}); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}
		p, err := payment.NewPayment(o.ID, provider, o.Total, o.Currency)
		if err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, p); err != nil {
			return err
		}
		c.Clear()
		if err := repos.CartRepo().Save(ctx, c); err != nil {
			return err
		}
		placed, pay = o, p
		return nil
	})
	if err != nil {
		release()
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_number", placed.Number),
		zap.String("user_id", userID.String()),
		zap.String("total", placed.Total.StringFixed(2)),
		zap.String("currency", placed.Currency))
	if s.metrics != nil {
		s.metrics.RecordOrderPlaced(ctx, placed.Currency, placed.Total)
	}

	resp := ToOrderResponse(placed, []payment.Payment{*pay})
	return &resp, nil
}

// claim reserves the idempotency key for a checkout. The returned func frees it.
func (s *OrderService) claim(ctx context.Context, userID uuid.UUID, key string) (func(), error) {
	if s.idempotency == nil || key == "" {
		return func() {}, nil
	}
	id := "checkout:" + userID.String() + ":" + key
	fresh, err := s.idempotency.MarkProcessed(ctx, id, s.config.IdempotencyTTL)
	if err != nil {
		return nil, err
	}
	if !fresh {
		return nil, shared.NewDomainError("DUPLICATE_REQUEST", "This checkout was already submitted")
	}
	return func() {
		if err := s.idempotency.Release(context.WithoutCancel(ctx), id); err != nil {
			s.logger.Warn("Failed to release checkout key", zap.String("key", id), zap.Error(err))
		}
	}, nil
}

// ListMine lists the caller's orders, newest first
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]OrderResponse, int64, error) {
	filter.UserID = userID.String()
	return s.list(ctx, filter)
}

// ListAll lists every order, optionally filtered by status or user
func (s *OrderService) ListAll(ctx context.Context, filter ListFilter) ([]OrderResponse, int64, error) {
	return s.list(ctx, filter)
}

func (s *OrderService) list(ctx context.Context, filter ListFilter) ([]OrderResponse, int64, error) {
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
	if filter.Status != "" {
		status, err := order.ParseStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["status"] = string(status)
	}
	if filter.UserID != "" {
		uid, err := uuid.Parse(filter.UserID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid user id")
		}
		domainFilter.Filters["user_id"] = uid
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i], nil)
	}
	return responses, total, nil
}

// Get returns an order with its payments. Customers only see their own orders.
func (s *OrderService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.FindByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o, payments)
	return &resp, nil
}

// UpdateStatus moves an order to the requested status. Paying an order
// completes its pending payment; cancelling releases the reserved stock.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	next, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if next == order.StatusCancelled {
		return s.cancel(ctx, id)
	}

	var updated *order.Order
	var payments []payment.Payment
	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		now := s.now()
		if err := o.TransitionTo(next, now); err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}
		payments, err = repos.PaymentRepo().FindByOrder(ctx, o.ID)
		if err != nil {
			return err
		}
		if next == order.StatusPaid {
			for i := range payments {
				if payments[i].Status != payment.StatusPending {
					continue
				}
				if err := payments[i].Complete("", now); err != nil {
					return err
				}
				if err := repos.PaymentRepo().Save(ctx, &payments[i]); err != nil {
					return err
				}
			}
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order status changed",
		zap.String("order_number", updated.Number),
		zap.String("status", string(updated.Status)))
	resp := ToOrderResponse(updated, payments)
	return &resp, nil
}

// SetFundsReleaser makes cancellations refund captured payments externally
func (s *OrderService) SetFundsReleaser(r FundsReleaser) {
	s.releaser = r
}

// Cancel cancels an order. Customers may cancel their own pending orders;
// admins may also cancel paid ones, which refunds completed payments.
func (s *OrderService) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && o.Status != order.StatusPending {
		return nil, shared.NewDomainError("CANNOT_CANCEL", "Only pending orders can be cancelled")
	}
	return s.cancel(ctx, id)
}

func (s *OrderService) cancel(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	var cancelled *order.Order
	var payments []payment.Payment
	var refunded []*payment.Payment
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		now := s.now()
		if err := o.Cancel(now); err != nil {
			return err
		}

		for _, line := range o.Items {
			price, err := repos.PriceRepo().FindByItemAndWarehouse(ctx, line.ItemID, line.WarehouseID)
			if err != nil {
				// the price row may have been removed since checkout
				if shared.IsNotFound(err) {
					continue
				}
				return err
			}
			if err := price.Restock(line.Quantity); err != nil {
				return err
			}
			if err := repos.PriceRepo().SaveWithLock(ctx, price); err != nil {
				return err
			}
		}
		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}

		payments, err = repos.PaymentRepo().FindByOrder(ctx, o.ID)
		if err != nil {
			return err
		}
		for i := range payments {
			p := &payments[i]
			switch p.Status {
			case payment.StatusPending:
				err = p.Fail("order cancelled")
			case payment.StatusCompleted:
				err = p.Refund(now)
				refunded = append(refunded, p)
			default:
				continue
			}
			if err != nil {
				return err
			}
			if err := repos.PaymentRepo().Save(ctx, p); err != nil {
				return err
			}
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order cancelled", zap.String("order_number", cancelled.Number))
	if s.releaser != nil {
		for _, p := range refunded {
			// the refund is recorded; a gateway failure is reconciled by hand
			if err := s.releaser.ReleaseFunds(ctx, p); err != nil {
				s.logger.Error("Refund not released",
					zap.String("order_number", cancelled.Number),
					zap.String("payment_id", p.ID.String()),
					zap.Error(err))
			}
		}
	}
	resp := ToOrderResponse(cancelled, payments)
	return &resp, nil
}

// Invoice renders the order invoice as PDF and returns it with a file name
func (s *OrderService) Invoice(ctx context.Context, actor Actor, id uuid.UUID) ([]byte, string, error) {
	if s.invoices == nil {
		return nil, "", shared.NewDomainError("INVOICE_UNAVAILABLE", "Invoice rendering is not configured")
	}
	o, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.invoices.RenderInvoice(ctx, o)
	if err != nil {
		return nil, "", err
	}
	return data, "invoice-" + o.Number + ".pdf", nil
}

// load finds an order the actor may see. Other users' orders look missing.
func (s *OrderService) load(ctx context.Context, actor Actor, id uuid.UUID) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && o.UserID != actor.UserID {
		return nil, shared.ErrNotFound
	}
	return o, nil
}
