package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/transaction"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PaymentService records payment outcomes for orders.
// Payments are created by checkout; this service settles them.
type PaymentService struct {
	scope       transaction.Scope
	orderRepo   order.OrderRepository
	paymentRepo payment.PaymentRepository
	gateway     Gateway
	logger      *zap.Logger
	now         func() time.Time
}

// NewPaymentService creates a new PaymentService. gateway may be nil, which
// leaves card payments to be settled by an admin.
func NewPaymentService(
	scope transaction.Scope,
	orderRepo order.OrderRepository,
	paymentRepo payment.PaymentRepository,
	gateway Gateway,
	logger *zap.Logger,
) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		scope:       scope,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		logger:      logger,
		now:         time.Now,
	}
}

// ListForOrder returns an order's payments, oldest first. Non-admins only see their own orders.
func (s *PaymentService) ListForOrder(ctx context.Context, userID uuid.UUID, admin bool, orderID uuid.UUID) ([]PaymentResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !admin && o.UserID != userID {
		return nil, shared.ErrNotFound
	}
	payments, err := s.paymentRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out, nil
}

// Complete marks a pending payment as received and moves a pending order to paid
func (s *PaymentService) Complete(ctx context.Context, id uuid.UUID, req CompleteRequest) (*PaymentResponse, error) {
	var result *payment.Payment
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		p, err := repos.PaymentRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		o, err := repos.OrderRepo().FindByID(ctx, p.OrderID)
		if err != nil {
			return err
		}
		if o.Status == order.StatusCancelled {
			return shared.NewDomainError("ORDER_CANCELLED", "Order "+o.Number+" is cancelled")
		}

		now := s.now()
		if err := p.Complete(req.ProviderRef, now); err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, p); err != nil {
			return err
		}
		if o.Status == order.StatusPending {
			if err := o.MarkPaid(now); err != nil {
				return err
			}
			if err := repos.OrderRepo().Save(ctx, o); err != nil {
				return err
			}
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment completed",
		zap.String("payment_id", result.ID.String()),
		zap.String("order_id", result.OrderID.String()),
		zap.String("amount", result.Amount.StringFixed(2)))
	resp := ToPaymentResponse(result)
	return &resp, nil
}

// Fail marks a pending payment as failed. The order stays pending so the customer can retry.
func (s *PaymentService) Fail(ctx context.Context, id uuid.UUID, req FailRequest) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Fail(req.Reason); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Payment failed",
		zap.String("payment_id", p.ID.String()),
		zap.String("reason", p.FailureReason))
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// Refund returns a completed payment of a cancelled order
func (s *PaymentService) Refund(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o, err := s.orderRepo.FindByID(ctx, p.OrderID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.StatusCancelled {
		return nil, shared.NewDomainError("ORDER_NOT_CANCELLED", "Only payments of cancelled orders can be refunded")
	}
	if err := p.Refund(s.now()); err != nil {
		return nil, err
	}
	if err := s.ReleaseFunds(ctx, p); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Payment refunded", zap.String("payment_id", p.ID.String()))
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// StartCardPayment opens a gateway payment for the order's pending card
// payment. Repeated calls return the same gateway payment.
func (s *PaymentService) StartCardPayment(ctx context.Context, userID uuid.UUID, admin bool, orderID uuid.UUID) (*CardPaymentResponse, error) {
	if s.gateway == nil {
		return nil, errGatewayUnavailable
	}
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !admin && o.UserID != userID {
		return nil, shared.ErrNotFound
	}
	if o.Status == order.StatusCancelled {
		return nil, shared.NewDomainError("ORDER_CANCELLED", "Order "+o.Number+" is cancelled")
	}

	payments, err := s.paymentRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	var p *payment.Payment
	for i := len(payments) - 1; i >= 0; i-- {
		if payments[i].Provider == payment.ProviderCard && payments[i].Status == payment.StatusPending {
			p = &payments[i]
			break
		}
	}
	if p == nil {
		return nil, shared.NewDomainError("NOT_CARD_PAYMENT", "Order "+o.Number+" has no pending card payment")
	}

	intent, err := s.gateway.CreateIntent(ctx, IntentRequest{
		PaymentID:   p.ID,
		OrderNumber: o.Number,
		Amount:      p.Amount,
		Currency:    p.Currency,
	})
	if err != nil {
		s.logger.Error("Payment gateway rejected intent",
			zap.String("payment_id", p.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("PAYMENT_GATEWAY_ERROR", "Payment gateway is unavailable, try again later")
	}
	if p.ProviderRef != intent.ID {
		if err := p.AttachProviderRef(intent.ID); err != nil {
			return nil, err
		}
		if err := s.paymentRepo.Save(ctx, p); err != nil {
			return nil, err
		}
	}

	return &CardPaymentResponse{
		PaymentID:      p.ID,
		ProviderRef:    intent.ID,
		ClientSecret:   intent.ClientSecret,
		PublishableKey: intent.PublishableKey,
		Amount:         p.Amount.StringFixed(2),
		Currency:       p.Currency,
	}, nil
}

// HandleGatewayEvent settles a payment from a verified gateway webhook.
// Redelivered and unrelated events are acknowledged without changes.
func (s *PaymentService) HandleGatewayEvent(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		return errGatewayUnavailable
	}
	ev, err := s.gateway.ParseEvent(payload, signature)
	if err != nil {
		s.logger.Warn("Rejected payment webhook", zap.Error(err))
		return shared.NewDomainError("INVALID_SIGNATURE", "Webhook signature verification failed")
	}
	if ev == nil {
		return nil
	}

	log := s.logger.With(zap.String("event_id", ev.ID), zap.String("provider_ref", ev.ProviderRef))
	p, err := s.paymentRepo.FindByID(ctx, ev.PaymentID)
	if err != nil {
		if shared.IsNotFound(err) {
			log.Warn("Webhook for unknown payment", zap.String("payment_id", ev.PaymentID.String()))
			return nil
		}
		return err
	}
	if p.ProviderRef != "" && p.ProviderRef != ev.ProviderRef {
		log.Warn("Webhook reference does not match payment", zap.String("payment_id", p.ID.String()))
		return nil
	}
	if p.IsSettled() {
		return nil
	}

	switch ev.Type {
	case EventSucceeded:
		_, err = s.Complete(ctx, p.ID, CompleteRequest{ProviderRef: ev.ProviderRef})
		var de *shared.DomainError
		if errors.As(err, &de) && de.Code == "ORDER_CANCELLED" {
			// captured after the order was cancelled; support refunds it by hand
			log.Error("Card payment captured for cancelled order", zap.String("payment_id", p.ID.String()))
			return nil
		}
	case EventFailed:
		_, err = s.Fail(ctx, p.ID, FailRequest{Reason: ev.FailureReason})
	}
	return err
}

// ReleaseFunds returns a refunded card payment's money through the gateway.
// Other providers are refunded outside the system.
func (s *PaymentService) ReleaseFunds(ctx context.Context, p *payment.Payment) error {
	if s.gateway == nil || p.Provider != payment.ProviderCard || p.ProviderRef == "" {
		return nil
	}
	err := s.gateway.Refund(ctx, RefundRequest{
		PaymentID:   p.ID,
		ProviderRef: p.ProviderRef,
		Amount:      p.Amount,
		Currency:    p.Currency,
	})
	if err != nil {
		s.logger.Error("Payment gateway refund failed",
			zap.String("payment_id", p.ID.String()),
			zap.String("provider_ref", p.ProviderRef),
			zap.Error(err))
		return shared.NewDomainError("PAYMENT_GATEWAY_ERROR", "Refund could not be sent to the payment gateway")
	}
	return nil
}

var errGatewayUnavailable = shared.NewDomainError("PAYMENT_GATEWAY_UNAVAILABLE", "Card payments are not configured")
