// Package payment adapts online payment processors to the payment service.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	paymentapp "github.com/storefront/backend/internal/application/payment"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/refund"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// Metadata keys set on every payment intent
const (
	metaPaymentID   = "payment_id"
	metaOrderNumber = "order_number"
)

// zeroDecimalCurrencies are charged in whole units by Stripe
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

// StripeGateway collects card payments with Stripe PaymentIntents
type StripeGateway struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(config *StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	config.InitStripeClient()
	return &StripeGateway{config: config, logger: logger}, nil
}

// CreateIntent creates a PaymentIntent. The payment id is the idempotency key,
// so a retried checkout reuses the intent Stripe already holds.
func (g *StripeGateway) CreateIntent(ctx context.Context, req paymentapp.IntentRequest) (*paymentapp.Intent, error) {
	currency := strings.ToLower(req.Currency)
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(minorUnits(req.Amount, currency)),
		Currency:    stripe.String(currency),
		Description: stripe.String("Order " + req.OrderNumber),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			metaPaymentID:   req.PaymentID.String(),
			metaOrderNumber: req.OrderNumber,
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey("intent-" + req.PaymentID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}

	g.logger.Info("Created Stripe payment intent",
		zap.String("payment_id", req.PaymentID.String()),
		zap.String("intent_id", pi.ID))
	return &paymentapp.Intent{
		ID:             pi.ID,
		ClientSecret:   pi.ClientSecret,
		PublishableKey: g.config.PublishableKey,
	}, nil
}

// Refund refunds a PaymentIntent in full
func (g *StripeGateway) Refund(ctx context.Context, req paymentapp.RefundRequest) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(req.ProviderRef),
		Amount:        stripe.Int64(minorUnits(req.Amount, strings.ToLower(req.Currency))),
		Metadata:      map[string]string{metaPaymentID: req.PaymentID.String()},
	}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + req.PaymentID.String())

	r, err := refund.New(params)
	if err != nil {
		return fmt.Errorf("stripe: failed to refund %s: %w", req.ProviderRef, err)
	}
	g.logger.Info("Created Stripe refund",
		zap.String("payment_id", req.PaymentID.String()),
		zap.String("refund_id", r.ID),
		zap.String("status", string(r.Status)))
	return nil
}

// ParseEvent verifies the Stripe-Signature header and maps payment intent
// outcomes. Other event types yield a nil event.
func (g *StripeGateway) ParseEvent(payload []byte, signature string) (*paymentapp.GatewayEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("stripe: webhook signature verification failed: %w", err)
	}

	var evType paymentapp.GatewayEventType
	switch event.Type {
	case "payment_intent.succeeded":
		evType = paymentapp.EventSucceeded
	case "payment_intent.payment_failed":
		evType = paymentapp.EventFailed
	default:
		g.logger.Debug("Ignoring Stripe event", zap.String("event_type", string(event.Type)))
		return nil, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("stripe: failed to parse payment intent: %w", err)
	}
	paymentID, err := uuid.Parse(pi.Metadata[metaPaymentID])
	if err != nil {
		// intents created outside this service
		g.logger.Debug("Ignoring Stripe intent without payment id", zap.String("intent_id", pi.ID))
		return nil, nil
	}

	ev := &paymentapp.GatewayEvent{
		ID:          event.ID,
		Type:        evType,
		PaymentID:   paymentID,
		ProviderRef: pi.ID,
	}
	if evType == paymentapp.EventFailed {
		ev.FailureReason = "payment failed"
		if pi.LastPaymentError != nil {
			if pi.LastPaymentError.Msg != "" {
				ev.FailureReason = pi.LastPaymentError.Msg
			} else if pi.LastPaymentError.Code != "" {
				ev.FailureReason = string(pi.LastPaymentError.Code)
			}
		}
	}
	return ev, nil
}

// minorUnits converts an amount to the integer unit Stripe charges in
func minorUnits(amount decimal.Decimal, currency string) int64 {
	if zeroDecimalCurrencies[currency] {
		return amount.Round(0).IntPart()
	}
	return amount.Shift(2).Round(0).IntPart()
}
