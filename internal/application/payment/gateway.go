package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gateway is an online card processor. Card payments created at checkout are
// settled through it; cash and bank transfers are settled by an admin.
type Gateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	Refund(ctx context.Context, req RefundRequest) error
	// ParseEvent verifies a webhook payload and extracts the payment outcome.
	// Events that do not settle a payment return a nil event.
	ParseEvent(payload []byte, signature string) (*GatewayEvent, error)
}

// IntentRequest asks the gateway to collect a payment
type IntentRequest struct {
	PaymentID   uuid.UUID
	OrderNumber string
	Amount      decimal.Decimal
	Currency    string
}

// Intent is a gateway-side payment the client confirms with ClientSecret
type Intent struct {
	ID             string
	ClientSecret   string
	PublishableKey string
}

// RefundRequest returns a captured payment
type RefundRequest struct {
	PaymentID   uuid.UUID
	ProviderRef string
	Amount      decimal.Decimal
	Currency    string
}

// GatewayEventType is the outcome carried by a webhook
type GatewayEventType string

const (
	EventSucceeded GatewayEventType = "succeeded"
	EventFailed    GatewayEventType = "failed"
)

// GatewayEvent is a verified payment outcome
type GatewayEvent struct {
	ID            string
	Type          GatewayEventType
	PaymentID     uuid.UUID
	ProviderRef   string
	FailureReason string
}
