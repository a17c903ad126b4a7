package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Provider is the payment method chosen at checkout
type Provider string

const (
	ProviderCard         Provider = "card"
	ProviderCash         Provider = "cash"
	ProviderBankTransfer Provider = "bank_transfer"
)

// ParseProvider validates a provider name
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case ProviderCard, ProviderCash, ProviderBankTransfer:
		return p, nil
	}
	return "", shared.NewDomainError("INVALID_PROVIDER", "Unknown payment provider: "+s)
}

// Status is the state of a payment
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// Payment records money owed or received for an order
type Payment struct {
	shared.BaseAggregateRoot
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Provider      Provider        `gorm:"type:varchar(20);not null"`
	Status        Status          `gorm:"type:varchar(20);not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency      string          `gorm:"type:varchar(3);not null"`
	ProviderRef   string          `gorm:"type:varchar(200)"`
	FailureReason string          `gorm:"type:text"`
	PaidAt        *time.Time
	RefundedAt    *time.Time
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a pending payment
func NewPayment(orderID uuid.UUID, provider Provider, amount decimal.Decimal, currency string) (*Payment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order is required")
	}
	if _, err := ParseProvider(string(provider)); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is required")
	}
	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		Provider:          provider,
		Status:            StatusPending,
		Amount:            amount.Round(2),
		Currency:          currency,
	}, nil
}

// Complete marks a pending payment as received
func (p *Payment) Complete(providerRef string, at time.Time) error {
	if p.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending payments can be completed")
	}
	p.Status = StatusCompleted
	if ref := strings.TrimSpace(providerRef); ref != "" {
		p.ProviderRef = ref
	}
	p.PaidAt = &at
	p.IncrementVersion()
	return nil
}

// AttachProviderRef links a pending payment to its gateway-side record
func (p *Payment) AttachProviderRef(ref string) error {
	if p.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending payments can be linked to a gateway")
	}
	p.ProviderRef = strings.TrimSpace(ref)
	p.IncrementVersion()
	return nil
}

// Fail marks a pending payment as failed
func (p *Payment) Fail(reason string) error {
	if p.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending payments can fail")
	}
	p.Status = StatusFailed
	p.FailureReason = strings.TrimSpace(reason)
	p.IncrementVersion()
	return nil
}

// Refund returns a completed payment
func (p *Payment) Refund(at time.Time) error {
	if p.Status != StatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Only completed payments can be refunded")
	}
	p.Status = StatusRefunded
	p.RefundedAt = &at
	p.IncrementVersion()
	return nil
}

// IsSettled reports whether the payment reached a terminal state
func (p *Payment) IsSettled() bool {
	return p.Status != StatusPending
}
