package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/payment"
)

// CompleteRequest confirms that money was received
type CompleteRequest struct {
	ProviderRef string `json:"provider_ref" binding:"omitempty,max=200"`
}

// FailRequest records a failed payment attempt
type FailRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// PaymentResponse is a payment as returned by the API
type PaymentResponse struct {
	ID            uuid.UUID  `json:"id"`
	OrderID       uuid.UUID  `json:"order_id"`
	Provider      string     `json:"provider"`
	Status        string     `json:"status"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
	ProviderRef   string     `json:"provider_ref,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	RefundedAt    *time.Time `json:"refunded_at,omitempty"`
}

// ToPaymentResponse converts a domain payment
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Provider:      string(p.Provider),
		Status:        string(p.Status),
		Amount:        p.Amount.StringFixed(2),
		Currency:      p.Currency,
		ProviderRef:   p.ProviderRef,
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
		PaidAt:        p.PaidAt,
		RefundedAt:    p.RefundedAt,
	}
}

// CardPaymentResponse carries what a client needs to confirm a card payment
type CardPaymentResponse struct {
	PaymentID      uuid.UUID `json:"payment_id"`
	ProviderRef    string    `json:"provider_ref"`
	ClientSecret   string    `json:"client_secret"`
	PublishableKey string    `json:"publishable_key,omitempty"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
}
