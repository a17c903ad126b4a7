package payment

import (
	"context"

	"github.com/google/uuid"
)

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	// FindByOrder returns payments for an order, oldest first
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Payment, error)
	Save(ctx context.Context, payment *Payment) error
}
