package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository persists carts with their lines
type CartRepository interface {
	// FindByUser loads the user's cart with lines; ErrNotFound when none exists
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// Save writes the cart and synchronizes its lines (removed lines are deleted)
	Save(ctx context.Context, cart *Cart) error
}
