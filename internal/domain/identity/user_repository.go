package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindAll lists users. Filters: role, is_active. Search matches email and name.
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, user *User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// SessionRepository persists refresh sessions
type SessionRepository interface {
	FindByTokenHash(ctx context.Context, hash string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// AccountRepository persists provider links
type AccountRepository interface {
	FindByProvider(ctx context.Context, provider, providerAccountID string) (*Account, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Account, error)
	Save(ctx context.Context, account *Account) error
}
