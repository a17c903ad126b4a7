package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProviderCredentials is the built-in email/password provider
const ProviderCredentials = "credentials"

// Account links a user to an authentication provider
type Account struct {
	shared.BaseEntity
	UserID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Provider          string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_account_provider,priority:1"`
	ProviderAccountID string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_account_provider,priority:2"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// NewAccount creates a provider link
func NewAccount(userID uuid.UUID, provider, providerAccountID string) (*Account, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	providerAccountID = strings.TrimSpace(providerAccountID)
	if userID == uuid.Nil || provider == "" || providerAccountID == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "User, provider and provider account id are required")
	}
	return &Account{
		BaseEntity:        shared.NewBaseEntity(),
		UserID:            userID,
		Provider:          provider,
		ProviderAccountID: providerAccountID,
	}, nil
}
