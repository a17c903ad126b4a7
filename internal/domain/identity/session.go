package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Session is a refresh-token login session. Only the token hash is stored.
type Session struct {
	shared.BaseEntity
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null;index"`
	UserAgent string    `gorm:"type:varchar(300)"`
	IP        string    `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (Session) TableName() string {
	return "sessions"
}

// NewSession opens a session and returns it with the plain refresh token
func NewSession(userID uuid.UUID, ttl time.Duration, userAgent, ip string) (*Session, string, error) {
	token, err := newOpaqueToken()
	if err != nil {
		return nil, "", err
	}
	s := &Session{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		TokenHash:  HashToken(token),
		ExpiresAt:  time.Now().Add(ttl),
		UserAgent:  truncate(userAgent, 300),
		IP:         truncate(ip, 45),
	}
	return s, token, nil
}

// Rotate replaces the token and extends the expiry; returns the new plain token
func (s *Session) Rotate(ttl time.Duration) (string, error) {
	token, err := newOpaqueToken()
	if err != nil {
		return "", err
	}
	s.TokenHash = HashToken(token)
	s.ExpiresAt = time.Now().Add(ttl)
	s.Touch()
	return token, nil
}

// IsExpired reports whether the session is past its expiry
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// HashToken returns the hex sha256 of an opaque token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newOpaqueToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", shared.NewDomainError("TOKEN_GENERATION_FAILED", "Failed to generate session token")
	}
	return hex.EncodeToString(b), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
