package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
}

func newTestSubject() Subject {
	return Subject{UserID: uuid.New(), Email: "jane@example.com", Role: "customer"}
}

func TestGenerateAccessToken(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateAccessToken(newTestSubject())

	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.True(t, token.ExpiresAt.After(time.Now()))
	assert.True(t, token.ExpiresAt.Before(time.Now().Add(16*time.Minute)))
}

func TestValidateAccessToken_Success(t *testing.T) {
	svc := newTestJWTService()
	sub := newTestSubject()
	token, err := svc.GenerateAccessToken(sub)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token.Token)

	require.NoError(t, err)
	assert.Equal(t, sub.UserID.String(), claims.UserID)
	assert.Equal(t, sub.Email, claims.Email)
	assert.False(t, claims.IsAdmin())
	assert.NotEmpty(t, claims.ID)
	id, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, id)
}

func TestValidateAccessToken_ExpiredToken(t *testing.T) {
	svc := newTestJWTService()
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := svc.GenerateAccessToken(newTestSubject())
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateAccessToken(token.Token)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessToken_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateAccessToken("not-a-jwt")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_DifferentSecret(t *testing.T) {
	svc := newTestJWTService()
	other := NewJWTService(config.JWTConfig{
		Secret:                "another-secret-key-at-least-32-ch",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	})
	token, err := other.GenerateAccessToken(newTestSubject())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token.Token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_WrongIssuer(t *testing.T) {
	svc := newTestJWTService()
	other := NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "someone-else",
	})
	token, err := other.GenerateAccessToken(newTestSubject())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token.Token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_RemainingTTL(t *testing.T) {
	svc := newTestJWTService()
	sub := newTestSubject()
	sub.Role = "admin"
	token, err := svc.GenerateAccessToken(sub)
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(token.Token)
	require.NoError(t, err)

	assert.True(t, claims.IsAdmin())
	assert.InDelta(t, (15 * time.Minute).Seconds(), claims.GetRemainingTTL().Seconds(), 5)
	assert.False(t, claims.GetIssuedAtTime().IsZero())
	assert.Zero(t, (&Claims{}).GetRemainingTTL())
}
