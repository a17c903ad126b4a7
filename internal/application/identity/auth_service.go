package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	SessionTTL time.Duration // refresh token lifetime
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{SessionTTL: 30 * 24 * time.Hour}
}

// AuthService handles registration, login and session management
type AuthService struct {
	userRepo    identity.UserRepository
	sessionRepo identity.SessionRepository
	accountRepo identity.AccountRepository
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	config      AuthServiceConfig
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	sessionRepo identity.SessionRepository,
	accountRepo identity.AccountRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if config.SessionTTL <= 0 {
		config.SessionTTL = DefaultAuthServiceConfig().SessionTTL
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		accountRepo: accountRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		config:      config,
		logger:      logger,
	}
}

// Register creates a customer with a credentials account and logs them in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*TokenResult, error) {
	user, err := identity.NewUser(input.Email, input.Password, input.Name)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(input.Name, input.Phone, input.Country, input.Locale); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	}

	account, err := identity.NewAccount(user.ID, identity.ProviderCredentials, user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return s.issue(ctx, user, input.UserAgent, input.IP)
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*TokenResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if shared.IsNotFound(err) {
			s.logger.Warn("Login for unknown email")
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	if !user.IsActive {
		s.logger.Warn("Login attempt for deactivated account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Don't fail the login - just log the error
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.issue(ctx, user, input.UserAgent, input.IP)
}

// Refresh rotates a session's refresh token and issues a new access token
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*TokenResult, error) {
	session, err := s.sessionRepo.FindByTokenHash(ctx, identity.HashToken(input.RefreshToken))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			s.logger.Error("Failed to delete expired session", zap.Error(err))
		}
		return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
		return nil, err
	}
	if !user.IsActive {
		if err := s.sessionRepo.DeleteByUser(ctx, user.ID); err != nil {
			s.logger.Error("Failed to delete sessions of deactivated user", zap.Error(err))
		}
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	refreshToken, err := session.Rotate(s.config.SessionTTL)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.tokens(user, session, refreshToken)
}

// Logout ends the session of the refresh token, or all of the user's sessions,
// and revokes the presented access token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.AllSessions {
		if err := s.sessionRepo.DeleteByUser(ctx, input.UserID); err != nil {
			return err
		}
	} else if input.RefreshToken != "" {
		session, err := s.sessionRepo.FindByTokenHash(ctx, identity.HashToken(input.RefreshToken))
		switch {
		case err == nil && session.UserID == input.UserID:
			if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
				return err
			}
		case err != nil && !shared.IsNotFound(err):
			return err
		}
	}

	if input.TokenJTI != "" && s.blacklist != nil {
		if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenTTL); err != nil {
			// The access token still expires on its own
			s.logger.Error("Failed to revoke access token", zap.Error(err))
		}
	}

	s.logger.Info("User logged out",
		zap.String("user_id", input.UserID.String()),
		zap.Bool("all_sessions", input.AllSessions))
	return nil
}

// Me returns the current user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword changes the caller's password and ends their other sessions
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	return s.sessionRepo.DeleteByUser(ctx, user.ID)
}

// ValidateAccessToken checks a bearer token's signature, expiry and revocation
func (s *AuthService) ValidateAccessToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	if s.blacklist == nil {
		return claims, nil
	}
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !revoked {
		revoked, err = s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
		if err != nil {
			return nil, err
		}
	}
	if revoked {
		return nil, auth.ErrTokenRevoked
	}
	return claims, nil
}

func (s *AuthService) issue(ctx context.Context, user *identity.User, userAgent, ip string) (*TokenResult, error) {
	session, refreshToken, err := identity.NewSession(user.ID, s.config.SessionTTL, userAgent, ip)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.tokens(user, session, refreshToken)
}

func (s *AuthService) tokens(user *identity.User, session *identity.Session, refreshToken string) (*TokenResult, error) {
	access, err := s.jwtService.GenerateAccessToken(auth.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}
	return &TokenResult{
		AccessToken:           access.Token,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  access.ExpiresAt,
		RefreshTokenExpiresAt: session.ExpiresAt,
		TokenType:             "Bearer",
		User:                  ToUserResponse(user),
	}, nil
}
