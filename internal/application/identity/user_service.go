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

// UserService is the back-office user administration
type UserService struct {
	userRepo    identity.UserRepository
	sessionRepo identity.SessionRepository
	blacklist   auth.TokenBlacklist
	tokenTTL    time.Duration
	logger      *zap.Logger
}

// NewUserService creates a new UserService. tokenTTL is the access token
// lifetime, used to keep bulk revocations around until old tokens expire.
func NewUserService(
	userRepo identity.UserRepository,
	sessionRepo identity.SessionRepository,
	blacklist auth.TokenBlacklist,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		blacklist:   blacklist,
		tokenTTL:    tokenTTL,
		logger:      logger,
	}
}

// List lists users with filtering and pagination
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses, total, nil
}

// GetByID returns one user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// SetRole changes a user's role. Admins cannot change their own role.
func (s *UserService) SetRole(ctx context.Context, actorID, id uuid.UUID, req SetRoleRequest) (*UserResponse, error) {
	if actorID == id {
		return nil, shared.NewDomainError("CANNOT_MODIFY_SELF", "You cannot change your own role")
	}
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := user.Role
	user.SetRole(role)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if previous != role {
		// Tokens carry the role, so old ones must not outlive the change
		s.revokeTokens(ctx, user.ID)
		s.logger.Info("User role changed",
			zap.String("user_id", user.ID.String()),
			zap.String("from", string(previous)),
			zap.String("to", string(role)))
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// SetActive activates or deactivates a user. Deactivation ends all sessions.
func (s *UserService) SetActive(ctx context.Context, actorID, id uuid.UUID, active bool) (*UserResponse, error) {
	if actorID == id && !active {
		return nil, shared.NewDomainError("CANNOT_MODIFY_SELF", "You cannot deactivate yourself")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		user.Activate()
	} else {
		user.Deactivate()
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if !active {
		if err := s.sessionRepo.DeleteByUser(ctx, user.ID); err != nil {
			return nil, err
		}
		s.revokeTokens(ctx, user.ID)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *UserService) revokeTokens(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.tokenTTL); err != nil {
		s.logger.Error("Failed to revoke user tokens", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
