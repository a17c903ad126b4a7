package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
)

// RegisterInput contains the input for customer sign-up
type RegisterInput struct {
	Email     string `json:"email" binding:"required,email,max=200"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	Name      string `json:"name" binding:"max=200"`
	Phone     string `json:"phone" binding:"max=50"`
	Country   string `json:"country" binding:"omitempty,len=2"`
	Locale    string `json:"locale" binding:"max=16"`
	UserAgent string `json:"-"`
	IP        string `json:"-"`
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	UserAgent string `json:"-"`
	IP        string `json:"-"`
}

// RefreshInput exchanges a refresh token for a new token pair
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
	UserAgent    string `json:"-"`
	IP           string `json:"-"`
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID       uuid.UUID
	RefreshToken string
	TokenJTI     string        // access token to revoke, optional
	TokenTTL     time.Duration // its remaining lifetime
	AllSessions  bool
}

// ChangePasswordInput changes the caller's password
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// TokenResult is an issued access + refresh token pair
type TokenResult struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	Country     string     `json:"country,omitempty"`
	Locale      string     `json:"locale,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UserListFilter represents admin user list filters
type UserListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=customer admin"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SetRoleRequest changes a user's role
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=customer admin"`
}

// SetActiveRequest activates or deactivates a user
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		Country:     u.Country,
		Locale:      u.Locale,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
