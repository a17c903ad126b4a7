package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// AuthService is the identity use cases behind the auth endpoints
type AuthService interface {
	Register(ctx context.Context, input identityapp.RegisterInput) (*identityapp.TokenResult, error)
	Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.TokenResult, error)
	Refresh(ctx context.Context, input identityapp.RefreshInput) (*identityapp.TokenResult, error)
	Logout(ctx context.Context, input identityapp.LogoutInput) error
	Me(ctx context.Context, userID uuid.UUID) (*identityapp.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input identityapp.ChangePasswordInput) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LogoutRequest ends one session, or every session of the caller
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	AllSessions  bool   `json:"all_sessions"`
}

// Register handles POST /auth/register
//
//	@Summary		Register a customer account
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identityapp.RegisterInput	true	"Request body"
//	@Success		201	{object}	dto.Response{data=identityapp.TokenResult}
//	@Failure		400	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Router			/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterInput
	if !h.bindJSON(c, &req) {
		return
	}
	req.UserAgent = c.Request.UserAgent()
	req.IP = c.ClientIP()
	if req.Locale == "" {
		req.Locale = requestedLocale(c)
	}

	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Login handles POST /auth/login
//
//	@Summary		Log in with email and password
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identityapp.LoginInput	true	"Request body"
//	@Success		200	{object}	dto.Response{data=identityapp.TokenResult}
//	@Failure		400	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginInput
	if !h.bindJSON(c, &req) {
		return
	}
	req.UserAgent = c.Request.UserAgent()
	req.IP = c.ClientIP()

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh handles POST /auth/refresh
//
//	@Summary		Refresh an access token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identityapp.RefreshInput	true	"Request body"
//	@Success		200	{object}	dto.Response{data=identityapp.TokenResult}
//	@Failure		400	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Router			/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshInput
	if !h.bindJSON(c, &req) {
		return
	}
	req.UserAgent = c.Request.UserAgent()
	req.IP = c.ClientIP()

	result, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout handles POST /auth/logout. The presented access token is revoked
// for the rest of its lifetime.
//
//	@Summary		Log out and revoke the access token
//	@Description	The presented access token is revoked for the rest of its lifetime.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LogoutRequest	true	"Request body"
//	@Success		204
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req LogoutRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	input := identityapp.LogoutInput{
		UserID:       userID,
		RefreshToken: req.RefreshToken,
		AllSessions:  req.AllSessions,
	}
	if claims := middleware.GetJWTClaims(c); claims != nil && claims.ExpiresAt != nil {
		input.TokenJTI = claims.ID
		input.TokenTTL = time.Until(claims.ExpiresAt.Time)
	}

	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me handles GET /auth/me
//
//	@Summary		Get the current user
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	dto.Response{data=identityapp.UserResponse}
//	@Failure		401	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword handles PUT /auth/password
//
//	@Summary		Change the current user's password
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identityapp.ChangePasswordInput	true	"Request body"
//	@Success		204
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req identityapp.ChangePasswordInput
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
