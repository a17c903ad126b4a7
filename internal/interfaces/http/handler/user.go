package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/storefront/backend/internal/application/identity"
)

// UserService is the admin user management use cases
type UserService interface {
	List(ctx context.Context, filter identityapp.UserListFilter) ([]identityapp.UserResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*identityapp.UserResponse, error)
	SetRole(ctx context.Context, actorID, id uuid.UUID, req identityapp.SetRoleRequest) (*identityapp.UserResponse, error)
	SetActive(ctx context.Context, actorID, id uuid.UUID, active bool) (*identityapp.UserResponse, error)
}

// UserHandler handles admin user endpoints
type UserHandler struct {
	BaseHandler
	userService UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles GET /admin/users
//
//	@Summary		List users
//	@Tags			users
//	@Produce		json
//	@Param			filter	query		identityapp.UserListFilter	false	"Query parameters"
//	@Success		200	{object}	dto.Response{data=[]identityapp.UserResponse,meta=dto.Meta}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter identityapp.UserListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	users, total, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, users, total, filter.Page, filter.PageSize)
}

// GetByID handles GET /admin/users/:id
//
//	@Summary		Get a user
//	@Tags			users
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		200	{object}	dto.Response{data=identityapp.UserResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// SetRole handles PUT /admin/users/:id/role
//
//	@Summary		Change a user role
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			request	body		identityapp.SetRoleRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=identityapp.UserResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/users/{id}/role [put]
func (h *UserHandler) SetRole(c *gin.Context) {
	actorID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req identityapp.SetRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.SetRole(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// SetActive handles PUT /admin/users/:id/active; deactivation revokes the user's tokens
//
//	@Summary		Activate or deactivate a user
//	@Description	Deactivation revokes the user's tokens
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			request	body		identityapp.SetActiveRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=identityapp.UserResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/users/{id}/active [put]
func (h *UserHandler) SetActive(c *gin.Context) {
	actorID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req identityapp.SetActiveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.SetActive(c.Request.Context(), actorID, id, *req.IsActive)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
