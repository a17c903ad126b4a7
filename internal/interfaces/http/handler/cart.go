package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/storefront/backend/internal/application/cart"
)

// CartService is the shopping cart use cases
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID, q cartapp.ViewQuery) (*cartapp.CartView, error)
	AddItem(ctx context.Context, userID uuid.UUID, req cartapp.AddItemRequest, q cartapp.ViewQuery) (*cartapp.CartView, error)
	UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, qty int, q cartapp.ViewQuery) (*cartapp.CartView, error)
	RemoveItem(ctx context.Context, userID, lineID uuid.UUID, q cartapp.ViewQuery) (*cartapp.CartView, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// CartHandler serves the caller's cart
type CartHandler struct {
	BaseHandler
	cartService CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// viewQuery reads the display currency and locale of the returned cart
func (h *CartHandler) viewQuery(c *gin.Context) (cartapp.ViewQuery, bool) {
	var q cartapp.ViewQuery
	if !h.bindQuery(c, &q) {
		return q, false
	}
	q.Locale = requestedLocale(c)
	return q, true
}

// Get handles GET /cart
//
//	@Summary		Get the cart
//	@Tags			cart
//	@Produce		json
//	@Success		200	{object}	dto.Response{data=cartapp.CartView}
//	@Failure		401	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	q, ok := h.viewQuery(c)
	if !ok {
		return
	}
	view, err := h.cartService.GetCart(c.Request.Context(), userID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// AddItem handles POST /cart/items. Adding an existing line increases its quantity.
//
//	@Summary		Add an item to the cart
//	@Description	Adding an existing line increases its quantity
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			request	body		cartapp.AddItemRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=cartapp.CartView}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	q, ok := h.viewQuery(c)
	if !ok {
		return
	}
	var req cartapp.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	view, err := h.cartService.AddItem(c.Request.Context(), userID, req, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// UpdateQuantity handles PUT /cart/items/:line_id; quantity 0 removes the line
//
//	@Summary		Change a cart line quantity
//	@Description	Quantity 0 removes the line
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			line_id	path		string	true	"Cart line ID"
//	@Param			request	body		cartapp.UpdateQuantityRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=cartapp.CartView}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/cart/items/{line_id} [put]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	lineID, ok := h.pathID(c, "line_id")
	if !ok {
		return
	}
	q, ok := h.viewQuery(c)
	if !ok {
		return
	}
	var req cartapp.UpdateQuantityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	view, err := h.cartService.UpdateQuantity(c.Request.Context(), userID, lineID, *req.Quantity, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// RemoveItem handles DELETE /cart/items/:line_id
//
//	@Summary		Remove a cart line
//	@Tags			cart
//	@Produce		json
//	@Param			line_id	path		string	true	"Cart line ID"
//	@Success		200	{object}	dto.Response{data=cartapp.CartView}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/cart/items/{line_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	lineID, ok := h.pathID(c, "line_id")
	if !ok {
		return
	}
	q, ok := h.viewQuery(c)
	if !ok {
		return
	}
	view, err := h.cartService.RemoveItem(c.Request.Context(), userID, lineID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Clear handles DELETE /cart
//
//	@Summary		Empty the cart
//	@Tags			cart
//	@Produce		json
//	@Success		204
//	@Failure		401	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.cartService.Clear(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
