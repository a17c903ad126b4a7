package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// maxIdempotencyKeyLength bounds the Idempotency-Key header
const maxIdempotencyKeyLength = 255

// OrderService is the checkout and order use cases
type OrderService interface {
	Checkout(ctx context.Context, userID uuid.UUID, req orderapp.CheckoutRequest) (*orderapp.OrderResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID, filter orderapp.ListFilter) ([]orderapp.OrderResponse, int64, error)
	ListAll(ctx context.Context, filter orderapp.ListFilter) ([]orderapp.OrderResponse, int64, error)
	Get(ctx context.Context, actor orderapp.Actor, id uuid.UUID) (*orderapp.OrderResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req orderapp.UpdateStatusRequest) (*orderapp.OrderResponse, error)
	Cancel(ctx context.Context, actor orderapp.Actor, id uuid.UUID) (*orderapp.OrderResponse, error)
	Invoice(ctx context.Context, actor orderapp.Actor, id uuid.UUID) ([]byte, string, error)
}

// OrderHandler handles checkout and order endpoints
type OrderHandler struct {
	BaseHandler
	orderService OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) actor(c *gin.Context) (orderapp.Actor, bool) {
	userID, ok := h.currentUser(c)
	if !ok {
		return orderapp.Actor{}, false
	}
	return orderapp.Actor{UserID: userID, Admin: isAdmin(c)}, true
}

// Checkout handles POST /orders. A repeated Idempotency-Key is rejected
// with 409 instead of placing a second order.
//
//	@Summary		Place an order from the cart
//	@Description	A repeated Idempotency-Key is rejected with 409 instead of placing a second order.
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			Idempotency-Key	header	string	false	"Client key that makes a retry safe"
//	@Param			request	body		orderapp.CheckoutRequest	true	"Request body"
//	@Success		201	{object}	dto.Response{data=orderapp.OrderResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		409	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/orders [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req orderapp.CheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.IdempotencyKey = c.GetHeader(middleware.IdempotencyKeyHeader)
	if len(req.IdempotencyKey) > maxIdempotencyKeyLength {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Idempotency key is too long")
		return
	}
	req.Locale = requestedLocale(c)

	order, err := h.orderService.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// ListMine handles GET /orders
//
//	@Summary		List my orders
//	@Tags			orders
//	@Produce		json
//	@Param			filter	query		orderapp.ListFilter	false	"Query parameters"
//	@Success		200	{object}	dto.Response{data=[]orderapp.OrderResponse,meta=dto.Meta}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var filter orderapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	orders, total, err := h.orderService.ListMine(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Get handles GET /orders/:id; customers only see their own orders
//
//	@Summary		Get an order
//	@Description	Customers only see their own orders
//	@Tags			orders
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		200	{object}	dto.Response{data=orderapp.OrderResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel handles POST /orders/:id/cancel
//
//	@Summary		Cancel an order
//	@Tags			orders
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		200	{object}	dto.Response{data=orderapp.OrderResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Invoice handles GET /orders/:id/invoice and streams a PDF
//
//	@Summary		Download an order invoice
//	@Description	And streams a PDF
//	@Tags			orders
//	@Produce		application/pdf
//	@Param			id	path		string	true	"ID"
//	@Success		200	{file}	binary
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Failure		503	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/orders/{id}/invoice [get]
func (h *OrderHandler) Invoice(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	pdf, filename, err := h.orderService.Invoice(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ListAll handles GET /admin/orders
//
//	@Summary		List all orders
//	@Tags			orders
//	@Produce		json
//	@Param			filter	query		orderapp.ListFilter	false	"Query parameters"
//	@Success		200	{object}	dto.Response{data=[]orderapp.OrderResponse,meta=dto.Meta}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/orders [get]
func (h *OrderHandler) ListAll(c *gin.Context) {
	var filter orderapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	orders, total, err := h.orderService.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// UpdateStatus handles PUT /admin/orders/:id/status
//
//	@Summary		Change an order status
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			request	body		orderapp.UpdateStatusRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=orderapp.OrderResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req orderapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
