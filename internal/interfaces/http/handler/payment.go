package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	paymentapp "github.com/storefront/backend/internal/application/payment"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

const (
	stripeSignatureHeader = "Stripe-Signature"
	maxWebhookBody        = 64 << 10
)

// PaymentService is the payment use cases
type PaymentService interface {
	ListForOrder(ctx context.Context, userID uuid.UUID, admin bool, orderID uuid.UUID) ([]paymentapp.PaymentResponse, error)
	Complete(ctx context.Context, id uuid.UUID, req paymentapp.CompleteRequest) (*paymentapp.PaymentResponse, error)
	Fail(ctx context.Context, id uuid.UUID, req paymentapp.FailRequest) (*paymentapp.PaymentResponse, error)
	Refund(ctx context.Context, id uuid.UUID) (*paymentapp.PaymentResponse, error)
	StartCardPayment(ctx context.Context, userID uuid.UUID, admin bool, orderID uuid.UUID) (*paymentapp.CardPaymentResponse, error)
	HandleGatewayEvent(ctx context.Context, payload []byte, signature string) error
}

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ListForOrder handles GET /orders/:id/payments
//
//	@Summary		List payments of an order
//	@Tags			payments
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		200	{object}	dto.Response{data=[]paymentapp.PaymentResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/orders/{id}/payments [get]
func (h *PaymentHandler) ListForOrder(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	payments, err := h.paymentService.ListForOrder(c.Request.Context(), userID, isAdmin(c), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Complete handles POST /admin/payments/:id/complete; the order becomes paid
//
//	@Summary		Mark a payment completed
//	@Description	The order becomes paid
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			request	body		paymentapp.CompleteRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=paymentapp.PaymentResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/payments/{id}/complete [post]
func (h *PaymentHandler) Complete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req paymentapp.CompleteRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	p, err := h.paymentService.Complete(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Fail handles POST /admin/payments/:id/fail
//
//	@Summary		Mark a payment failed
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Param			request	body		paymentapp.FailRequest	true	"Request body"
//	@Success		200	{object}	dto.Response{data=paymentapp.PaymentResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/payments/{id}/fail [post]
func (h *PaymentHandler) Fail(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req paymentapp.FailRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.paymentService.Fail(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Refund handles POST /admin/payments/:id/refund
//
//	@Summary		Refund a payment
//	@Tags			payments
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		200	{object}	dto.Response{data=paymentapp.PaymentResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/admin/payments/{id}/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.paymentService.Refund(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// StartCard handles POST /orders/:id/payments/card
//
//	@Summary		Start a card payment
//	@Tags			payments
//	@Produce		json
//	@Param			id	path		string	true	"ID"
//	@Success		200	{object}	dto.Response{data=paymentapp.CardPaymentResponse}
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Failure		503	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/orders/{id}/payments/card [post]
func (h *PaymentHandler) StartCard(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	orderID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.paymentService.StartCardPayment(c.Request.Context(), userID, isAdmin(c), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// StripeWebhook handles POST /payments/webhooks/stripe. The raw body is
// needed for signature verification.
//
//	@Summary		Receive Stripe events
//	@Description	The raw body is needed for signature verification.
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			Stripe-Signature	header	string	true	"Stripe webhook signature"
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Router			/payments/webhooks/stripe [post]
func (h *PaymentHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(payload) > maxWebhookBody {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Webhook payload too large")
		return
	}
	if err := h.paymentService.HandleGatewayEvent(c.Request.Context(), payload, c.GetHeader(stripeSignatureHeader)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"received": true})
}
