package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/payment"
)

// Actor is the authenticated caller of an order operation
type Actor struct {
	UserID uuid.UUID
	Admin  bool
}

// ContactInput is who to reach about an order
type ContactInput struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"omitempty,email,max=200"`
	Phone string `json:"phone" binding:"omitempty,max=50"`
}

// ShippingInput is where the order goes
type ShippingInput struct {
	Country    string `json:"country" binding:"required,len=2"`
	City       string `json:"city" binding:"required,max=100"`
	Address    string `json:"address" binding:"required"`
	PostalCode string `json:"postal_code" binding:"omitempty,max=20"`
}

// CheckoutRequest turns the cart into an order
type CheckoutRequest struct {
	Currency        string        `json:"currency" binding:"omitempty,len=3"`
	Contact         ContactInput  `json:"contact" binding:"required"`
	Shipping        ShippingInput `json:"shipping" binding:"required"`
	Comment         string        `json:"comment" binding:"omitempty,max=2000"`
	PaymentProvider string        `json:"payment_provider" binding:"required,oneof=card cash bank_transfer"`

	// Set by the handler from the request
	Locale         string `json:"-"`
	IdempotencyKey string `json:"-"`
}

// ListFilter filters order lists
type ListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at number total status"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=pending paid shipped delivered cancelled"`
	UserID   string `form:"user_id" binding:"omitempty,uuid"`
}

// UpdateStatusRequest moves an order through its lifecycle
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=paid shipped delivered cancelled"`
}

// OrderItemResponse is an order line
type OrderItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ItemID      uuid.UUID `json:"item_id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Article     string    `json:"article"`
	Name        string    `json:"name"`
	UnitPrice   string    `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	LineTotal   string    `json:"line_total"`
}

// PaymentSummary is a payment attached to an order response
type PaymentSummary struct {
	ID       uuid.UUID `json:"id"`
	Provider string    `json:"provider"`
	Status   string    `json:"status"`
	Amount   string    `json:"amount"`
	Currency string    `json:"currency"`
}

// OrderResponse is an order with its lines
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	Number      string              `json:"number"`
	UserID      uuid.UUID           `json:"user_id"`
	Status      string              `json:"status"`
	Currency    string              `json:"currency"`
	Subtotal    string              `json:"subtotal"`
	Total       string              `json:"total"`
	Contact     ContactInput        `json:"contact"`
	Shipping    ShippingInput       `json:"shipping"`
	Comment     string              `json:"comment,omitempty"`
	Items       []OrderItemResponse `json:"items"`
	Payments    []PaymentSummary    `json:"payments,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	PaidAt      *time.Time          `json:"paid_at,omitempty"`
	ShippedAt   *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *order.Order, payments []payment.Payment) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:          it.ID,
			ItemID:      it.ItemID,
			WarehouseID: it.WarehouseID,
			Article:     it.Article,
			Name:        it.Name,
			UnitPrice:   it.UnitPrice.StringFixed(2),
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal.StringFixed(2),
		}
	}
	resp := OrderResponse{
		ID:       o.ID,
		Number:   o.Number,
		UserID:   o.UserID,
		Status:   string(o.Status),
		Currency: o.Currency,
		Subtotal: o.Subtotal.StringFixed(2),
		Total:    o.Total.StringFixed(2),
		Contact: ContactInput{
			Name:  o.Contact.Name,
			Email: o.Contact.Email,
			Phone: o.Contact.Phone,
		},
		Shipping: ShippingInput{
			Country:    o.Shipping.Country,
			City:       o.Shipping.City,
			Address:    o.Shipping.Address,
			PostalCode: o.Shipping.PostalCode,
		},
		Comment:     o.Comment,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		PaidAt:      o.PaidAt,
		ShippedAt:   o.ShippedAt,
		DeliveredAt: o.DeliveredAt,
		CancelledAt: o.CancelledAt,
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, PaymentSummary{
			ID:       p.ID,
			Provider: string(p.Provider),
			Status:   string(p.Status),
			Amount:   p.Amount.StringFixed(2),
			Currency: p.Currency,
		})
	}
	return resp
}
