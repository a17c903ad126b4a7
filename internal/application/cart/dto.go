package cart

import (
	"github.com/google/uuid"
)

// ViewQuery selects how a cart is rendered
type ViewQuery struct {
	Locale   string `form:"-"`
	Currency string `form:"currency"`
}

// AddItemRequest adds an item from a warehouse
type AddItemRequest struct {
	ItemID      uuid.UUID `json:"item_id" binding:"required"`
	WarehouseID uuid.UUID `json:"warehouse_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,min=1,max=999"`
}

// UpdateQuantityRequest sets a line's quantity; zero removes the line
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0,max=999"`
}

// LineView is a priced cart line
type LineView struct {
	ID            uuid.UUID `json:"id"`
	ItemID        uuid.UUID `json:"item_id"`
	WarehouseID   uuid.UUID `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name,omitempty"`
	Article       string    `json:"article"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Image         string    `json:"image,omitempty"`
	Quantity      int       `json:"quantity"`
	UnitPrice     string    `json:"unit_price,omitempty"`
	LineTotal     string    `json:"line_total,omitempty"`
	Badge         string    `json:"badge,omitempty"`
	InStock       int       `json:"in_stock"`
	// Available is false when the item was deactivated, lost its price,
	// or the warehouse holds fewer units than the line asks for
	Available bool `json:"available"`
}

// CartView is a cart priced in one display currency
type CartView struct {
	ID            uuid.UUID  `json:"id"`
	Currency      string     `json:"currency"`
	Items         []LineView `json:"items"`
	TotalQuantity int        `json:"total_quantity"`
	Subtotal      string     `json:"subtotal"`
	// CanCheckout is true when the cart has lines and all of them are available
	CanCheckout bool `json:"can_checkout"`
}
