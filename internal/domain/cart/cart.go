package cart

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// MaxLineQuantity caps the quantity of a single cart line
const MaxLineQuantity = 999

// Cart is the shopping cart of a signed-in user
type Cart struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// CartItem is one (item, warehouse) line of a cart
type CartItem struct {
	shared.BaseEntity
	CartID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_line,priority:1"`
	ItemID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_line,priority:2"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_line,priority:3"`
	Quantity    int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) *Cart {
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             make([]CartItem, 0),
	}
}

// AddItem adds qty of an item from a warehouse, merging with an existing line
func (c *Cart) AddItem(itemID, warehouseID uuid.UUID, qty int) (*CartItem, error) {
	if itemID == uuid.Nil || warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Item and warehouse are required")
	}
	if err := validateQuantity(qty); err != nil {
		return nil, err
	}
	for i := range c.Items {
		line := &c.Items[i]
		if line.ItemID == itemID && line.WarehouseID == warehouseID {
			if err := validateQuantity(line.Quantity + qty); err != nil {
				return nil, err
			}
			line.Quantity += qty
			line.Touch()
			c.IncrementVersion()
			return line, nil
		}
	}
	c.Items = append(c.Items, CartItem{
		BaseEntity:  shared.NewBaseEntity(),
		CartID:      c.ID,
		ItemID:      itemID,
		WarehouseID: warehouseID,
		Quantity:    qty,
	})
	c.IncrementVersion()
	return &c.Items[len(c.Items)-1], nil
}

// SetQuantity changes a line's quantity; zero removes the line
func (c *Cart) SetQuantity(lineID uuid.UUID, qty int) error {
	if qty == 0 {
		return c.RemoveItem(lineID)
	}
	if err := validateQuantity(qty); err != nil {
		return err
	}
	line := c.findLine(lineID)
	if line == nil {
		return shared.ErrNotFound
	}
	line.Quantity = qty
	line.Touch()
	c.IncrementVersion()
	return nil
}

// RemoveItem drops a line
func (c *Cart) RemoveItem(lineID uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Clear empties the cart
func (c *Cart) Clear() {
	if len(c.Items) == 0 {
		return
	}
	c.Items = make([]CartItem, 0)
	c.IncrementVersion()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalQuantity sums the quantities of all lines
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.Items {
		total += line.Quantity
	}
	return total
}

func (c *Cart) findLine(lineID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			return &c.Items[i]
		}
	}
	return nil
}

func validateQuantity(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if qty > MaxLineQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot exceed 999")
	}
	return nil
}
