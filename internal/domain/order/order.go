package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Status is the lifecycle state of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusPaid, StatusCancelled},
	StatusPaid:    {StatusShipped, StatusCancelled},
	StatusShipped: {StatusDelivered},
}

// ParseStatus validates a status name
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return st, nil
	}
	return "", shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+s)
}

// CanTransitionTo reports whether next is reachable from s
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Contact is who to reach about an order
type Contact struct {
	Name  string `gorm:"type:varchar(200)"`
	Email string `gorm:"type:varchar(200)"`
	Phone string `gorm:"type:varchar(50)"`
}

// ShippingAddress is where an order is delivered
type ShippingAddress struct {
	Country    string `gorm:"type:varchar(2)"`
	City       string `gorm:"type:varchar(100)"`
	Address    string `gorm:"type:text"`
	PostalCode string `gorm:"type:varchar(20)"`
}

// Order is a placed purchase. Lines carry snapshots of article, name and price.
type Order struct {
	shared.BaseAggregateRoot
	Number      string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status      Status          `gorm:"type:varchar(20);not null;index"`
	Currency    string          `gorm:"type:varchar(3);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Contact     Contact         `gorm:"embedded;embeddedPrefix:contact_"`
	Shipping    ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_"`
	Comment     string          `gorm:"type:text"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaidAt      *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is an order line (item to order)
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null"`
	Article     string          `gorm:"type:varchar(64);not null"`
	Name        string          `gorm:"type:varchar(300);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity    int             `gorm:"not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Line is the input for adding an order line
type Line struct {
	ItemID      uuid.UUID
	WarehouseID uuid.UUID
	Article     string
	Name        string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// NewOrder creates a pending order without lines
func NewOrder(userID uuid.UUID, currency valueobject.Currency, contact Contact, shipping ShippingAddress, comment string) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User is required")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency is required")
	}
	if strings.TrimSpace(contact.Name) == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Contact name is required")
	}
	if strings.TrimSpace(contact.Email) == "" && strings.TrimSpace(contact.Phone) == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Contact email or phone is required")
	}
	if strings.TrimSpace(shipping.Address) == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}
	shipping.Country = strings.ToUpper(strings.TrimSpace(shipping.Country))

	root := shared.NewBaseAggregateRoot()
	return &Order{
		BaseAggregateRoot: root,
		Number:            NewOrderNumber(root.CreatedAt, root.ID),
		UserID:            userID,
		Status:            StatusPending,
		Currency:          string(currency),
		Subtotal:          decimal.Zero,
		Total:             decimal.Zero,
		Contact:           contact,
		Shipping:          shipping,
		Comment:           strings.TrimSpace(comment),
		Items:             make([]OrderItem, 0),
	}, nil
}

// NewOrderNumber formats a human-readable order number like SO-20260301-1A2B3C4D
func NewOrderNumber(at time.Time, id uuid.UUID) string {
	return fmt.Sprintf("SO-%s-%s", at.Format("20060102"), strings.ToUpper(id.String()[:8]))
}

// AddLine appends a line and recomputes totals
func (o *Order) AddLine(l Line) error {
	if o.Status != StatusPending {
		return shared.ErrInvalidState
	}
	if l.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if l.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	unit := l.UnitPrice.Round(2)
	o.Items = append(o.Items, OrderItem{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     o.ID,
		ItemID:      l.ItemID,
		WarehouseID: l.WarehouseID,
		Article:     l.Article,
		Name:        l.Name,
		UnitPrice:   unit,
		Quantity:    l.Quantity,
		LineTotal:   unit.Mul(decimal.NewFromInt(int64(l.Quantity))),
	})
	o.recalculate()
	return nil
}

// TotalMoney returns the order total as Money
func (o *Order) TotalMoney() valueobject.Money {
	return valueobject.MustMoney(o.Total, valueobject.Currency(o.Currency))
}

// MarkPaid moves a pending order to paid
func (o *Order) MarkPaid(at time.Time) error {
	if err := o.transition(StatusPaid); err != nil {
		return err
	}
	o.PaidAt = &at
	return nil
}

// Ship moves a paid order to shipped
func (o *Order) Ship(at time.Time) error {
	if err := o.transition(StatusShipped); err != nil {
		return err
	}
	o.ShippedAt = &at
	return nil
}

// Deliver moves a shipped order to delivered
func (o *Order) Deliver(at time.Time) error {
	if err := o.transition(StatusDelivered); err != nil {
		return err
	}
	o.DeliveredAt = &at
	return nil
}

// Cancel cancels a pending or paid order
func (o *Order) Cancel(at time.Time) error {
	if err := o.transition(StatusCancelled); err != nil {
		return err
	}
	o.CancelledAt = &at
	return nil
}

// TransitionTo dispatches to the named transition
func (o *Order) TransitionTo(next Status, at time.Time) error {
	switch next {
	case StatusPaid:
		return o.MarkPaid(at)
	case StatusShipped:
		return o.Ship(at)
	case StatusDelivered:
		return o.Deliver(at)
	case StatusCancelled:
		return o.Cancel(at)
	}
	return shared.NewDomainError("INVALID_STATUS_TRANSITION", fmt.Sprintf("Cannot move order from %s to %s", o.Status, next))
}

func (o *Order) transition(next Status) error {
	if !o.Status.CanTransitionTo(next) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION", fmt.Sprintf("Cannot move order from %s to %s", o.Status, next))
	}
	o.Status = next
	o.IncrementVersion()
	return nil
}

func (o *Order) recalculate() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	o.Subtotal = subtotal
	o.Total = subtotal
	o.IncrementVersion()
}
