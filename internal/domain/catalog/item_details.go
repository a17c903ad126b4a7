package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ItemDetails holds the locale-specific name and description of an item
type ItemDetails struct {
	shared.BaseEntity
	ItemID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_item_details_item_locale,priority:1"`
	Locale      string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_item_details_item_locale,priority:2"`
	Name        string    `gorm:"type:varchar(300);not null"`
	Description string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ItemDetails) TableName() string {
	return "item_details"
}

// NewItemDetails creates details for an item in a locale
func NewItemDetails(itemID uuid.UUID, locale, name, description string) (*ItemDetails, error) {
	normalized, err := NormalizeLocale(locale)
	if err != nil {
		return nil, err
	}
	d := &ItemDetails{
		BaseEntity: shared.NewBaseEntity(),
		ItemID:     itemID,
		Locale:     normalized,
	}
	if err := d.Update(name, description); err != nil {
		return nil, err
	}
	return d, nil
}

// Update replaces name and description
func (d *ItemDetails) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if len([]rune(name)) > 300 {
		return shared.NewDomainError("INVALID_NAME", "Item name cannot exceed 300 characters")
	}
	d.Name = name
	d.Description = strings.TrimSpace(description)
	d.Touch()
	return nil
}
