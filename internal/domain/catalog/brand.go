package catalog

import (
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// Brand is a manufacturer or label an item belongs to
type Brand struct {
	shared.BaseAggregateRoot
	Name    string `gorm:"type:varchar(100);not null"`
	Slug    string `gorm:"type:varchar(120);not null;uniqueIndex"`
	LogoURL string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates a brand; an empty slug is derived from the name
func NewBrand(name, slug string) (*Brand, error) {
	b := &Brand{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := b.Update(name, slug, ""); err != nil {
		return nil, err
	}
	b.Version = 1
	return b, nil
}

// Update replaces the brand fields
func (b *Brand) Update(name, slug, logoURL string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Brand name cannot be empty")
	}
	if len([]rune(name)) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Brand name cannot exceed 100 characters")
	}
	if slug == "" {
		slug = Slugify(name)
	}
	if err := ValidateSlug(slug); err != nil {
		return err
	}
	b.Name = name
	b.Slug = slug
	b.LogoURL = strings.TrimSpace(logoURL)
	b.IncrementVersion()
	return nil
}
