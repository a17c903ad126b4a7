package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Category is a top-level grouping of items. Display names live in translations.
type Category struct {
	shared.BaseAggregateRoot
	Slug          string                `gorm:"type:varchar(120);not null;uniqueIndex"`
	SortOrder     int                   `gorm:"not null;default:0"`
	Translations  []CategoryTranslation `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Subcategories []Subcategory         `gorm:"foreignKey:CategoryID"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// CategoryTranslation is the name of a category in one locale
type CategoryTranslation struct {
	shared.BaseEntity
	CategoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_category_translation_locale,priority:1"`
	Locale     string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_category_translation_locale,priority:2"`
	Name       string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (CategoryTranslation) TableName() string {
	return "category_translations"
}

// NewCategory creates a category with a name in one locale.
// An empty slug is derived from the name.
func NewCategory(slug, locale, name string) (*Category, error) {
	if slug == "" {
		slug = Slugify(name)
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	c := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Slug:              slug,
	}
	if err := c.SetTranslation(locale, name); err != nil {
		return nil, err
	}
	c.Version = 1
	return c, nil
}

// SetTranslation adds or replaces the name for locale
func (c *Category) SetTranslation(locale, name string) error {
	locale, name, err := validateTranslation(locale, name)
	if err != nil {
		return err
	}
	for i := range c.Translations {
		if c.Translations[i].Locale == locale {
			c.Translations[i].Name = name
			c.Translations[i].Touch()
			c.IncrementVersion()
			return nil
		}
	}
	c.Translations = append(c.Translations, CategoryTranslation{
		BaseEntity: shared.NewBaseEntity(),
		CategoryID: c.ID,
		Locale:     locale,
		Name:       name,
	})
	c.IncrementVersion()
	return nil
}

// Update changes the slug and sort order
func (c *Category) Update(slug string, sortOrder int) error {
	if err := ValidateSlug(slug); err != nil {
		return err
	}
	c.Slug = slug
	c.SortOrder = sortOrder
	c.IncrementVersion()
	return nil
}

// NameFor returns the name in locale, then fallback, then the slug
func (c *Category) NameFor(locale, fallback string) string {
	names := make(map[string]string, len(c.Translations))
	for _, t := range c.Translations {
		names[t.Locale] = t.Name
	}
	return pickName(names, locale, fallback, c.Slug)
}

// HasName reports whether any translation matches name, case-insensitively
func (c *Category) HasName(name string) bool {
	for _, t := range c.Translations {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// Subcategory is a second-level grouping inside a category
type Subcategory struct {
	shared.BaseAggregateRoot
	CategoryID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	Slug         string                   `gorm:"type:varchar(120);not null;uniqueIndex"`
	SortOrder    int                      `gorm:"not null;default:0"`
	Translations []SubcategoryTranslation `gorm:"foreignKey:SubcategoryID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Subcategory) TableName() string {
	return "subcategories"
}

// SubcategoryTranslation is the name of a subcategory in one locale
type SubcategoryTranslation struct {
	shared.BaseEntity
	SubcategoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subcategory_translation_locale,priority:1"`
	Locale        string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_subcategory_translation_locale,priority:2"`
	Name          string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (SubcategoryTranslation) TableName() string {
	return "subcategory_translations"
}

// NewSubcategory creates a subcategory under categoryID
func NewSubcategory(categoryID uuid.UUID, slug, locale, name string) (*Subcategory, error) {
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	if slug == "" {
		slug = Slugify(name)
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	s := &Subcategory{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CategoryID:        categoryID,
		Slug:              slug,
	}
	if err := s.SetTranslation(locale, name); err != nil {
		return nil, err
	}
	s.Version = 1
	return s, nil
}

// SetTranslation adds or replaces the name for locale
func (s *Subcategory) SetTranslation(locale, name string) error {
	locale, name, err := validateTranslation(locale, name)
	if err != nil {
		return err
	}
	for i := range s.Translations {
		if s.Translations[i].Locale == locale {
			s.Translations[i].Name = name
			s.Translations[i].Touch()
			s.IncrementVersion()
			return nil
		}
	}
	s.Translations = append(s.Translations, SubcategoryTranslation{
		BaseEntity:    shared.NewBaseEntity(),
		SubcategoryID: s.ID,
		Locale:        locale,
		Name:          name,
	})
	s.IncrementVersion()
	return nil
}

// Update changes the slug and sort order
func (s *Subcategory) Update(slug string, sortOrder int) error {
	if err := ValidateSlug(slug); err != nil {
		return err
	}
	s.Slug = slug
	s.SortOrder = sortOrder
	s.IncrementVersion()
	return nil
}

// NameFor returns the name in locale, then fallback, then the slug
func (s *Subcategory) NameFor(locale, fallback string) string {
	names := make(map[string]string, len(s.Translations))
	for _, t := range s.Translations {
		names[t.Locale] = t.Name
	}
	return pickName(names, locale, fallback, s.Slug)
}

// HasName reports whether any translation matches name, case-insensitively
func (s *Subcategory) HasName(name string) bool {
	for _, t := range s.Translations {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

func validateTranslation(locale, name string) (string, string, error) {
	normalized, err := NormalizeLocale(locale)
	if err != nil {
		return "", "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len([]rune(name)) > 100 {
		return "", "", shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	return normalized, name, nil
}

func pickName(names map[string]string, locale, fallback, def string) string {
	if n, ok := names[locale]; ok {
		return n
	}
	if n, ok := names[fallback]; ok {
		return n
	}
	return def
}
