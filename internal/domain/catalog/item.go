package catalog

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

const maxImagesPerItem = 20

var articlePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9._/\-]*$`)

// Item is a sellable catalog entry. Localized names live in ItemDetails,
// per-warehouse prices in pricing.ItemPrice.
type Item struct {
	shared.BaseAggregateRoot
	Article       string        `gorm:"type:varchar(64);not null;uniqueIndex"`
	Slug          string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	CategoryID    *uuid.UUID    `gorm:"type:uuid;index"`
	SubcategoryID *uuid.UUID    `gorm:"type:uuid;index"`
	BrandID       *uuid.UUID    `gorm:"type:uuid;index"`
	Images        []string      `gorm:"type:text;serializer:json"`
	IsActive      bool          `gorm:"not null"`
	Details       []ItemDetails `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates an active item. An empty slug is derived from the article.
func NewItem(article, slug string) (*Item, error) {
	article = NormalizeArticle(article)
	if err := validateArticle(article); err != nil {
		return nil, err
	}
	if slug == "" {
		slug = Slugify(article)
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}

	return &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Article:           article,
		Slug:              slug,
		Images:            make([]string, 0),
		IsActive:          true,
	}, nil
}

// NormalizeArticle trims and upper-cases an article id
func NormalizeArticle(article string) string {
	return strings.ToUpper(strings.TrimSpace(article))
}

// SetSlug replaces the slug
func (i *Item) SetSlug(slug string) error {
	if err := ValidateSlug(slug); err != nil {
		return err
	}
	i.Slug = slug
	i.IncrementVersion()
	return nil
}

// Classify sets category, subcategory and brand references.
// A subcategory without a category is rejected.
func (i *Item) Classify(categoryID, subcategoryID, brandID *uuid.UUID) error {
	if subcategoryID != nil && categoryID == nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Subcategory requires a category")
	}
	i.CategoryID = categoryID
	i.SubcategoryID = subcategoryID
	i.BrandID = brandID
	i.IncrementVersion()
	return nil
}

// SetImages replaces the image link list, dropping blanks and duplicates
func (i *Item) SetImages(images []string) error {
	cleaned := make([]string, 0, len(images))
	seen := make(map[string]struct{}, len(images))
	for _, img := range images {
		img = strings.TrimSpace(img)
		if img == "" {
			continue
		}
		if _, ok := seen[img]; ok {
			continue
		}
		seen[img] = struct{}{}
		cleaned = append(cleaned, img)
	}
	if len(cleaned) > maxImagesPerItem {
		return shared.NewDomainError("TOO_MANY_IMAGES", "An item cannot have more than 20 images")
	}
	i.Images = cleaned
	i.IncrementVersion()
	return nil
}

// Activate makes the item visible in the storefront
func (i *Item) Activate() {
	if i.IsActive {
		return
	}
	i.IsActive = true
	i.IncrementVersion()
}

// Deactivate hides the item from the storefront
func (i *Item) Deactivate() {
	if !i.IsActive {
		return
	}
	i.IsActive = false
	i.IncrementVersion()
}

// DetailsFor returns the details in locale, falling back to fallback and then to any entry
func (i *Item) DetailsFor(locale, fallback string) *ItemDetails {
	var first *ItemDetails
	var fb *ItemDetails
	for idx := range i.Details {
		d := &i.Details[idx]
		if d.Locale == locale {
			return d
		}
		if d.Locale == fallback && fb == nil {
			fb = d
		}
		if first == nil {
			first = d
		}
	}
	if fb != nil {
		return fb
	}
	return first
}

func validateArticle(article string) error {
	if article == "" {
		return shared.NewDomainError("INVALID_ARTICLE", "Article cannot be empty")
	}
	if len(article) > 64 {
		return shared.NewDomainError("INVALID_ARTICLE", "Article cannot exceed 64 characters")
	}
	if !articlePattern.MatchString(article) {
		return shared.NewDomainError("INVALID_ARTICLE", "Article may only contain letters, digits, '.', '_', '/' and '-'")
	}
	return nil
}
