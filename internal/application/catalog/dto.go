package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/pricing"
)

// CreateItemRequest represents a request to create an item
type CreateItemRequest struct {
	Article       string     `json:"article" binding:"required,min=1,max=64"`
	Slug          string     `json:"slug" binding:"omitempty,max=200"`
	CategoryID    *uuid.UUID `json:"category_id"`
	SubcategoryID *uuid.UUID `json:"subcategory_id"`
	BrandID       *uuid.UUID `json:"brand_id"`
	Images        []string   `json:"images" binding:"omitempty,max=20,dive,url"`
	// Optional initial details in Locale
	Locale      string `json:"locale" binding:"omitempty,max=16"`
	Name        string `json:"name" binding:"omitempty,max=300"`
	Description string `json:"description" binding:"omitempty,max=10000"`
}

// UpdateItemRequest represents a partial item update.
// Classification fields are replaced together when any of them is sent.
type UpdateItemRequest struct {
	Slug          *string    `json:"slug" binding:"omitempty,min=1,max=200"`
	CategoryID    *uuid.UUID `json:"category_id"`
	SubcategoryID *uuid.UUID `json:"subcategory_id"`
	BrandID       *uuid.UUID `json:"brand_id"`
	Reclassify    bool       `json:"reclassify"`
	IsActive      *bool      `json:"is_active"`
}

// ItemListFilter represents admin item list filters
type ItemListFilter struct {
	Search        string     `form:"search"`
	CategoryID    *uuid.UUID `form:"-"`
	SubcategoryID *uuid.UUID `form:"-"`
	BrandID       *uuid.UUID `form:"-"`
	IsActive      *bool      `form:"is_active"`
	Locale        string     `form:"locale"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UpsertDetailsRequest sets the name and description of an item in one locale
type UpsertDetailsRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=300"`
	Description string `json:"description" binding:"max=10000"`
}

// SetImagesRequest replaces the image list of an item
type SetImagesRequest struct {
	Images []string `json:"images" binding:"max=20,dive,required"`
}

// ItemDetailsResponse is the localized content of an item
type ItemDetailsResponse struct {
	Locale      string    `json:"locale"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemResponse represents an item in admin API responses
type ItemResponse struct {
	ID            uuid.UUID             `json:"id"`
	Article       string                `json:"article"`
	Slug          string                `json:"slug"`
	Name          string                `json:"name"`
	CategoryID    *uuid.UUID            `json:"category_id"`
	SubcategoryID *uuid.UUID            `json:"subcategory_id"`
	BrandID       *uuid.UUID            `json:"brand_id"`
	Images        []string              `json:"images"`
	IsActive      bool                  `json:"is_active"`
	Details       []ItemDetailsResponse `json:"details"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Version       int                   `json:"version"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Slug      string `json:"slug" binding:"omitempty,max=120"`
	SortOrder int    `json:"sort_order"`
	// Names by locale; at least one is required
	Names map[string]string `json:"names" binding:"required,min=1,dive,keys,max=16,endkeys,required,max=100"`
}

// UpdateCategoryRequest updates a category or subcategory; names are merged by locale
type UpdateCategoryRequest struct {
	Slug      *string           `json:"slug" binding:"omitempty,min=1,max=120"`
	SortOrder *int              `json:"sort_order"`
	Names     map[string]string `json:"names" binding:"omitempty,dive,keys,max=16,endkeys,required,max=100"`
}

// CreateSubcategoryRequest represents a request to create a subcategory
type CreateSubcategoryRequest struct {
	Slug      string            `json:"slug" binding:"omitempty,max=120"`
	SortOrder int               `json:"sort_order"`
	Names     map[string]string `json:"names" binding:"required,min=1,dive,keys,max=16,endkeys,required,max=100"`
}

// SubcategoryResponse is a subcategory with its name in the requested locale
type SubcategoryResponse struct {
	ID         uuid.UUID         `json:"id"`
	CategoryID uuid.UUID         `json:"category_id"`
	Slug       string            `json:"slug"`
	Name       string            `json:"name"`
	SortOrder  int               `json:"sort_order"`
	Names      map[string]string `json:"names,omitempty"`
}

// CategoryResponse is a category with its subcategories
type CategoryResponse struct {
	ID            uuid.UUID             `json:"id"`
	Slug          string                `json:"slug"`
	Name          string                `json:"name"`
	SortOrder     int                   `json:"sort_order"`
	Names         map[string]string     `json:"names,omitempty"`
	Subcategories []SubcategoryResponse `json:"subcategories"`
}

// CreateBrandRequest represents a request to create a brand
type CreateBrandRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Slug    string `json:"slug" binding:"omitempty,max=120"`
	LogoURL string `json:"logo_url" binding:"omitempty,url,max=500"`
}

// UpdateBrandRequest represents a partial brand update
type UpdateBrandRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=100"`
	Slug    *string `json:"slug" binding:"omitempty,min=1,max=120"`
	LogoURL *string `json:"logo_url" binding:"omitempty,max=500"`
}

// BrandListFilter represents brand list filters
type BrandListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// BrandResponse represents a brand in API responses
type BrandResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	LogoURL   string    `json:"logo_url"`
	CreatedAt time.Time `json:"created_at"`
}

// StorefrontQuery selects and localizes storefront items
type StorefrontQuery struct {
	Search      string `form:"search"`
	Category    string `form:"category"`
	Subcategory string `form:"subcategory"`
	Brand       string `form:"brand"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	// Resolved by the handler from query, headers and the signed-in user
	Locale   string `form:"-"`
	Country  string `form:"country"`
	Currency string `form:"currency"`
}

// PriceView is a resolved price in the display currency
type PriceView struct {
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	WarehouseName   string          `json:"warehouse_name"`
	CountryCode     string          `json:"country_code"`
	Currency        string          `json:"currency"`
	Price           decimal.Decimal `json:"price"`
	EffectivePrice  decimal.Decimal `json:"effective_price"`
	DiscountPercent int             `json:"discount_percent"`
	PromoEndsAt     *time.Time      `json:"promo_ends_at,omitempty"`
	Badge           string          `json:"badge,omitempty"`
	Quantity        int             `json:"quantity"`
	InStock         bool            `json:"in_stock"`
}

// StorefrontItem is an item as shown to shoppers
type StorefrontItem struct {
	ID          uuid.UUID   `json:"id"`
	Article     string      `json:"article"`
	Slug        string      `json:"slug"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Images      []string    `json:"images"`
	Category    *NamedRef   `json:"category,omitempty"`
	Subcategory *NamedRef   `json:"subcategory,omitempty"`
	Brand       *NamedRef   `json:"brand,omitempty"`
	Price       *PriceView  `json:"price"`
	Offers      []PriceView `json:"offers,omitempty"`
}

// NamedRef is a slug/name pair of a related entity
type NamedRef struct {
	ID   uuid.UUID `json:"id"`
	Slug string    `json:"slug"`
	Name string    `json:"name"`
}

// ToItemResponse converts a domain item to a response; Name is taken in locale
func ToItemResponse(item *catalog.Item, locale string) ItemResponse {
	resp := ItemResponse{
		ID:            item.ID,
		Article:       item.Article,
		Slug:          item.Slug,
		CategoryID:    item.CategoryID,
		SubcategoryID: item.SubcategoryID,
		BrandID:       item.BrandID,
		Images:        item.Images,
		IsActive:      item.IsActive,
		Details:       make([]ItemDetailsResponse, 0, len(item.Details)),
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
		Version:       item.Version,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	for i := range item.Details {
		resp.Details = append(resp.Details, ToItemDetailsResponse(&item.Details[i]))
	}
	if d := item.DetailsFor(locale, catalog.DefaultLocale); d != nil {
		resp.Name = d.Name
	}
	return resp
}

// ToItemDetailsResponse converts localized details to a response
func ToItemDetailsResponse(d *catalog.ItemDetails) ItemDetailsResponse {
	return ItemDetailsResponse{
		Locale:      d.Locale,
		Name:        d.Name,
		Description: d.Description,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ToBrandResponse converts a domain brand to a response
func ToBrandResponse(b *catalog.Brand) BrandResponse {
	return BrandResponse{
		ID:        b.ID,
		Name:      b.Name,
		Slug:      b.Slug,
		LogoURL:   b.LogoURL,
		CreatedAt: b.CreatedAt,
	}
}

// ToCategoryResponse converts a category and its subcategories, naming them in locale.
// withNames includes every translation (admin views).
func ToCategoryResponse(c *catalog.Category, locale, fallback string, withNames bool) CategoryResponse {
	resp := CategoryResponse{
		ID:            c.ID,
		Slug:          c.Slug,
		Name:          c.NameFor(locale, fallback),
		SortOrder:     c.SortOrder,
		Subcategories: make([]SubcategoryResponse, 0, len(c.Subcategories)),
	}
	if withNames {
		resp.Names = make(map[string]string, len(c.Translations))
		for _, t := range c.Translations {
			resp.Names[t.Locale] = t.Name
		}
	}
	for i := range c.Subcategories {
		resp.Subcategories = append(resp.Subcategories, ToSubcategoryResponse(&c.Subcategories[i], locale, fallback, withNames))
	}
	return resp
}

// ToSubcategoryResponse converts a subcategory, naming it in locale
func ToSubcategoryResponse(s *catalog.Subcategory, locale, fallback string, withNames bool) SubcategoryResponse {
	resp := SubcategoryResponse{
		ID:         s.ID,
		CategoryID: s.CategoryID,
		Slug:       s.Slug,
		Name:       s.NameFor(locale, fallback),
		SortOrder:  s.SortOrder,
	}
	if withNames {
		resp.Names = make(map[string]string, len(s.Translations))
		for _, t := range s.Translations {
			resp.Names[t.Locale] = t.Name
		}
	}
	return resp
}

// ToPriceView converts a resolved price
func ToPriceView(r *pricing.ResolvedPrice) *PriceView {
	if r == nil {
		return nil
	}
	return &PriceView{
		WarehouseID:     r.WarehouseID,
		WarehouseName:   r.WarehouseName,
		CountryCode:     r.CountryCode,
		Currency:        string(r.Price.Currency()),
		Price:           r.Price.Amount(),
		EffectivePrice:  r.EffectivePrice.Amount(),
		DiscountPercent: r.DiscountPercent,
		PromoEndsAt:     r.PromoEndsAt,
		Badge:           string(r.Badge),
		Quantity:        r.Quantity,
		InStock:         r.InStock,
	}
}
