package warehouse

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/warehouse"
)

// CreateWarehouseRequest represents a request to create a warehouse
type CreateWarehouseRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	CountryCode string `json:"country_code" binding:"required,len=2"`
	City        string `json:"city" binding:"max=100"`
	Address     string `json:"address" binding:"max=500"`
	SortOrder   *int   `json:"sort_order"`
}

// UpdateWarehouseRequest represents a partial warehouse update
type UpdateWarehouseRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	CountryCode *string `json:"country_code" binding:"omitempty,len=2"`
	City        *string `json:"city" binding:"omitempty,max=100"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// WarehouseListFilter represents filter options for the warehouse list
type WarehouseListFilter struct {
	Search      string `form:"search"`
	CountryCode string `form:"country_code"`
	IsActive    *bool  `form:"is_active"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	CountryCode string    `json:"country_code"`
	City        string    `json:"city"`
	Address     string    `json:"address"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// UpsertCountryRequest creates or updates a country
type UpsertCountryRequest struct {
	Code         string `json:"code" binding:"required,len=2"`
	Name         string `json:"name" binding:"required,min=1,max=100"`
	CurrencyCode string `json:"currency_code" binding:"required,len=3"`
}

// CountryResponse represents a country in API responses
type CountryResponse struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currency_code"`
}

// ToWarehouseResponse converts a domain warehouse to a response
func ToWarehouseResponse(w *warehouse.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:          w.ID,
		Code:        w.Code,
		Name:        w.Name,
		CountryCode: w.CountryCode,
		City:        w.City,
		Address:     w.Address,
		IsActive:    w.IsActive,
		SortOrder:   w.SortOrder,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
		Version:     w.Version,
	}
}

// ToCountryResponse converts a domain country to a response
func ToCountryResponse(c *warehouse.Country) CountryResponse {
	return CountryResponse{
		Code:         c.Code,
		Name:         c.Name,
		CurrencyCode: c.CurrencyCode,
	}
}
