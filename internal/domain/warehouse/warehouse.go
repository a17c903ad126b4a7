package warehouse

import (
	"regexp"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

var (
	codePattern    = regexp.MustCompile(`^[A-Z0-9_-]+$`)
	countryPattern = regexp.MustCompile(`^[A-Z]{2}$`)
)

// Country is a country warehouses can be located in, with its local currency
type Country struct {
	shared.BaseEntity
	Code         string `gorm:"type:varchar(2);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(100);not null"`
	CurrencyCode string `gorm:"type:varchar(3);not null"`
}

// TableName returns the table name for GORM
func (Country) TableName() string {
	return "warehouse_countries"
}

// NewCountry creates a country from an ISO 3166-1 alpha-2 code
func NewCountry(code, name, currency string) (*Country, error) {
	c := &Country{BaseEntity: shared.NewBaseEntity()}
	code, err := NormalizeCountryCode(code)
	if err != nil {
		return nil, err
	}
	c.Code = code
	if err := c.Update(name, currency); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the name and currency
func (c *Country) Update(name, currency string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Country name cannot be empty")
	}
	cur, err := valueobject.ParseCurrency(currency)
	if err != nil {
		return shared.NewDomainError("INVALID_CURRENCY", err.Error())
	}
	c.Name = name
	c.CurrencyCode = string(cur)
	c.Touch()
	return nil
}

// NormalizeCountryCode upper-cases and validates a two-letter country code
func NormalizeCountryCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !countryPattern.MatchString(code) {
		return "", shared.NewDomainError("INVALID_COUNTRY", "Country code must be two letters (ISO 3166-1 alpha-2)")
	}
	return code, nil
}

// Warehouse is a stock location tied to a country
type Warehouse struct {
	shared.BaseAggregateRoot
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string `gorm:"type:varchar(200);not null"`
	CountryCode string `gorm:"type:varchar(2);not null;index"`
	City        string `gorm:"type:varchar(100)"`
	Address     string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null"`
	SortOrder   int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates an active warehouse
func NewWarehouse(code, name, countryCode string) (*Warehouse, error) {
	if err := validateWarehouseCode(code); err != nil {
		return nil, err
	}
	if err := validateWarehouseName(name); err != nil {
		return nil, err
	}
	country, err := NormalizeCountryCode(countryCode)
	if err != nil {
		return nil, err
	}

	return &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		CountryCode:       country,
		IsActive:          true,
	}, nil
}

// Update updates the warehouse's descriptive fields
func (w *Warehouse) Update(name, countryCode, city, address string, sortOrder int) error {
	if err := validateWarehouseName(name); err != nil {
		return err
	}
	country, err := NormalizeCountryCode(countryCode)
	if err != nil {
		return err
	}
	w.Name = strings.TrimSpace(name)
	w.CountryCode = country
	w.City = strings.TrimSpace(city)
	w.Address = strings.TrimSpace(address)
	w.SortOrder = sortOrder
	w.IncrementVersion()
	return nil
}

// Enable marks the warehouse as active
func (w *Warehouse) Enable() {
	if w.IsActive {
		return
	}
	w.IsActive = true
	w.IncrementVersion()
}

// Disable marks the warehouse as inactive; its prices stop being offered
func (w *Warehouse) Disable() {
	if !w.IsActive {
		return
	}
	w.IsActive = false
	w.IncrementVersion()
}

func validateWarehouseCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot exceed 50 characters")
	}
	if !codePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateWarehouseName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	if len([]rune(name)) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot exceed 200 characters")
	}
	return nil
}
