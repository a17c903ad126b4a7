package persistence

import (
	"github.com/storefront/backend/internal/domain/bulk"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/warehouse"
	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order
func Models() []any {
	return []any{
		&catalog.Brand{},
		&catalog.Category{},
		&catalog.CategoryTranslation{},
		&catalog.Subcategory{},
		&catalog.SubcategoryTranslation{},
		&catalog.Item{},
		&catalog.ItemDetails{},
		&warehouse.Country{},
		&warehouse.Warehouse{},
		&pricing.ItemPrice{},
		&pricing.ItemPriceHistory{},
		&pricing.ExchangeRate{},
		&identity.User{},
		&identity.Session{},
		&identity.Account{},
		&cart.Cart{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
		&payment.Payment{},
		&bulk.Upload{},
	}
}

// AutoMigrate creates or updates the schema for Models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
