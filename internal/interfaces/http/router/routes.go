package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers mounted by StorefrontGroups
type Handlers struct {
	Auth       *handler.AuthHandler
	Storefront *handler.StorefrontHandler
	Item       *handler.ItemHandler
	Category   *handler.CategoryHandler
	Brand      *handler.BrandHandler
	Warehouse  *handler.WarehouseHandler
	Price      *handler.PriceHandler
	Currency   *handler.CurrencyHandler
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
	Payment    *handler.PaymentHandler
	Upload     *handler.UploadHandler
	Media      *handler.MediaHandler
	User       *handler.UserHandler
	System     *handler.SystemHandler
}

// Guards are the access middlewares of the route groups
type Guards struct {
	// Authenticated rejects requests without a valid access token
	Authenticated gin.HandlerFunc
	// OptionalAuth reads a token when one is sent
	OptionalAuth gin.HandlerFunc
	// Admin runs after Authenticated and requires the admin role
	Admin gin.HandlerFunc
	// UploadBodyLimit replaces the default body limit on bulk uploads
	UploadBodyLimit gin.HandlerFunc
	// AuthRateLimit throttles credential endpoints; may be nil
	AuthRateLimit gin.HandlerFunc
}

// StorefrontGroups builds the public, customer and admin route groups
func StorefrontGroups(h Handlers, g Guards) []*DomainGroup {
	authLimit := []gin.HandlerFunc{}
	if g.AuthRateLimit != nil {
		authLimit = append(authLimit, g.AuthRateLimit)
	}

	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/register", append(authLimit, h.Auth.Register)...)
	auth.POST("/login", append(authLimit, h.Auth.Login)...)
	auth.POST("/refresh", append(authLimit, h.Auth.Refresh)...)
	session := auth.Group("session", "").Use(g.Authenticated)
	session.GET("/me", h.Auth.Me)
	session.POST("/logout", h.Auth.Logout)
	session.PUT("/password", h.Auth.ChangePassword)

	catalog := NewDomainGroup("catalog", "/catalog").Use(g.OptionalAuth)
	catalog.GET("/items", h.Storefront.ListItems)
	catalog.GET("/items/:slug", h.Storefront.GetItem)
	catalog.GET("/categories", h.Storefront.ListCategories)
	catalog.GET("/brands", h.Storefront.ListBrands)

	currency := NewDomainGroup("currency", "/currency")
	currency.GET("/rates", h.Currency.ListRates)
	currency.GET("/convert", h.Currency.Convert)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.Info)

	cart := NewDomainGroup("cart", "/cart").Use(g.Authenticated)
	cart.GET("", h.Cart.Get)
	cart.DELETE("", h.Cart.Clear)
	cart.POST("/items", h.Cart.AddItem)
	cart.PUT("/items/:line_id", h.Cart.UpdateQuantity)
	cart.DELETE("/items/:line_id", h.Cart.RemoveItem)

	orders := NewDomainGroup("orders", "/orders").Use(g.Authenticated)
	orders.POST("", h.Order.Checkout)
	orders.GET("", h.Order.ListMine)
	orders.GET("/:id", h.Order.Get)
	orders.POST("/:id/cancel", h.Order.Cancel)
	orders.GET("/:id/invoice", h.Order.Invoice)
	orders.GET("/:id/payments", h.Payment.ListForOrder)
	orders.POST("/:id/payments/card", h.Payment.StartCard)

	// signed by the gateway, not by a user token
	payments := NewDomainGroup("payments", "/payments")
	payments.POST("/webhooks/stripe", h.Payment.StripeWebhook)

	return []*DomainGroup{auth, catalog, currency, system, cart, orders, payments, adminGroup(h, g)}
}

func adminGroup(h Handlers, g Guards) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").Use(g.Authenticated, g.Admin)

	admin.GET("/items", h.Item.List)
	admin.POST("/items", h.Item.Create)
	admin.GET("/items/:id", h.Item.GetByID)
	admin.PUT("/items/:id", h.Item.Update)
	admin.DELETE("/items/:id", h.Item.Delete)
	admin.PUT("/items/:id/images", h.Item.SetImages)
	admin.GET("/items/:id/details", h.Item.ListDetails)
	admin.PUT("/items/:id/details/:locale", h.Item.UpsertDetails)
	admin.DELETE("/items/:id/details/:locale", h.Item.DeleteDetails)
	admin.GET("/items/:id/prices", h.Price.List)
	admin.PUT("/items/:id/prices/:warehouse_id", h.Price.Set)
	admin.GET("/items/:id/price-history", h.Price.History)

	admin.GET("/categories", h.Category.List)
	admin.POST("/categories", h.Category.Create)
	admin.GET("/categories/:id", h.Category.GetByID)
	admin.PUT("/categories/:id", h.Category.Update)
	admin.DELETE("/categories/:id", h.Category.Delete)
	admin.POST("/categories/:id/subcategories", h.Category.CreateSubcategory)
	admin.PUT("/subcategories/:id", h.Category.UpdateSubcategory)
	admin.DELETE("/subcategories/:id", h.Category.DeleteSubcategory)

	admin.GET("/brands", h.Brand.List)
	admin.POST("/brands", h.Brand.Create)
	admin.GET("/brands/:id", h.Brand.GetByID)
	admin.PUT("/brands/:id", h.Brand.Update)
	admin.DELETE("/brands/:id", h.Brand.Delete)

	admin.GET("/warehouses", h.Warehouse.List)
	admin.POST("/warehouses", h.Warehouse.Create)
	admin.GET("/warehouses/:id", h.Warehouse.GetByID)
	admin.PUT("/warehouses/:id", h.Warehouse.Update)
	admin.DELETE("/warehouses/:id", h.Warehouse.Delete)
	admin.GET("/countries", h.Warehouse.ListCountries)
	admin.PUT("/countries", h.Warehouse.UpsertCountry)

	uploads := []gin.HandlerFunc{}
	if g.UploadBodyLimit != nil {
		uploads = append(uploads, g.UploadBodyLimit)
	}
	admin.POST("/uploads", append(uploads, h.Upload.Upload)...)
	admin.GET("/uploads", h.Upload.List)
	admin.GET("/uploads/:id", h.Upload.Get)

	admin.GET("/users", h.User.List)
	admin.GET("/users/:id", h.User.GetByID)
	admin.PUT("/users/:id/role", h.User.SetRole)
	admin.PUT("/users/:id/active", h.User.SetActive)

	admin.GET("/orders", h.Order.ListAll)
	admin.PUT("/orders/:id/status", h.Order.UpdateStatus)
	admin.POST("/payments/:id/complete", h.Payment.Complete)
	admin.POST("/payments/:id/fail", h.Payment.Fail)
	admin.POST("/payments/:id/refund", h.Payment.Refund)

	admin.PUT("/currency/rates/:currency", h.Currency.UpsertRate)

	admin.POST("/media/upload-url", h.Media.CreateUploadURL)
	admin.GET("/media", h.Media.List)
	admin.DELETE("/media/*key", h.Media.Delete)

	return admin
}
