package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.Header("X-Api", "yes")
		c.Next()
	})

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "yes", w.Header().Get("X-Api"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("catalog", "/catalog")
		assert.Equal(t, "catalog", g.Name())
		assert.Equal(t, "/catalog", g.Prefix())
	})

	t.Run("all methods and subgroups", func(t *testing.T) {
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g := NewDomainGroup("test", "/test")
		g.GET("/a", ok).POST("/a", ok).PUT("/a", ok).PATCH("/a", ok).DELETE("/a", ok)
		g.Group("sub", "/sub").GET("/b", ok)
		assert.Equal(t, 6, g.RouteCount())

		engine := gin.New()
		g.RegisterRoutes(engine.Group("/api"))

		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(method, "/api/test/a", nil))
			assert.Equal(t, http.StatusOK, w.Code, method)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/test/sub/b", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("group middleware and nil skipping", func(t *testing.T) {
		g := NewDomainGroup("guarded", "/guarded").Use(nil, func(c *gin.Context) {
			c.AbortWithStatus(http.StatusTeapot)
		})
		g.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })

		engine := gin.New()
		g.RegisterRoutes(engine.Group(""))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
		assert.Equal(t, http.StatusTeapot, w.Code)
	})
}

type stubDB struct{}

func (stubDB) Ping() error { return nil }

// testAuth trusts the X-Test-Role header; requests without it are anonymous
func testAuth(c *gin.Context) {
	role := c.GetHeader("X-Test-Role")
	if role == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	claims := &auth.Claims{UserID: uuid.NewString(), Role: role}
	c.Set(middleware.JWTClaimsKey, claims)
	c.Set(middleware.JWTUserIDKey, claims.UserID)
	c.Set(middleware.JWTRoleKey, claims.Role)
	c.Next()
}

func newStorefrontEngine(t *testing.T) *gin.Engine {
	t.Helper()
	h := Handlers{
		Auth:       handler.NewAuthHandler(nil),
		Storefront: handler.NewStorefrontHandler(nil, nil, nil),
		Item:       handler.NewItemHandler(nil),
		Category:   handler.NewCategoryHandler(nil),
		Brand:      handler.NewBrandHandler(nil),
		Warehouse:  handler.NewWarehouseHandler(nil),
		Price:      handler.NewPriceHandler(nil),
		Currency:   handler.NewCurrencyHandler(nil),
		Cart:       handler.NewCartHandler(nil),
		Order:      handler.NewOrderHandler(nil),
		Payment:    handler.NewPaymentHandler(nil),
		Upload:     handler.NewUploadHandler(nil, 1<<20),
		Media:      handler.NewMediaHandler(nil),
		User:       handler.NewUserHandler(nil),
		System:     handler.NewSystemHandler(stubDB{}, "storefront", "test"),
	}
	g := Guards{
		Authenticated: testAuth,
		Admin:         middleware.RequireRole("admin"),
	}

	engine := gin.New()
	r := NewRouter(engine)
	for _, group := range StorefrontGroups(h, g) {
		r.Register(group)
	}
	r.Setup()
	return engine
}

func TestStorefrontGroups_Access(t *testing.T) {
	engine := newStorefrontEngine(t)

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		status int
	}{
		{"public system info", http.MethodGet, "/api/v1/system/info", "", http.StatusOK},
		{"cart needs login", http.MethodGet, "/api/v1/cart", "", http.StatusUnauthorized},
		{"orders need login", http.MethodGet, "/api/v1/orders", "", http.StatusUnauthorized},
		{"card payment needs login", http.MethodPost, "/api/v1/orders/x/payments/card", "", http.StatusUnauthorized},
		{"me needs login", http.MethodGet, "/api/v1/auth/me", "", http.StatusUnauthorized},
		{"admin needs login", http.MethodGet, "/api/v1/admin/items", "", http.StatusUnauthorized},
		{"customer is not admin", http.MethodGet, "/api/v1/admin/items", "customer", http.StatusForbidden},
		{"customer cannot upload", http.MethodPost, "/api/v1/admin/uploads", "customer", http.StatusForbidden},
		{"customer cannot move orders", http.MethodPut, "/api/v1/admin/orders/x/status", "customer", http.StatusForbidden},
		{"unknown route", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("X-Test-Role", tt.role)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestStorefrontGroups_Routes(t *testing.T) {
	engine := newStorefrontEngine(t)

	registered := map[string]bool{}
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/refresh",
		"POST /api/v1/auth/logout",
		"GET /api/v1/catalog/items/:slug",
		"GET /api/v1/currency/convert",
		"POST /api/v1/cart/items",
		"POST /api/v1/orders",
		"GET /api/v1/orders/:id/invoice",
		"GET /api/v1/orders/:id/payments",
		"POST /api/v1/orders/:id/payments/card",
		"POST /api/v1/payments/webhooks/stripe",
		"PUT /api/v1/admin/items/:id/details/:locale",
		"PUT /api/v1/admin/items/:id/prices/:warehouse_id",
		"POST /api/v1/admin/categories/:id/subcategories",
		"PUT /api/v1/admin/countries",
		"POST /api/v1/admin/uploads",
		"POST /api/v1/admin/payments/:id/refund",
		"PUT /api/v1/admin/currency/rates/:currency",
		"DELETE /api/v1/admin/media/*key",
	} {
		require.True(t, registered[want], "missing route %s", want)
	}
}
