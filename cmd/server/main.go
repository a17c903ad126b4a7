package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	bulkuploadapp "github.com/storefront/backend/internal/application/bulkupload"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	mediaapp "github.com/storefront/backend/internal/application/media"
	orderapp "github.com/storefront/backend/internal/application/order"
	paymentapp "github.com/storefront/backend/internal/application/payment"
	pricingapp "github.com/storefront/backend/internal/application/pricing"
	warehouseapp "github.com/storefront/backend/internal/application/warehouse"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	paymentinfra "github.com/storefront/backend/internal/infrastructure/payment"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/printing"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Storefront Backend API
//	@version		1.0
//	@description	Storefront catalog, cart, checkout and back-office API
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// Telemetry first so the OTLP log bridge can be teed into the logger
	providers, err := telemetry.Setup(context.Background(), cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = logger.Tee(log, providers.LogCore(zapcore.InfoLevel))
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	profiler, err := telemetry.NewProfiler(cfg.Profiling, cfg.App.Name, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		providers.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	dbInstr, err := telemetry.InstrumentDB(db.DB, providers.Meter(), telemetry.DBConfig{
		Tracing:            cfg.Telemetry.DBTraceEnabled,
		FullSQL:            cfg.App.Env == "development",
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}

	// SQLite is the local/test setup; postgres is migrated by cmd/migrate
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}

	stores, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).Create()
	if err != nil {
		log.Fatal("Failed to initialize cache stores", zap.Error(err))
	}

	storeMetrics, err := telemetry.NewStoreMetrics(providers.Meter())
	if err != nil {
		log.Fatal("Failed to create store metrics", zap.Error(err))
	}

	// Repositories
	scope := persistence.NewGormTransactionScope(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	sessionRepo := persistence.NewGormSessionRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	detailsRepo := persistence.NewGormItemDetailsRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	subcategoryRepo := persistence.NewGormSubcategoryRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	countryRepo := persistence.NewGormCountryRepository(db.DB)
	priceRepo := persistence.NewGormItemPriceRepository(db.DB)
	historyRepo := persistence.NewGormPriceHistoryRepository(db.DB)
	rateRepo := persistence.NewGormExchangeRateRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	uploadRepo := persistence.NewGormUploadRepository(db.DB)

	// Token revocation shares the redis client with the other stores
	var blacklist auth.TokenBlacklist
	if stores.Client != nil {
		blacklist = auth.NewRedisTokenBlacklist(stores.Client)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Object storage for the image library
	var objects mediaapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Warn("Image bucket is not ready", zap.String("bucket", s3Storage.GetBucket()), zap.Error(err))
		}
		cancel()
		objects = s3Storage
	} else {
		objects = storage.NewStubObjectStorage(cfg.Storage.PublicURL)
		log.Info("Object storage disabled, using stub storage")
	}

	// Invoice PDFs need Chrome; with printing disabled the endpoint answers 503
	var invoices orderapp.InvoiceRenderer
	var pdfRenderer *printing.ChromedpRenderer
	if cfg.Printing.Enabled {
		pdfRenderer = printing.NewChromedpRenderer(printing.ChromedpConfigFrom(cfg.Printing, log))
		invoices = printing.NewInvoiceRenderer(printing.NewTemplateEngine(), pdfRenderer, cfg.App.Name, log)
	} else {
		log.Info("Invoice rendering disabled")
	}

	// Application services
	locales := catalog.NewLocaleMatcher(cfg.App.SupportedLocales)
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, sessionRepo, accountRepo, jwtService, blacklist,
		identityapp.AuthServiceConfig{SessionTTL: cfg.JWT.RefreshTokenExpiration}, log)
	userService := identityapp.NewUserService(userRepo, sessionRepo, blacklist, cfg.JWT.AccessTokenExpiration, log)

	currencyService, err := pricingapp.NewCurrencyService(rateRepo, stores.Rates, pricingapp.CurrencyConfig{
		Base:     cfg.Currency.Base,
		Rates:    cfg.Currency.Rates,
		CacheTTL: cfg.Currency.CacheTTL,
	}, log)
	if err != nil {
		log.Fatal("Invalid currency configuration", zap.Error(err))
	}
	priceService := pricingapp.NewPriceService(scope, priceRepo, historyRepo, itemRepo, warehouseRepo, cfg.Currency.Base, log)

	itemService := catalogapp.NewItemService(scope, itemRepo, detailsRepo, categoryRepo, subcategoryRepo, brandRepo, locales)
	categoryService := catalogapp.NewCategoryService(categoryRepo, subcategoryRepo, itemRepo, locales)
	brandService := catalogapp.NewBrandService(brandRepo, itemRepo)
	storefrontService := catalogapp.NewStorefrontService(itemRepo, categoryRepo, subcategoryRepo, brandRepo,
		priceRepo, currencyService, locales, cfg.App.DefaultCountry, log)
	warehouseService := warehouseapp.NewWarehouseService(warehouseRepo, countryRepo, priceRepo)

	cartService := cartapp.NewCartService(cartRepo, itemRepo, priceRepo, currencyService, locales, log)
	orderService := orderapp.NewOrderService(scope, orderRepo, paymentRepo, currencyService, locales,
		stores.Idempotency, invoices, storeMetrics, orderapp.Config{}, log)
	// Card payments settle through Stripe webhooks when configured, otherwise by an admin
	var gateway paymentapp.Gateway
	if cfg.Payments.StripeEnabled {
		stripeGateway, err := paymentinfra.NewStripeGateway(paymentinfra.StripeConfigFrom(cfg.Payments), log)
		if err != nil {
			log.Fatal("Failed to initialize payment gateway", zap.Error(err))
		}
		gateway = stripeGateway
	}
	paymentService := paymentapp.NewPaymentService(scope, orderRepo, paymentRepo, gateway, log)
	orderService.SetFundsReleaser(paymentService)
	mediaService := mediaapp.NewMediaService(objects, cfg.Storage.PresignExpiry, log)
	uploadService := bulkuploadapp.NewService(scope, warehouseRepo, uploadRepo, locales, storeMetrics,
		bulkuploadapp.Config{BaseCurrency: cfg.Currency.Base}, log)

	// HTTP handlers
	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Storefront: handler.NewStorefrontHandler(storefrontService, categoryService, brandService),
		Item:       handler.NewItemHandler(itemService),
		Category:   handler.NewCategoryHandler(categoryService),
		Brand:      handler.NewBrandHandler(brandService),
		Warehouse:  handler.NewWarehouseHandler(warehouseService),
		Price:      handler.NewPriceHandler(priceService),
		Currency:   handler.NewCurrencyHandler(currencyService),
		Cart:       handler.NewCartHandler(cartService),
		Order:      handler.NewOrderHandler(orderService),
		Payment:    handler.NewPaymentHandler(paymentService),
		Upload:     handler.NewUploadHandler(uploadService, cfg.HTTP.MaxUploadSize),
		Media:      handler.NewMediaHandler(mediaService),
		User:       handler.NewUserHandler(userService),
		System:     handler.NewSystemHandler(db, cfg.App.Name, version),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(providers.Meter())
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	// Middleware order:
	// request id, recovery, access log, tracing, security headers, CORS,
	// body limit, metrics, profiling labels
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if providers.TracingEnabled() {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
		engine.Use(middleware.SpanEnricher())
	}
	securityConfig := middleware.DefaultSecurityConfig()
	securityConfig.HSTSEnabled = cfg.App.Env == "production"
	engine.Use(middleware.SecureWithConfig(securityConfig))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(httpMetrics)
	if profiler.IsEnabled() {
		engine.Use(middleware.Profiling("/health"))
	}

	engine.GET("/health", handlers.System.Health)

	// Uploads get their own, larger limit instead of the API default
	bodyLimit := middleware.BodyLimit(cfg.HTTP.MaxBodySize)
	uploadLimit := middleware.BodyLimit(cfg.HTTP.MaxUploadSize)
	skipDefaultLimit := func(c *gin.Context) {
		if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/admin/uploads" {
			c.Next()
			return
		}
		bodyLimit(c)
	}

	guards := router.Guards{
		Authenticated: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			Validator: authService,
			Logger:    log,
		}),
		OptionalAuth:    middleware.OptionalJWTAuthMiddleware(authService),
		Admin:           middleware.RequireRole("admin"),
		UploadBodyLimit: uploadLimit,
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		guards.AuthRateLimit = middleware.RateLimit(rateLimiter)
		log.Info("Rate limiting enabled on auth endpoints",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1")).Use(skipDefaultLimit)
	for _, group := range router.StorefrontGroups(handlers, guards) {
		r.Register(group)
	}
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if rateLimiter != nil {
		rateLimiter.Stop()
	}
	if pdfRenderer != nil {
		if err := pdfRenderer.Close(); err != nil {
			log.Warn("Error closing PDF renderer", zap.Error(err))
		}
	}
	if err := stores.Close(); err != nil {
		log.Warn("Error closing cache stores", zap.Error(err))
	}
	if err := dbInstr.Stop(); err != nil {
		log.Warn("Error stopping database instrumentation", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	if err := providers.Shutdown(ctx); err != nil {
		log.Warn("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
