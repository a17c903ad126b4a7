package cache

import (
	"github.com/redis/go-redis/v9"
	apppricing "github.com/storefront/backend/internal/application/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Stores bundles the cache-backed components the API needs
type Stores struct {
	// Client is nil when redis is disabled or unreachable
	Client      *redis.Client
	Idempotency shared.IdempotencyStore
	Rates       apppricing.RateCache
}

// Close releases the redis connection and background workers
func (s *Stores) Close() error {
	_ = s.Idempotency.Close()
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}

// StoreFactory creates cache stores based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// InMemory returns process-local stores
func (f *StoreFactory) InMemory() *Stores {
	return &Stores{
		Idempotency: NewInMemoryIdempotencyStore(),
		Rates:       NewInMemoryRateCache(),
	}
}

// Create connects to redis when enabled and falls back to in-memory stores
// when it is disabled, or unreachable and fallback is allowed
func (f *StoreFactory) Create() (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory caches")
		return f.InMemory(), nil
	}

	client, err := NewRedisClient(f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis caches", zap.String("addr", f.redisConfig.Addr()))
		return &Stores{
			Client:      client,
			Idempotency: NewRedisIdempotencyStore(client, ""),
			Rates:       NewRedisRateCache(client, f.logger),
		}, nil
	}

	if !f.allowInMemoryFallback {
		return nil, err
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory caches. "+
		"Checkout keys and rate tables will not be shared between instances.",
		zap.Error(err),
	)
	return f.InMemory(), nil
}
