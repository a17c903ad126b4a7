package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	apppricing "github.com/storefront/backend/internal/application/pricing"
	"go.uber.org/zap"
)

const ratesKey = "storefront:currency:rates"

// RedisRateCache keeps the merged exchange-rate table in redis so every
// instance sees admin overrides as soon as the key is invalidated.
type RedisRateCache struct {
	client redis.UniversalClient
	key    string
	logger *zap.Logger
}

// NewRedisRateCache creates a rate cache on a shared client
func NewRedisRateCache(client redis.UniversalClient, logger *zap.Logger) *RedisRateCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisRateCache{client: client, key: ratesKey, logger: logger}
}

// GetRates returns the cached table, or nil on a miss
func (c *RedisRateCache) GetRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rates from cache: %w", err)
	}

	var rates map[string]decimal.Decimal
	if err := json.Unmarshal(data, &rates); err != nil {
		c.logger.Warn("Dropping corrupted rate cache entry", zap.Error(err))
		_ = c.client.Del(ctx, c.key)
		return nil, nil
	}
	return rates, nil
}

// SetRates stores the table for ttl
func (c *RedisRateCache) SetRates(ctx context.Context, rates map[string]decimal.Decimal, ttl time.Duration) error {
	data, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache rates: %w", err)
	}
	return nil
}

// InvalidateRates drops the cached table
func (c *RedisRateCache) InvalidateRates(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate rates: %w", err)
	}
	return nil
}

// InMemoryRateCache is the single-instance fallback for RedisRateCache
type InMemoryRateCache struct {
	mu        sync.RWMutex
	rates     map[string]decimal.Decimal
	expiresAt time.Time
	now       func() time.Time
}

// NewInMemoryRateCache creates an empty in-memory rate cache
func NewInMemoryRateCache() *InMemoryRateCache {
	return &InMemoryRateCache{now: time.Now}
}

// GetRates returns a copy of the cached table, or nil when missing or expired
func (c *InMemoryRateCache) GetRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.rates == nil || c.now().After(c.expiresAt) {
		return nil, nil
	}
	out := make(map[string]decimal.Decimal, len(c.rates))
	for k, v := range c.rates {
		out[k] = v
	}
	return out, nil
}

// SetRates stores a copy of the table for ttl
func (c *InMemoryRateCache) SetRates(ctx context.Context, rates map[string]decimal.Decimal, ttl time.Duration) error {
	copied := make(map[string]decimal.Decimal, len(rates))
	for k, v := range rates {
		copied[k] = v
	}
	c.mu.Lock()
	c.rates = copied
	c.expiresAt = c.now().Add(ttl)
	c.mu.Unlock()
	return nil
}

// InvalidateRates drops the cached table
func (c *InMemoryRateCache) InvalidateRates(ctx context.Context) error {
	c.mu.Lock()
	c.rates = nil
	c.mu.Unlock()
	return nil
}

var (
	_ apppricing.RateCache = (*RedisRateCache)(nil)
	_ apppricing.RateCache = (*InMemoryRateCache)(nil)
)
