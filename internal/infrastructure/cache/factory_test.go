package cache

import (
	"testing"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStoreFactory_Disabled(t *testing.T) {
	stores, err := NewStoreFactory(config.RedisConfig{Enabled: false}).Create()
	require.NoError(t, err)
	defer stores.Close()

	assert.Nil(t, stores.Client)
	assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Idempotency)
	assert.IsType(t, &InMemoryRateCache{}, stores.Rates)
}

func TestStoreFactory_UnreachableFallsBack(t *testing.T) {
	cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	stores, err := NewStoreFactory(cfg, WithLogger(zaptest.NewLogger(t))).Create()
	require.NoError(t, err)
	defer stores.Close()
	assert.Nil(t, stores.Client)

	_, err = NewStoreFactory(cfg, WithInMemoryFallback(false)).Create()
	assert.Error(t, err)
}
