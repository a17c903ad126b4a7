package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLabels(t *testing.T) {
	long := strings.Repeat("x", MaxLabelValueLength+10)

	pairs := sanitizeLabels(map[string]string{
		"Route-Name": "/api/v1/items",
		"method":     "GET",
		"user_id":    "42",
		"empty":      "",
		"!!!":        "dropped",
		"operation":  long,
	})

	assert.Equal(t, []string{
		"method", "GET",
		"operation", long[:MaxLabelValueLength],
		"route_name", "/api/v1/items",
	}, pairs)
	assert.Nil(t, sanitizeLabels(nil))
}

func TestHTTPRequestLabels(t *testing.T) {
	assert.Equal(t, map[string]string{"route": "/api/v1/orders", "method": "POST", "role": "admin"},
		HTTPRequestLabels("/api/v1/orders", "POST", "admin"))
	assert.Equal(t, map[string]string{"method": "GET"}, HTTPRequestLabels("", "GET", ""))
}

func TestWithProfilingLabels(t *testing.T) {
	called := false
	WithProfilingLabels(context.Background(), HTTPRequestLabels("/api/v1/cart", "GET", ""), func(ctx context.Context) {
		called = true
		route, ok := pprof.Label(ctx, "route")
		assert.True(t, ok)
		assert.Equal(t, "/api/v1/cart", route)
	})
	assert.True(t, called)

	called = false
	WithProfilingLabels(context.Background(), nil, func(ctx context.Context) {
		called = true
		_, ok := pprof.Label(ctx, "route")
		assert.False(t, ok)
	})
	assert.True(t, called)
}
