package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfiling_AttachesLabels(t *testing.T) {
	labels := map[string]string{}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTRoleKey, "customer")
		c.Next()
	})
	router.Use(Profiling("/health"))
	router.GET("/api/v1/cart", func(c *gin.Context) {
		pprof.ForLabels(c.Request.Context(), func(key, value string) bool {
			labels[key] = value
			return true
		})
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	assert.Equal(t, "/api/v1/cart", labels["route"])
	assert.Equal(t, http.MethodGet, labels["method"])
	assert.Equal(t, "customer", labels["role"])
}

func TestProfiling_SkipPaths(t *testing.T) {
	var labelled bool
	router := gin.New()
	router.Use(Profiling("/health"))
	router.GET("/health", func(c *gin.Context) {
		pprof.ForLabels(c.Request.Context(), func(string, string) bool {
			labelled = true
			return false
		})
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.False(t, labelled)
}
