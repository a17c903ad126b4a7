package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// DatabaseChecker reports database reachability
type DatabaseChecker interface {
	Ping() error
}

// SystemHandler serves health and build information
type SystemHandler struct {
	BaseHandler
	db        DatabaseChecker
	name      string
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db DatabaseChecker, name, version string) *SystemHandler {
	return &SystemHandler{db: db, name: name, version: version, startTime: time.Now()}
}

// HealthResponse is the body of the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Health handles GET /health. An unreachable database makes it 503.
//
//	@Summary		Health check
//	@Description	An unreachable database makes it 503
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Failure		503	{object}	dto.Response
//	@Router			/health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success:   false,
			Data:      HealthResponse{Status: "unhealthy", Database: "unreachable"},
			Error:     &dto.ErrorInfo{Code: "DATABASE_UNAVAILABLE", Message: "Database is unreachable"},
			RequestID: getRequestID(c),
		})
		return
	}
	h.Success(c, HealthResponse{Status: "healthy", Database: "ok"})
}

// Info handles GET /api/v1/system/info
//
//	@Summary		Get system information
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Router			/system/info [get]
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}
