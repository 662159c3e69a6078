package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/dto"
)

// registerHomeRoutes sets up the unauthenticated probes.
func registerHomeRoutes(api *gin.RouterGroup, health portssvc.HealthSvc) {
	api.GET("/test", getTest)
	api.GET("/health", getHealth(health))
}

// getTest godoc
// @Summary Liveness message
// @Tags ops
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /test [get]
func getTest(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "ERP backend is running"})
}

// getHealth godoc
// @Summary Dependency health
// @Description Pings the database and, when configured, the shared cache.
// @Tags ops
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func getHealth(health portssvc.HealthSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := health.Check(c.Request.Context())
		resp := dto.HealthResponse{
			Status:    "healthy",
			Database:  status.Database,
			Cache:     status.Cache,
			Timestamp: status.CheckedAt.Format(time.RFC3339),
		}
		code := http.StatusOK
		if !status.Healthy {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	}
}
