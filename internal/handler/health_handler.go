package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"declarant/internal/parser"
	"declarant/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	oracle   port.ExtractionOracle
	provider string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(oracle port.ExtractionOracle, provider string) *HealthHandler {
	return &HealthHandler{oracle: oracle, provider: provider}
}

// Liveness handles GET /healthz
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
// @Summary Readiness probe
// @Description Reports whether the extraction service is configured.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if !parser.IsConfigured(h.oracle) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unavailable",
			"provider": h.provider,
			"error":    "extraction service credential not configured",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "provider": h.provider})
}
