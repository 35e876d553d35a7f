package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"evidencelens/internal/port"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db  *sqlx.DB
	gen port.ContentGenerator
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sqlx.DB, gen port.ContentGenerator) *HealthHandler {
	return &HealthHandler{db: db, gen: gen}
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

// Readiness handles GET /readyz. A missing model credential is reported but
// does not fail the probe; stored analyses remain readable without it.
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not reachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "gemini": h.geminiState()})
}

func (h *HealthHandler) geminiState() string {
	if h.gen != nil && h.gen.HasCredential() {
		return "configured"
	}
	return "missing_credential"
}
