package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/getmentor/supercoach-admin/internal/models"
	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 3 * time.Second

// HealthHandler reports the dashboard and platform health
type HealthHandler struct {
	platformHealth func(ctx context.Context) (*models.HealthStatus, error)
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(platformHealth func(ctx context.Context) (*models.HealthStatus, error)) *HealthHandler {
	return &HealthHandler{
		platformHealth: platformHealth,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	// The dashboard is only useful while the platform API answers
	status, err := h.platformHealth(ctx)
	if err != nil {
		attachError(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "platform API unreachable",
		})
		return
	}

	platform := "ok"
	if status != nil && status.Status != "" {
		platform = status.Status
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"platform": platform,
	})
}
