package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler reports service and store health
type HealthHandler struct {
	store  HealthChecker
	logger *logrus.Logger
}

// NewHealthHandler creates a health handler; store may be nil for in-process stores
func NewHealthHandler(store HealthChecker, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// Health responds 200 when the store is reachable and 503 otherwise
func (h *HealthHandler) Health(c *gin.Context) {
	if h.store != nil {
		if err := h.store.Health(c.Request.Context()); err != nil {
			h.logger.WithError(err).Error("ヘルスチェックに失敗")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"timestamp": time.Now().Format(time.RFC3339),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
