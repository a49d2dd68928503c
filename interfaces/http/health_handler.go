package http

import (
	"context"
	"net/http"
	"time"

	"lustroom-portal/domain/repository"
	"lustroom-portal/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

const healthProbeSession = "healthz"

type IHealthHandler interface {
	Healthz(c *gin.Context)
	Readyz(c *gin.Context)
}

type HealthHandler struct {
	store repository.ISessionStore
}

func NewHealthHandler(store repository.ISessionStore) IHealthHandler {
	return &HealthHandler{store: store}
}

// Healthz returns OK for health checks
func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz reports whether the session store answers.
func (h *HealthHandler) Readyz(ctx *gin.Context) {
	c, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()
	if _, err := h.store.Load(c, healthProbeSession); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Session store not ready")
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
