package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nnhurricane156/phygen-portal/internal/session"
)

// HealthHandler reports liveness and the current session state.
type HealthHandler struct {
	controller *session.Controller
	startedAt  time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(controller *session.Controller) *HealthHandler {
	return &HealthHandler{controller: controller, startedAt: time.Now()}
}

// Health returns service status
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"uptimeSeconds": int(time.Since(h.startedAt).Seconds()),
		"session":       h.controller.CurrentState().String(),
	})
}
