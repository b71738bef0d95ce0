package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/memeforge/internal/service"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	memeService *service.MemeService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(memeService *service.MemeService) *HealthHandler {
	return &HealthHandler{memeService: memeService}
}

// Health returns the health status of the service along with the catalog
// size and the latest generation, if any.
func (h *HealthHandler) Health(c *gin.Context) {
	resp := gin.H{
		"status":    "ok",
		"templates": len(h.memeService.Templates()),
	}
	if last := h.memeService.LastResult(); last != nil {
		resp["last_generation"] = gin.H{
			"id":         last.ID,
			"template":   last.Template,
			"created_at": last.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, resp)
}
