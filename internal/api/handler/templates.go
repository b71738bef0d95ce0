package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/memeforge/internal/service"
)

// TemplateHandler serves the template catalog.
type TemplateHandler struct {
	memeService *service.MemeService
}

// NewTemplateHandler creates a new template handler.
func NewTemplateHandler(memeService *service.MemeService) *TemplateHandler {
	return &TemplateHandler{memeService: memeService}
}

// ListTemplates handles GET /api/v1/templates.
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"templates": h.memeService.Templates(),
		"default":   h.memeService.DefaultTemplate(),
	})
}

// GetTemplate handles GET /templates/:name and serves the raw image.
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	tmpl, err := h.memeService.Template(c.Param("name"))
	if err != nil {
		p := Describe(err)
		c.JSON(p.Status, gin.H{"error": p.Message, "kind": p.Kind})
		return
	}
	c.File(tmpl.Path)
}
