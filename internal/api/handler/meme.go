package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/memeforge/internal/logger"
	"github.com/timmy/memeforge/internal/service"
)

// MemeHandler handles meme generation and output endpoints.
type MemeHandler struct {
	memeService  *service.MemeService
	downloadName string
}

// NewMemeHandler creates a new meme handler.
// Parameters:
//   - memeService: meme pipeline.
//   - downloadName: attachment file name for downloads.
// Returns:
//   - *MemeHandler: initialized handler.
func NewMemeHandler(memeService *service.MemeService, downloadName string) *MemeHandler {
	if downloadName == "" {
		downloadName = "ai_meme.png"
	}
	return &MemeHandler{
		memeService:  memeService,
		downloadName: downloadName,
	}
}

// GenerateRequest is the body of POST /api/v1/memes.
type GenerateRequest struct {
	Template string `json:"template"`
	Topic    string `json:"topic"`
}

// CreateMeme handles POST /api/v1/memes.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *MemeHandler) CreateMeme(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
			"kind":  "invalid_request",
		})
		return
	}
	if req.Template == "" {
		req.Template = h.memeService.DefaultTemplate()
	}

	ctx := c.Request.Context()
	result, err := h.memeService.Generate(ctx, req.Template, req.Topic)
	if err != nil && !rendered(result, err) {
		p := Describe(err)
		logger.CtxWarn(ctx, "Generation failed: kind=%s, err=%v", p.Kind, err)
		c.JSON(p.Status, gin.H{
			"error":      p.Message,
			"kind":       p.Kind,
			"request_id": logger.GetRequestID(ctx),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOutput handles GET /output and shows the latest meme inline.
func (h *MemeHandler) GetOutput(c *gin.Context) {
	h.writeOutput(c, false)
}

// DownloadOutput handles GET /output/download.
func (h *MemeHandler) DownloadOutput(c *gin.Context) {
	h.writeOutput(c, true)
}

func (h *MemeHandler) writeOutput(c *gin.Context, attachment bool) {
	rc, err := h.memeService.OpenOutput(c.Request.Context())
	if err != nil {
		p := Describe(err)
		c.JSON(p.Status, gin.H{"error": p.Message, "kind": p.Kind})
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		logger.CtxError(c.Request.Context(), "Failed to read output: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read output", "kind": "internal"})
		return
	}

	c.Header("Cache-Control", "no-store")
	if attachment {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.downloadName))
	}
	c.Data(http.StatusOK, "image/png", data)
}
