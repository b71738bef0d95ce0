package handler

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/service"
)

//go:embed web/*.html
var pageFS embed.FS

// PageTemplate parses the embedded HTML page. The router installs it with
// gin.Engine.SetHTMLTemplate.
func PageTemplate() *template.Template {
	return template.Must(template.ParseFS(pageFS, "web/*.html"))
}

// pageView is the data rendered into index.html.
type pageView struct {
	Templates    []string
	Selected     string
	Topic        string
	Banner       *Problem
	Result       *domain.GenerationResult
	DownloadName string
}

// PageHandler serves the HTML form.
type PageHandler struct {
	memeService  *service.MemeService
	downloadName string
}

// NewPageHandler creates a new page handler.
// Parameters:
//   - memeService: meme pipeline.
//   - downloadName: file name offered by the download link.
// Returns:
//   - *PageHandler: initialized handler.
func NewPageHandler(memeService *service.MemeService, downloadName string) *PageHandler {
	return &PageHandler{memeService: memeService, downloadName: downloadName}
}

// Index handles GET /. The selector starts on ?template= when it names a known
// template and on the first template otherwise.
func (h *PageHandler) Index(c *gin.Context) {
	view := h.view(c.Query("template"), "")
	view.Banner = &Problem{Level: LevelInfo, Message: IdleMessage}
	c.HTML(http.StatusOK, "index.html", view)
}

// Generate handles POST /generate and re-renders the page with the outcome.
func (h *PageHandler) Generate(c *gin.Context) {
	templateName := c.PostForm("template")
	topic := c.PostForm("topic")
	view := h.view(templateName, topic)
	if templateName == "" {
		templateName = view.Selected
	}

	result, err := h.memeService.Generate(c.Request.Context(), templateName, topic)
	if err != nil {
		p := Describe(err)
		view.Banner = &p
		if rendered(result, err) {
			view.Result = result
		}
		c.HTML(p.Status, "index.html", view)
		return
	}

	view.Result = result
	c.HTML(http.StatusOK, "index.html", view)
}

func (h *PageHandler) view(selected, topic string) *pageView {
	if _, err := h.memeService.Template(selected); err != nil {
		selected = h.memeService.DefaultTemplate()
	}
	return &pageView{
		Templates:    h.memeService.Templates(),
		Selected:     selected,
		Topic:        topic,
		DownloadName: h.downloadName,
	}
}
