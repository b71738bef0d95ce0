package api

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/memeforge/internal/api/handler"
	"github.com/timmy/memeforge/internal/api/middleware"
	"github.com/timmy/memeforge/internal/logger"
	"github.com/timmy/memeforge/internal/service"
)

// RouterConfig holds settings for the HTTP shell.
type RouterConfig struct {
	Mode         string // debug, release, test
	CORS         middleware.CORSConfig
	DownloadName string
	Logger       *logger.Logger
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(memeService *service.MemeService, cfg RouterConfig) *gin.Engine {
	// Set Gin mode
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORS))

	r.SetHTMLTemplate(handler.PageTemplate())

	// Create handlers
	healthHandler := handler.NewHealthHandler(memeService)
	pageHandler := handler.NewPageHandler(memeService, cfg.DownloadName)
	templateHandler := handler.NewTemplateHandler(memeService)
	memeHandler := handler.NewMemeHandler(memeService, cfg.DownloadName)

	// Health check
	r.GET("/health", healthHandler.Health)

	// HTML shell
	r.GET("/", pageHandler.Index)
	r.POST("/generate", pageHandler.Generate)
	r.GET("/templates/:name", templateHandler.GetTemplate)
	r.GET("/output", memeHandler.GetOutput)
	r.GET("/output/download", memeHandler.DownloadOutput)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/templates", templateHandler.ListTemplates)
		v1.POST("/memes", memeHandler.CreateMeme)
	}

	return r
}
