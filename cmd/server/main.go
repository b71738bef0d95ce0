package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/memeforge/internal/api"
	"github.com/timmy/memeforge/internal/api/middleware"
	"github.com/timmy/memeforge/internal/catalog"
	"github.com/timmy/memeforge/internal/config"
	"github.com/timmy/memeforge/internal/logger"
	"github.com/timmy/memeforge/internal/render"
	"github.com/timmy/memeforge/internal/service"
	"github.com/timmy/memeforge/internal/storage"
	"github.com/timmy/memeforge/internal/textgen"
)

func main() {
	appLogger := logger.NewFromEnv(nil)
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Template catalog; a missing or empty directory stops startup
	templates, err := catalog.Open(cfg.Templates.Dir)
	if err != nil {
		appLogger.WithError(err).Fatal("Template directory unusable")
	}
	appLogger.WithFields(logger.Fields{
		"dir":             cfg.Templates.Dir,
		logger.FieldCount: len(templates.Templates()),
	}).Info("Templates loaded")

	if cfg.Templates.Watch {
		go func() {
			if err := templates.Watch(ctx); err != nil {
				appLogger.WithError(err).Warn("Template watcher stopped")
			}
		}()
	}

	// Text-generation model, probed once and shared for the process lifetime
	loadCtx, loadCancel := context.WithTimeout(ctx, cfg.Model.StartupTimeout)
	model, err := textgen.Load(loadCtx, cfg.Model.TextgenConfig())
	loadCancel()
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load the model. Please check your internet connection")
	}

	// Output storage (local file by default; S3, R2 or MinIO optional)
	objectStorage, err := storage.NewStorage(cfg.Storage.Backend())
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize storage")
	}
	if err := objectStorage.EnsureBucket(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
	}

	renderer := render.New(cfg.Render.FontPath)
	captionService := service.NewCaptionService(model, &service.CaptionConfig{
		Timeout: cfg.Model.Timeout,
	})
	memeService := service.NewMemeService(templates, captionService, renderer, objectStorage, &service.MemeConfig{
		OutputKey: cfg.Output.Key,
	})

	router := api.SetupRouter(memeService, api.RouterConfig{
		Mode:         cfg.Server.Mode,
		DownloadName: cfg.Output.DownloadName,
		Logger:       appLogger,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port":            cfg.Server.Port,
			"mode":            cfg.Server.Mode,
			logger.FieldModel: model.Name(),
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
