package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/timmy/memeforge/internal/catalog"
	"github.com/timmy/memeforge/internal/config"
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/logger"
	"github.com/timmy/memeforge/internal/render"
	"github.com/timmy/memeforge/internal/service"
	"github.com/timmy/memeforge/internal/storage"
	"github.com/timmy/memeforge/internal/textgen"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "text",
		Output:      os.Stderr,
		ServiceName: "memegen",
	})
	logger.SetDefaultLogger(appLogger)

	configPath := flag.String("config", "", "Path to config file")
	templateName := flag.String("template", "", "Template file name (default: first in the catalog)")
	topic := flag.String("topic", "", "Topic for the meme caption")
	out := flag.String("out", "", "Write the meme to this path instead of the configured output")
	list := flag.Bool("list", false, "List templates and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	templates, err := catalog.Open(cfg.Templates.Dir)
	if err != nil {
		appLogger.WithError(err).Fatal("Template directory unusable")
	}

	if *list {
		for _, name := range templates.Templates() {
			fmt.Println(name)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	loadCtx, loadCancel := context.WithTimeout(ctx, cfg.Model.StartupTimeout)
	model, err := textgen.Load(loadCtx, cfg.Model.TextgenConfig())
	loadCancel()
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load the model")
	}

	outputKey := cfg.Output.Key
	var objectStorage storage.ObjectStorage
	if *out != "" {
		objectStorage = storage.NewLocalStorage(filepath.Dir(*out))
		outputKey = filepath.Base(*out)
	} else {
		objectStorage, err = storage.NewStorage(cfg.Storage.Backend())
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize storage")
		}
	}
	if err := objectStorage.EnsureBucket(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
	}

	memeService := service.NewMemeService(
		templates,
		service.NewCaptionService(model, &service.CaptionConfig{Timeout: cfg.Model.Timeout}),
		render.New(cfg.Render.FontPath),
		objectStorage,
		&service.MemeConfig{OutputKey: outputKey},
	)

	name := *templateName
	if name == "" {
		name = templates.Default()
	}

	result, err := memeService.Generate(ctx, name, *topic)
	if err != nil {
		if !errors.Is(err, domain.ErrEmptyTopic) {
			appLogger.WithError(err).Fatal("Generation failed")
		}
		fmt.Fprintln(os.Stderr, "warning:", result.Warning)
	}

	printResult(os.Stdout, result)
}

func printResult(w io.Writer, r *domain.GenerationResult) {
	fmt.Fprintf(w, "caption:  %s\n", r.Caption)
	fmt.Fprintf(w, "template: %s (%dx%d)\n", r.Template, r.Width, r.Height)
	fmt.Fprintf(w, "output:   %s (%d bytes, %d ms)\n", r.OutputURL, r.Size, r.DurationMs)
}
