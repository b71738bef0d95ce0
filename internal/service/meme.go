package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/logger"
	"github.com/timmy/memeforge/internal/prompts"
	"github.com/timmy/memeforge/internal/render"
	"github.com/timmy/memeforge/internal/storage"
)

// TemplateSource resolves template names to files.
type TemplateSource interface {
	Lookup(name string) (domain.Template, error)
	Templates() []string
	Default() string
}

// CaptionGenerator produces a caption for a topic.
type CaptionGenerator interface {
	Generate(ctx context.Context, topic string) (domain.Caption, error)
}

// MemeConfig holds configuration for the meme pipeline.
type MemeConfig struct {
	OutputKey string // object key the latest meme is stored under
}

// MemeService runs the generate, render, store pipeline. Only one run may be
// in flight at a time; concurrent callers get domain.ErrBusy.
type MemeService struct {
	templates TemplateSource
	captions  CaptionGenerator
	renderer  *render.Renderer
	storage   storage.ObjectStorage
	outputKey string

	running sync.Mutex

	mu   sync.RWMutex
	last *domain.GenerationResult
}

// NewMemeService creates a new meme service.
// Parameters:
//   - templates: catalog used to resolve template names.
//   - captions: caption generator.
//   - renderer: text overlay renderer.
//   - objectStorage: store for the latest output image.
//   - cfg: pipeline configuration.
//
// Returns:
//   - *MemeService: initialized pipeline.
func NewMemeService(
	templates TemplateSource,
	captions CaptionGenerator,
	renderer *render.Renderer,
	objectStorage storage.ObjectStorage,
	cfg *MemeConfig,
) *MemeService {
	key := "meme_output.png"
	if cfg != nil && cfg.OutputKey != "" {
		key = cfg.OutputKey
	}
	return &MemeService{
		templates: templates,
		captions:  captions,
		renderer:  renderer,
		storage:   objectStorage,
		outputKey: key,
	}
}

// Templates returns the current template names.
func (s *MemeService) Templates() []string {
	return s.templates.Templates()
}

// DefaultTemplate returns the template the selector starts on.
func (s *MemeService) DefaultTemplate() string {
	return s.templates.Default()
}

// Template resolves a template name.
func (s *MemeService) Template(name string) (domain.Template, error) {
	return s.templates.Lookup(name)
}

// OutputKey returns the object key of the latest meme.
func (s *MemeService) OutputKey() string {
	return s.outputKey
}

// Generate creates a meme for topic on the named template and stores it as
// the latest output, replacing the previous one.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - templateName: catalog name of the template.
//   - topic: user-supplied topic.
//
// Returns:
//   - *domain.GenerationResult: the result. On a generation failure it is still
//     returned with Caption set to the fixed message, and nothing is rendered.
//   - error: wraps one of domain.ErrBusy, ErrUnknownTemplate, ErrGeneration,
//     ErrTemplateLoad, ErrFontLoad or ErrOutputStore. domain.ErrEmptyTopic is a
//     warning: the prompt-the-user caption is rendered and stored, and the
//     complete result is returned alongside it.
func (s *MemeService) Generate(ctx context.Context, templateName, topic string) (*domain.GenerationResult, error) {
	if !s.running.TryLock() {
		return nil, domain.ErrBusy
	}
	defer s.running.Unlock()

	start := time.Now()
	id := uuid.New().String()
	ctx = logger.SetGenerationID(ctx, id)
	ctx = logger.WithField(ctx, logger.FieldTemplate, templateName)

	tmpl, err := s.templates.Lookup(templateName)
	if err != nil {
		return nil, err
	}

	result := &domain.GenerationResult{
		ID:        id,
		Template:  tmpl.Name,
		Topic:     topic,
		CreatedAt: start,
	}

	caption, warning := s.captions.Generate(ctx, topic)
	result.Caption = caption.Text
	if warning != nil {
		if !errors.Is(warning, domain.ErrEmptyTopic) {
			return result, warning
		}
		logger.CtxWarn(ctx, "Empty topic, rendering the prompt-the-user caption")
		result.Warning = prompts.EmptyTopicCaption
	}

	meme, err := s.renderer.Render(tmpl.Path, caption.Text)
	if err != nil {
		logger.CtxError(ctx, "Render failed: %v", err)
		return result, err
	}

	data, err := render.EncodePNG(meme.Image)
	if err != nil {
		return result, fmt.Errorf("%w: %v", domain.ErrOutputStore, err)
	}

	if err := s.storage.Upload(ctx, s.outputKey, bytes.NewReader(data), int64(len(data)), "image/png"); err != nil {
		logger.CtxError(ctx, "Failed to store output %s: %v", s.outputKey, err)
		return result, fmt.Errorf("%w: %v", domain.ErrOutputStore, err)
	}

	result.Width = meme.Width()
	result.Height = meme.Height()
	result.Size = len(data)
	result.OutputURL = s.storage.GetURL(s.outputKey)
	result.Duration = time.Since(start)
	result.DurationMs = result.Duration.Milliseconds()

	s.mu.Lock()
	s.last = result
	s.mu.Unlock()

	status := "ok"
	if warning != nil {
		status = "warning"
	}
	logger.With(logger.Fields{
		logger.FieldSize:  result.Size,
		logger.FieldCount: len(meme.Lines),
	}).WithDuration(result.DurationMs).WithStatus(status).Info(ctx, "Meme generated: %dx%d, caption=%q", result.Width, result.Height, result.Caption)

	return result, warning
}

// LastResult returns the most recent successful generation, or nil.
func (s *MemeService) LastResult() *domain.GenerationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// OpenOutput opens the latest stored meme.
// Returns:
//   - io.ReadCloser: PNG bytes; the caller closes it.
//   - error: domain.ErrNoOutput if nothing has been generated yet.
func (s *MemeService) OpenOutput(ctx context.Context) (io.ReadCloser, error) {
	rc, err := s.storage.Download(ctx, s.outputKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, domain.ErrNoOutput
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrOutputStore, err)
	}
	return rc, nil
}
