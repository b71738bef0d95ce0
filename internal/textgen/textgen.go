// Package textgen talks to a pretrained text-generation model over HTTP.
package textgen

import (
	"context"
	"fmt"
	"time"

	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/logger"
	"github.com/timmy/memeforge/internal/prompts"
)

// Supported providers.
const (
	ProviderHuggingFace      = "huggingface"
	ProviderOpenAICompatible = "openai-compatible"
)

// Options controls a single generation call.
type Options struct {
	MaxLength          int  // upper bound on output length, prompt included
	NumReturnSequences int  // number of sequences to return
	NoRepeatNgramSize  int  // n-grams of this size may not repeat
	NumBeams           int  // beam search width
	EarlyStopping      bool // stop beam search once all beams are finished
}

// CaptionOptions returns the settings used for meme captions.
func CaptionOptions() Options {
	return Options{
		MaxLength:          50,
		NumReturnSequences: 1,
		NoRepeatNgramSize:  2,
		NumBeams:           5,
		EarlyStopping:      true,
	}
}

// Model generates text continuations for a prompt.
type Model interface {
	// Generate returns at least one generated sequence or an error.
	Generate(ctx context.Context, prompt string, opts Options) ([]string, error)

	// Name returns the model identifier.
	Name() string
}

// Config holds configuration for a text-generation model client.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// New creates a model client for the configured provider.
// Parameters:
//   - cfg: provider, model, credentials and endpoint settings.
//
// Returns:
//   - Model: client for the provider.
//   - error: non-nil if the provider is unknown or the model name is missing.
func New(cfg *Config) (Model, error) {
	if cfg == nil {
		return nil, fmt.Errorf("textgen: nil config")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("textgen: model is required")
	}

	switch cfg.Provider {
	case ProviderHuggingFace, "":
		return NewHuggingFaceModel(cfg), nil
	case ProviderOpenAICompatible:
		return NewOpenAICompatibleModel(cfg), nil
	default:
		return nil, fmt.Errorf("textgen: unknown provider %q", cfg.Provider)
	}
}

// Load creates the model client and checks that the model answers a short
// probe prompt. It is called once at startup; the returned Model is then shared
// for the lifetime of the process.
// Parameters:
//   - ctx: context bounding the probe call.
//   - cfg: model configuration.
//
// Returns:
//   - Model: ready-to-use model client.
//   - error: wraps domain.ErrModelInit on any failure.
func Load(ctx context.Context, cfg *Config) (Model, error) {
	m, err := New(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelInit, err)
	}

	start := time.Now()
	probe := Options{MaxLength: 8, NumReturnSequences: 1, NumBeams: 1}
	if _, err := m.Generate(ctx, prompts.ProbePrompt, probe); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrModelInit, m.Name(), err)
	}

	logger.With(logger.Fields{
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info(ctx, "Text generation model ready: provider=%s, model=%s", cfg.Provider, m.Name())

	return m, nil
}
