package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/logger"
	"github.com/timmy/memeforge/internal/prompts"
	"github.com/timmy/memeforge/internal/textgen"
)

// CaptionService turns a topic into a meme caption using a text-generation model.
type CaptionService struct {
	model     textgen.Model
	sanitizer *bluemonday.Policy
	opts      textgen.Options
	timeout   time.Duration
}

// CaptionConfig holds configuration for caption generation.
type CaptionConfig struct {
	Timeout time.Duration // per-call bound; zero means the caller's context only
}

// NewCaptionService creates a new caption service.
// Parameters:
//   - model: loaded text-generation model, shared for the process lifetime.
//   - cfg: optional caption settings.
//
// Returns:
//   - *CaptionService: initialized caption service.
func NewCaptionService(model textgen.Model, cfg *CaptionConfig) *CaptionService {
	s := &CaptionService{
		model:     model,
		sanitizer: bluemonday.StrictPolicy(),
		opts:      textgen.CaptionOptions(),
	}
	if cfg != nil {
		s.timeout = cfg.Timeout
	}
	return s
}

// SanitizeTopic strips markup from a raw topic and trims surrounding whitespace.
func (s *CaptionService) SanitizeTopic(topic string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(topic)))
}

// Generate produces a caption for topic.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - topic: user-supplied topic; may be empty.
//
// Returns:
//   - domain.Caption: caption text. On error it holds the fixed message to show.
//   - error: domain.ErrEmptyTopic when topic is blank (the model is not called),
//     or an error wrapping domain.ErrGeneration when the model call fails.
func (s *CaptionService) Generate(ctx context.Context, topic string) (domain.Caption, error) {
	topic = s.SanitizeTopic(topic)
	if topic == "" {
		return domain.Caption{Text: prompts.EmptyTopicCaption}, domain.ErrEmptyTopic
	}

	prompt := prompts.CaptionPrompt(topic)
	caption := domain.Caption{Prompt: prompt}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	sequences, err := s.model.Generate(ctx, prompt, s.opts)
	if err == nil && len(sequences) == 0 {
		err = fmt.Errorf("model returned no sequences")
	}
	if err != nil {
		logger.With(logger.Fields{
			logger.FieldModel:      s.model.Name(),
			logger.FieldDurationMs: time.Since(start).Milliseconds(),
		}).Error(ctx, "Caption generation failed: %v", err)
		caption.Text = prompts.GenerationErrorCaption
		return caption, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	text := StripPrompt(sequences[0], prompt)
	if text == "" {
		text = prompts.NoCaptionFallback
	}
	caption.Text = text

	logger.With(logger.Fields{
		logger.FieldModel:      s.model.Name(),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Debug(ctx, "Caption generated: %q", text)

	return caption, nil
}

// StripPrompt removes every occurrence of prompt from generated and trims the
// result. Removal repeats until no occurrence is left.
func StripPrompt(generated, prompt string) string {
	if prompt == "" {
		return strings.TrimSpace(generated)
	}
	for strings.Contains(generated, prompt) {
		generated = strings.ReplaceAll(generated, prompt, "")
	}
	return strings.TrimSpace(generated)
}
