package handler

import (
	"errors"
	"net/http"

	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/prompts"
)

// Banner levels shown on the page.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// IdleMessage is shown before anything has been generated.
const IdleMessage = "Click the 'Generate Meme!' button to create your masterpiece."

// Problem is the user-facing description of a pipeline error.
type Problem struct {
	Level   string
	Kind    string
	Message string
	Status  int
}

// rendered reports whether a pipeline call produced an image despite err.
// An empty topic is only a warning: the prompt-the-user caption is drawn.
func rendered(result *domain.GenerationResult, err error) bool {
	return errors.Is(err, domain.ErrEmptyTopic) && result != nil && result.OutputURL != ""
}

// Describe maps a pipeline error to the text and status shown to the user.
func Describe(err error) Problem {
	switch {
	case errors.Is(err, domain.ErrEmptyTopic):
		return Problem{LevelWarning, "empty_topic", prompts.EmptyTopicCaption, http.StatusOK}
	case errors.Is(err, domain.ErrGeneration):
		return Problem{LevelError, "generation_failed", prompts.GenerationErrorCaption, http.StatusBadGateway}
	case errors.Is(err, domain.ErrUnknownTemplate):
		return Problem{LevelError, "unknown_template", "Unknown template. Please choose one from the list.", http.StatusNotFound}
	case errors.Is(err, domain.ErrTemplateLoad):
		return Problem{LevelError, "template_load", "Template image could not be loaded.", http.StatusInternalServerError}
	case errors.Is(err, domain.ErrFontLoad):
		return Problem{LevelError, "font_load", "Font file could not be loaded. Please check the configured font.", http.StatusInternalServerError}
	case errors.Is(err, domain.ErrBusy):
		return Problem{LevelWarning, "busy", "A meme is already being generated. Please wait and try again.", http.StatusConflict}
	case errors.Is(err, domain.ErrOutputStore):
		return Problem{LevelWarning, "output_store", "Could not generate the final image.", http.StatusInternalServerError}
	case errors.Is(err, domain.ErrNoOutput):
		return Problem{LevelInfo, "no_output", "No meme has been generated yet.", http.StatusNotFound}
	default:
		return Problem{LevelError, "internal", "An error occurred during image creation.", http.StatusInternalServerError}
	}
}
