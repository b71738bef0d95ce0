package domain

import (
	"image"
	"time"
)

// Template is a base raster image onto which a caption is drawn.
type Template struct {
	Name string `json:"name"`
	Path string `json:"-"`
}

// Caption is the text produced for a topic, together with the prompt sent to the model.
type Caption struct {
	Text   string `json:"text"`
	Prompt string `json:"prompt,omitempty"`
}

// RenderedMeme is a template copy with the caption drawn on it.
// Image always has the same bounds as the source template.
type RenderedMeme struct {
	Image    *image.RGBA
	Lines    []string
	FontSize float64
	Origin   image.Point // top-left of the text block
}

// Width returns the pixel width of the rendered image.
func (m *RenderedMeme) Width() int {
	return m.Image.Bounds().Dx()
}

// Height returns the pixel height of the rendered image.
func (m *RenderedMeme) Height() int {
	return m.Image.Bounds().Dy()
}

// GenerationResult describes one completed generate-and-render run.
type GenerationResult struct {
	ID         string        `json:"id"`
	Template   string        `json:"template"`
	Topic      string        `json:"topic"`
	Caption    string        `json:"caption"`
	Warning    string        `json:"warning,omitempty"` // set when the caption is a prompt-the-user message
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Size       int           `json:"size"`
	OutputURL  string        `json:"output_url"`
	Duration   time.Duration `json:"-"`
	DurationMs int64         `json:"duration_ms"`
	CreatedAt  time.Time     `json:"created_at"`
}
