package domain

import "errors"

// Error kinds returned by the generation pipeline. Callers match them with
// errors.Is; only the presentation layer turns them into user-facing text.
var (
	// ErrModelInit means the text-generation model could not be reached at startup.
	ErrModelInit = errors.New("model initialization failed")

	// ErrTemplateDirectory means the template directory is missing or has no usable images.
	ErrTemplateDirectory = errors.New("template directory unusable")

	// ErrEmptyTopic is a warning: no topic was given, so no caption was generated.
	ErrEmptyTopic = errors.New("empty topic")

	// ErrGeneration means the text-generation call failed.
	ErrGeneration = errors.New("caption generation failed")

	// ErrTemplateLoad means the template image could not be opened or decoded.
	ErrTemplateLoad = errors.New("template load failed")

	// ErrFontLoad means the caption font could not be loaded.
	ErrFontLoad = errors.New("font load failed")

	// ErrUnknownTemplate means the requested template is not in the catalog.
	ErrUnknownTemplate = errors.New("unknown template")

	// ErrBusy means another generation is already in flight.
	ErrBusy = errors.New("generation already in progress")

	// ErrOutputStore means the rendered meme could not be written to output storage.
	ErrOutputStore = errors.New("output store failed")

	// ErrNoOutput means no meme has been generated yet.
	ErrNoOutput = errors.New("no output available")
)
