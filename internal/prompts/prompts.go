package prompts

import "fmt"

// ============================================================================
// Caption Prompt (text-generation model)
// ============================================================================

// CaptionPromptTemplate is the instruction wrapped around the user's topic.
// The model continues the text after the trailing colon.
const CaptionPromptTemplate = "A short, funny meme caption for an image, on the topic of %s:"

// CaptionPrompt returns the full prompt for a topic.
func CaptionPrompt(topic string) string {
	return fmt.Sprintf(CaptionPromptTemplate, topic)
}

// ============================================================================
// Fixed Caption Results
// ============================================================================

// EmptyTopicCaption is returned instead of calling the model when no topic was given.
const EmptyTopicCaption = "Please enter a topic!"

// NoCaptionFallback is returned when the model output is empty once the prompt is stripped.
const NoCaptionFallback = "AI could not generate a caption."

// GenerationErrorCaption is returned when the model call fails.
const GenerationErrorCaption = "Error generating text."

// ProbePrompt is the short prompt used to check the model is reachable at startup.
const ProbePrompt = "Hello"
