package config

import (
	"fmt"
	"os"
	"time"

	"github.com/timmy/memeforge/internal/textgen"
)

// ModelConfig selects the text-generation backend.
type ModelConfig struct {
	Provider       string        `mapstructure:"provider"`     // huggingface, openai-compatible
	Model          string        `mapstructure:"model"`        // model name/ID
	APIKey         string        `mapstructure:"api_key"`      // API key (can be set directly or via env var)
	APIKeyEnv      string        `mapstructure:"api_key_env"`  // environment variable name for API key
	BaseURL        string        `mapstructure:"base_url"`     // endpoint override, e.g. a self-hosted server
	BaseURLEnv     string        `mapstructure:"base_url_env"` // environment variable name for base URL
	Timeout        time.Duration `mapstructure:"timeout"`
	StartupTimeout time.Duration `mapstructure:"startup_timeout"`
}

// ResolveEnvVars resolves environment variable references in the configuration.
// Direct values (APIKey, BaseURL) take precedence if already set.
func (c *ModelConfig) ResolveEnvVars() {
	if c.APIKeyEnv != "" && c.APIKey == "" {
		if val := os.Getenv(c.APIKeyEnv); val != "" {
			c.APIKey = val
		}
	}

	if c.BaseURLEnv != "" && c.BaseURL == "" {
		if val := os.Getenv(c.BaseURLEnv); val != "" {
			c.BaseURL = val
		}
	}
}

// Validate checks that the model configuration has all required fields.
func (c *ModelConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model: model is required")
	}

	switch c.Provider {
	case textgen.ProviderHuggingFace, textgen.ProviderOpenAICompatible:
	default:
		return fmt.Errorf("model: unknown provider %q", c.Provider)
	}

	return nil
}

// TextgenConfig converts the section into a textgen.Config.
func (c *ModelConfig) TextgenConfig() *textgen.Config {
	return &textgen.Config{
		Provider: c.Provider,
		Model:    c.Model,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
		Timeout:  c.Timeout,
	}
}
