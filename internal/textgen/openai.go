package textgen

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAICompatibleModel calls an OpenAI-compatible legacy completions endpoint.
type OpenAICompatibleModel struct {
	client   *resty.Client
	model    string
	endpoint string
}

// NewOpenAICompatibleModel creates a completions API client.
func NewOpenAICompatibleModel(cfg *Config) *OpenAICompatibleModel {
	client := resty.New()
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	client.SetHeader("Content-Type", "application/json")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client.SetTimeout(timeout)

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	return &OpenAICompatibleModel{
		client:   client,
		model:    cfg.Model,
		endpoint: baseURL + "/completions",
	}
}

// Name returns the model identifier.
func (m *OpenAICompatibleModel) Name() string {
	return m.model
}

type completionRequest struct {
	Model            string  `json:"model"`
	Prompt           string  `json:"prompt"`
	MaxTokens        int     `json:"max_tokens,omitempty"`
	N                int     `json:"n,omitempty"`
	BestOf           int     `json:"best_of,omitempty"`
	FrequencyPenalty float32 `json:"frequency_penalty,omitempty"`
	Temperature      float32 `json:"temperature"`
	Echo             bool    `json:"echo"`
}

type completionResponse struct {
	Choices []struct {
		Text  string `json:"text"`
		Index int    `json:"index"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate requests completions for the prompt. The prompt is echoed back so
// callers see the same shape as the Hugging Face provider.
func (m *OpenAICompatibleModel) Generate(ctx context.Context, prompt string, opts Options) ([]string, error) {
	req := completionRequest{
		Model:     m.model,
		Prompt:    prompt,
		MaxTokens: opts.MaxLength,
		N:         opts.NumReturnSequences,
		Echo:      true,
	}
	// best_of must not be lower than n
	if opts.NumBeams > opts.NumReturnSequences {
		req.BestOf = opts.NumBeams
	}
	// no n-gram blocking on this API; penalise repeated tokens instead
	if opts.NoRepeatNgramSize > 0 {
		req.FrequencyPenalty = 1.0
	}

	var resp completionResponse
	httpResp, err := m.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(m.endpoint)

	if err != nil {
		return nil, fmt.Errorf("failed to call completions API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if resp.Error != nil {
			return nil, fmt.Errorf("completions API returned error: HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return nil, fmt.Errorf("completions API returned error: HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
	}

	if resp.Error != nil {
		return nil, fmt.Errorf("completions API error: %s", resp.Error.Message)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in completions response: %s", string(httpResp.Body()))
	}

	// Sort by index to keep the provider's ordering
	sort.SliceStable(resp.Choices, func(i, j int) bool {
		return resp.Choices[i].Index < resp.Choices[j].Index
	})

	sequences := make([]string, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		sequences = append(sequences, choice.Text)
	}
	return sequences, nil
}
