package textgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultHuggingFaceBaseURL = "https://api-inference.huggingface.co"

// HuggingFaceModel calls the Hugging Face Inference API text-generation task.
type HuggingFaceModel struct {
	client   *resty.Client
	model    string
	endpoint string
}

// NewHuggingFaceModel creates a Hugging Face Inference API client.
func NewHuggingFaceModel(cfg *Config) *HuggingFaceModel {
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
		baseURL = defaultHuggingFaceBaseURL
	}

	return &HuggingFaceModel{
		client:   client,
		model:    cfg.Model,
		endpoint: baseURL + "/models/" + cfg.Model,
	}
}

// Name returns the model identifier.
func (m *HuggingFaceModel) Name() string {
	return m.model
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	MaxLength          int  `json:"max_length,omitempty"`
	NumReturnSequences int  `json:"num_return_sequences,omitempty"`
	NoRepeatNgramSize  int  `json:"no_repeat_ngram_size,omitempty"`
	NumBeams           int  `json:"num_beams,omitempty"`
	EarlyStopping      bool `json:"early_stopping"`
	DoSample           bool `json:"do_sample"`
	ReturnFullText     bool `json:"return_full_text"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

type hfSequence struct {
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// Generate runs the text-generation task and returns the generated sequences.
// The returned text includes the prompt, as the upstream pipeline does.
func (m *HuggingFaceModel) Generate(ctx context.Context, prompt string, opts Options) ([]string, error) {
	req := hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxLength:          opts.MaxLength,
			NumReturnSequences: opts.NumReturnSequences,
			NoRepeatNgramSize:  opts.NoRepeatNgramSize,
			NumBeams:           opts.NumBeams,
			EarlyStopping:      opts.EarlyStopping,
			ReturnFullText:     true,
		},
		Options: hfOptions{
			WaitForModel: true,
		},
	}

	var result []hfSequence
	var apiErr hfError
	httpResp, err := m.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&apiErr).
		Post(m.endpoint)

	if err != nil {
		return nil, fmt.Errorf("failed to call Hugging Face API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		if apiErr.Error != "" {
			return nil, fmt.Errorf("Hugging Face API returned error: HTTP %d: %s", httpResp.StatusCode(), apiErr.Error)
		}
		return nil, fmt.Errorf("Hugging Face API returned error: HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("no sequences in Hugging Face response: %s", string(httpResp.Body()))
	}

	sequences := make([]string, 0, len(result))
	for _, seq := range result {
		sequences = append(sequences, seq.GeneratedText)
	}
	return sequences, nil
}
