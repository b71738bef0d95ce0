package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/prompts"
	"github.com/timmy/memeforge/internal/textgen"
)

// stubModel returns a fixed continuation of the prompt and counts calls.
type stubModel struct {
	mu       sync.Mutex
	calls    int
	prompts  []string
	opts     textgen.Options
	generate func(ctx context.Context, prompt string) ([]string, error)
}

func (m *stubModel) Generate(ctx context.Context, prompt string, opts textgen.Options) ([]string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.opts = opts
	m.mu.Unlock()
	return m.generate(ctx, prompt)
}

func (m *stubModel) Name() string { return "stub" }

func (m *stubModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func continuing(suffix string) *stubModel {
	return &stubModel{generate: func(_ context.Context, prompt string) ([]string, error) {
		return []string{prompt + suffix}, nil
	}}
}

func TestCaptionService_StripsPrompt(t *testing.T) {
	tests := []struct {
		name   string
		topic  string
		suffix string
		want   string
	}{
		{
			name:   "plain continuation",
			topic:  "coffee",
			suffix: " coffee is my lifeline",
			want:   "coffee is my lifeline",
		},
		{
			name:   "surrounding whitespace trimmed",
			topic:  "mondays",
			suffix: "\n\n  why is it monday again  \n",
			want:   "why is it monday again",
		},
		{
			name:   "topic trimmed before prompting",
			topic:  "   exams   ",
			suffix: " studying all night",
			want:   "studying all night",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := continuing(tt.suffix)
			svc := NewCaptionService(model, nil)

			caption, err := svc.Generate(context.Background(), tt.topic)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if caption.Text != tt.want {
				t.Errorf("expected %q, got %q", tt.want, caption.Text)
			}
			if strings.Contains(caption.Text, caption.Prompt) {
				t.Errorf("caption still contains the prompt: %q", caption.Text)
			}
			wantPrompt := prompts.CaptionPrompt(strings.TrimSpace(tt.topic))
			if caption.Prompt != wantPrompt {
				t.Errorf("expected prompt %q, got %q", wantPrompt, caption.Prompt)
			}
		})
	}
}

func TestCaptionService_UsesCaptionOptions(t *testing.T) {
	model := continuing(" ok")
	svc := NewCaptionService(model, nil)

	if _, err := svc.Generate(context.Background(), "cats"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model.opts != textgen.CaptionOptions() {
		t.Errorf("expected caption options, got %+v", model.opts)
	}
}

func TestCaptionService_EmptyTopic(t *testing.T) {
	for _, topic := range []string{"", "   ", "<b></b>", "\t\n"} {
		model := continuing(" never")
		svc := NewCaptionService(model, nil)

		caption, err := svc.Generate(context.Background(), topic)
		if !errors.Is(err, domain.ErrEmptyTopic) {
			t.Errorf("topic %q: expected ErrEmptyTopic, got %v", topic, err)
		}
		if caption.Text != prompts.EmptyTopicCaption {
			t.Errorf("topic %q: expected %q, got %q", topic, prompts.EmptyTopicCaption, caption.Text)
		}
		if n := model.callCount(); n != 0 {
			t.Errorf("topic %q: model called %d times", topic, n)
		}
	}
}

func TestCaptionService_SanitizesMarkup(t *testing.T) {
	model := continuing(" sure")
	svc := NewCaptionService(model, nil)

	caption, err := svc.Generate(context.Background(), `<script>alert(1)</script>rock & <i>roll</i>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := prompts.CaptionPrompt("rock & roll")
	if caption.Prompt != want {
		t.Errorf("expected prompt %q, got %q", want, caption.Prompt)
	}
}

func TestCaptionService_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		output func(prompt string) []string
	}{
		{name: "prompt only", output: func(p string) []string { return []string{p} }},
		{name: "prompt and whitespace", output: func(p string) []string { return []string{p + "   \n"} }},
		{name: "prompt repeated", output: func(p string) []string { return []string{p + " " + p} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &stubModel{generate: func(_ context.Context, prompt string) ([]string, error) {
				return tt.output(prompt), nil
			}}
			svc := NewCaptionService(model, nil)

			caption, err := svc.Generate(context.Background(), "nothing")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if caption.Text != prompts.NoCaptionFallback {
				t.Errorf("expected fallback, got %q", caption.Text)
			}
		})
	}
}

func TestCaptionService_GenerationFailure(t *testing.T) {
	tests := []struct {
		name  string
		model *stubModel
	}{
		{
			name: "model error",
			model: &stubModel{generate: func(context.Context, string) ([]string, error) {
				return nil, errors.New("connection refused")
			}},
		},
		{
			name: "no sequences",
			model: &stubModel{generate: func(context.Context, string) ([]string, error) {
				return nil, nil
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCaptionService(tt.model, nil)

			caption, err := svc.Generate(context.Background(), "anything")
			if !errors.Is(err, domain.ErrGeneration) {
				t.Fatalf("expected ErrGeneration, got %v", err)
			}
			if caption.Text != prompts.GenerationErrorCaption {
				t.Errorf("expected %q, got %q", prompts.GenerationErrorCaption, caption.Text)
			}
			if n := tt.model.callCount(); n != 1 {
				t.Errorf("expected a single attempt, got %d", n)
			}
		})
	}
}

func TestCaptionService_Timeout(t *testing.T) {
	model := &stubModel{generate: func(ctx context.Context, _ string) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	svc := NewCaptionService(model, &CaptionConfig{Timeout: 20 * time.Millisecond})

	_, err := svc.Generate(context.Background(), "slow")
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
}

func TestStripPrompt(t *testing.T) {
	tests := []struct {
		generated string
		prompt    string
		want      string
	}{
		{"P: hello", "P:", "hello"},
		{"P:P: hello", "P:", "hello"},
		{"hello P: world", "P:", "hello  world"},
		{"PP::x", "P:", "x"},
		{"  nothing to strip ", "P:", "nothing to strip"},
		{" text ", "", "text"},
	}

	for _, tt := range tests {
		if got := StripPrompt(tt.generated, tt.prompt); got != tt.want {
			t.Errorf("StripPrompt(%q, %q) = %q, want %q", tt.generated, tt.prompt, got, tt.want)
		}
	}
}
