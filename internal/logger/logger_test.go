package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestContextFieldsReachOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "debug", Format: "json", Output: &buf, ServiceName: "memeforge-test"})

	ctx := l.WithContext(context.Background())
	ctx = SetRequestID(ctx, "req-1")
	ctx = SetGenerationID(ctx, "gen-1")

	With(Fields{FieldDurationMs: int64(12)}).Info(ctx, "Render completed: lines=%d", 2)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}

	checks := map[string]interface{}{
		"service":         "memeforge-test",
		FieldRequestID:    "req-1",
		FieldGenerationID: "gen-1",
		FieldDurationMs:   float64(12),
		"message":         "Render completed: lines=2",
	}
	for k, want := range checks {
		if line[k] != want {
			t.Errorf("field %s: expected %v, got %v", k, want, line[k])
		}
	}

	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("expected request id req-1, got %q", got)
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := GetDefault()
	SetDefaultLogger(New(&Config{Level: "info", Format: "text", Output: &buf, ServiceName: "fallback"}))
	defer SetDefaultLogger(prev)

	CtxInfo(context.Background(), "hello %s", "world")

	if !strings.Contains(buf.String(), "hello world") {
		t.Errorf("expected default logger output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "service=fallback") {
		t.Errorf("expected service field, got %q", buf.String())
	}
}

func TestNewFromEnvWithExplicitOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewFromEnv(&EnvConfig{Level: "warn", Format: "text", Output: &buf, ServiceName: "env"})

	l.Info("dropped")
	l.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("expected warn line, got %q", out)
	}
}
