// Tidemart - Marketplace Recommendation Service
// Copyright 2026 Tidemart contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidemart/recommender

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamps enabled by default")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestInitWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("user_id", "u1").Msg("interaction recorded")

	out := buf.String()
	if !strings.Contains(out, `"message":"interaction recorded"`) {
		t.Errorf("expected message in output, got %s", out)
	}
	if !strings.Contains(out, `"user_id":"u1"`) {
		t.Errorf("expected user_id field, got %s", out)
	}
}

func TestFromContextAddsIDs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := NewTestLogger(&buf)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCorrelationID(ctx, "corr-1")

	l := FromContext(ctx, base)
	l.Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-1"`) {
		t.Errorf("missing request_id: %s", out)
	}
	if !strings.Contains(out, `"correlation_id":"corr-1"`) {
		t.Errorf("missing correlation_id: %s", out)
	}
}

func TestGenerateIDs(t *testing.T) {
	t.Parallel()

	if got := len(GenerateCorrelationID()); got != 8 {
		t.Errorf("correlation ID length = %d, want 8", got)
	}
	if GenerateRequestID() == GenerateRequestID() {
		t.Error("request IDs should be unique")
	}
}

func TestSlogHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(NewTestLogger(&buf))).
		WithGroup("svc").
		With("name", "catalog-refresh")

	logger.Warn("service restarted", "attempt", 3)

	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) {
		t.Errorf("expected warn level, got %s", out)
	}
	if !strings.Contains(out, `"svc.name":"catalog-refresh"`) {
		t.Errorf("expected grouped attr, got %s", out)
	}
	if !strings.Contains(out, `"svc.attempt":3`) {
		t.Errorf("expected record attr, got %s", out)
	}
}

func TestWatermillAdapter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var adapter watermill.LoggerAdapter = NewWatermillAdapter(NewTestLogger(&buf))

	adapter.With(watermill.LogFields{"topic": "marketplace.interactions"}).
		Error("handler failed", errors.New("boom"), watermill.LogFields{"message_uuid": "m1"})

	out := buf.String()
	for _, want := range []string{`"topic":"marketplace.interactions"`, `"message_uuid":"m1"`, `"error":"boom"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}
