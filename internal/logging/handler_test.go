// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

// jsonLogger builds a JSON logger writing into the returned buffer.
func jsonLogger(t *testing.T, opts Options) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	opts.Format = "json"
	opts.Writer = &buf
	return New(opts), &buf
}

// lastEntry decodes the final JSON record in the buffer.
func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry), "not JSON: %s", buf.String())
	return entry
}

func TestNew_ServiceIdentity(t *testing.T) {
	logger, buf := jsonLogger(t, Options{Service: "chatling", Version: "1.0.0"})

	logger.Info("host ready")

	entry := lastEntry(t, buf)
	assert.Equal(t, "host ready", entry["msg"])
	assert.Equal(t, "chatling", entry["service"])
	assert.Equal(t, "1.0.0", entry["version"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry, "level")
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Service: "collector", Format: "text", Writer: &buf})

	logger.Info("draining outputs")

	assert.Contains(t, buf.String(), "draining outputs")
	assert.Contains(t, buf.String(), "collector")
}

func TestNew_DefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Service: "chatling", Writer: &buf})

	logger.Info("hello")

	var entry map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
}

func TestNew_LevelGate(t *testing.T) {
	logger, buf := jsonLogger(t, Options{Service: "chatling", Level: slog.LevelWarn})

	logger.Info("suppressed")
	assert.Zero(t, buf.Len())

	logger.Warn("surfaced")
	assert.Equal(t, "surfaced", lastEntry(t, buf)["msg"])
}

func TestHandle_TraceContext(t *testing.T) {
	logger, buf := jsonLogger(t, Options{Service: "chatling"})

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.InfoContext(ctx, "traced message")

	entry := lastEntry(t, buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
}

func TestHandle_NoTraceContext(t *testing.T) {
	logger, buf := jsonLogger(t, Options{Service: "chatling"})

	logger.Info("untraced message")

	entry := lastEntry(t, buf)
	assert.NotContains(t, entry, "trace_id")
	assert.NotContains(t, entry, "span_id")
}

func TestHandle_ExpandsOopsError(t *testing.T) {
	logger, buf := jsonLogger(t, Options{Service: "chatling"})

	err := oops.Code("PLUGIN_LOAD_FAILED").
		With("locator", "./greeter.so").
		Errorf("cannot load plugin")
	logger.Error("skipping plugin locator", "error", err)

	entry := lastEntry(t, buf)
	assert.Equal(t, "cannot load plugin", entry["error"])
	assert.Equal(t, "PLUGIN_LOAD_FAILED", entry["error_code"])
	errCtx, ok := entry["error_context"].(map[string]any)
	require.True(t, ok, "error_context missing: %v", entry)
	assert.Equal(t, "./greeter.so", errCtx["locator"])
}

func TestHandle_PlainErrorLogsAsString(t *testing.T) {
	logger, buf := jsonLogger(t, Options{Service: "chatling"})

	logger.Error("web server failed", "error", errors.New("listen tcp: address in use"))

	entry := lastEntry(t, buf)
	assert.Equal(t, "listen tcp: address in use", entry["error"])
	assert.NotContains(t, entry, "error_code")
	assert.NotContains(t, entry, "error_context")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		level, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, level)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestSetDefault(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	SetDefault(Options{Service: "chatling-test", Version: "2.0.0"})

	assert.NotEqual(t, original, slog.Default())
}
