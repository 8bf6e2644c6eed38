// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/holomush/tidewater/pkg/errutil"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "not JSON: %s", buf.String())
	return entry
}

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup("tidewater", "1.0.0", "json", slog.LevelInfo, &buf)
	require.NoError(t, err)

	logger.Info("test message")

	entry := decode(t, &buf)
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "tidewater", entry["service"])
	assert.Equal(t, "1.0.0", entry["version"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry, "level")
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup("tidewater", "1.0.0", "text", slog.LevelInfo, &buf)
	require.NoError(t, err)

	logger.Info("test message")

	assert.Contains(t, buf.String(), "msg=\"test message\"")
	assert.Contains(t, buf.String(), "service=tidewater")
}

func TestSetup_DefaultFormatIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup("tidewater", "1.0.0", "", slog.LevelInfo, &buf)
	require.NoError(t, err)

	logger.Info("test message")
	decode(t, &buf)
}

func TestSetup_InvalidFormat(t *testing.T) {
	_, err := Setup("tidewater", "1.0.0", "xml", slog.LevelInfo, nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "LOG_FORMAT_INVALID")
}

func TestSetup_Level(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup("tidewater", "1.0.0", "json", slog.LevelWarn, &buf)
	require.NoError(t, err)

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Equal(t, "kept", decode(t, &buf)["msg"])
}

func TestHandler_TraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup("tidewater", "1.0.0", "json", slog.LevelInfo, &buf)
	require.NoError(t, err)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	logger.InfoContext(ctx, "traced message")

	entry := decode(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
}

func TestHandler_RequestID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup("tidewater", "1.0.0", "json", slog.LevelInfo, &buf)
	require.NoError(t, err)

	ctx := WithRequestID(context.Background(), "01HZY7Q9R3V5B8K2M4N6P0T1WX")
	logger.With("route", "/users").InfoContext(ctx, "handled")

	entry := decode(t, &buf)
	assert.Equal(t, "01HZY7Q9R3V5B8K2M4N6P0T1WX", entry["request_id"])
	assert.Equal(t, "/users", entry["route"])
	assert.Equal(t, "01HZY7Q9R3V5B8K2M4N6P0T1WX", RequestID(ctx))
}

func TestHandler_NoContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup("tidewater", "1.0.0", "json", slog.LevelInfo, &buf)
	require.NoError(t, err)

	logger.Info("plain")

	entry := decode(t, &buf)
	assert.NotContains(t, entry, "trace_id")
	assert.NotContains(t, entry, "span_id")
	assert.NotContains(t, entry, "request_id")
	assert.Empty(t, RequestID(context.Background()))
}

func TestHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup("tidewater", "1.0.0", "json", slog.LevelInfo, &buf)
	require.NoError(t, err)

	logger.WithGroup("http").Info("grouped", "status", 200)

	entry := decode(t, &buf)
	group, ok := entry["http"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 200, group["status"], 0)
}

func TestSetDefault(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	logger, err := SetDefault("tidewater", "2.0.0", "json", slog.LevelInfo)
	require.NoError(t, err)
	assert.Same(t, logger, slog.Default())

	_, err = SetDefault("tidewater", "2.0.0", "yaml", slog.LevelInfo)
	require.Error(t, err)
}
