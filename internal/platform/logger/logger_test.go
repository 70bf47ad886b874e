// Package logger_test contains tests for the logger package
package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/topster/topster-api/internal/platform/logger"
)

func restoreDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })
}

func TestSetup_LevelFiltering(t *testing.T) {
	restoreDefault(t)
	buf := &logger.TestLogBuffer{}

	l, err := logger.Setup(logger.LoggerConfig{Level: "warn", Output: buf})
	require.NoError(t, err)
	require.NotNil(t, l)

	l.Info("should be dropped")
	l.Warn("should be kept", "key", "value")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "should be kept", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
	assert.Equal(t, "WARN", entries[0]["level"])
}

func TestSetup_SetsDefault(t *testing.T) {
	restoreDefault(t)
	buf := &logger.TestLogBuffer{}

	l, err := logger.Setup(logger.LoggerConfig{Level: "debug", Output: buf})
	require.NoError(t, err)

	assert.Same(t, l, slog.Default())
	slog.Debug("via default")
	assert.Contains(t, buf.String(), "via default")
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	restoreDefault(t)
	buf := &logger.TestLogBuffer{}

	l, err := logger.Setup(logger.LoggerConfig{Level: "chatty", Output: buf})
	require.NoError(t, err)

	l.Debug("hidden")
	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the fallback warning is expected")
	assert.Equal(t, "chatty", entries[0]["configured_level"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"fatal", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logger.ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	l, buf := logger.NewTestLogger(t)

	ctx := logger.WithLogger(context.Background(), l.With("trace_id", "abc"))
	logger.FromContext(ctx).Info("hello")

	assert.Contains(t, buf.String(), `"trace_id":"abc"`)
	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
}
