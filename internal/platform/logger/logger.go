package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LoggerConfig defines the settings used to build the application logger.
type LoggerConfig struct {
	// Level is one of "debug", "info", "warn", "error" (case-insensitive).
	Level string

	// Output is where log records are written. Defaults to os.Stdout.
	Output io.Writer

	// AddSource adds the source file and line to each record.
	AddSource bool
}

// ParseLevel converts a textual log level into a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
}

// Setup initializes the application's logging system. It creates a structured
// JSON logger with the configured level and sets it as the default logger.
//
// An invalid level falls back to info and is reported through the returned
// logger rather than failing startup.
func Setup(cfg LoggerConfig) (*slog.Logger, error) {
	level, levelErr := ParseLevel(cfg.Level)

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	})
	logger := slog.New(handler)

	// Allows using slog.Info, slog.Error, etc. directly
	slog.SetDefault(logger)

	if levelErr != nil {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", cfg.Level,
			"default_level", "info")
	}

	return logger, nil
}
