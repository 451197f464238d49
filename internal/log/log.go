// Package log sets up the structured file logger. The TUI owns the terminal,
// so nothing is ever logged to stdout or stderr.
package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mmcdole/mixtape/internal/config"
)

// FileName is the log file created in the data directory when no file is
// configured
const FileName = "mixtape.log"

// Off disables logging when used as the log file
const Off = "off"

// SetupLogger opens the configured log file for appending and returns a JSON
// logger on it. Every record carries the id of the launch that wrote it, so
// runs sharing one file can be told apart.
func SetupLogger(cfg *config.LoggingConfig) (*slog.Logger, error) {
	if strings.EqualFold(cfg.File, Off) {
		return NullLogger(), nil
	}

	logPath, err := resolvePath(cfg.File)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	})
	return slog.New(handler).With("session", uuid.NewString()), nil
}

// resolvePath expands a leading ~ and falls back to the data directory
func resolvePath(path string) (string, error) {
	switch {
	case path == "":
		return filepath.Join(config.DataDir(), FileName), nil
	case path == "~" || strings.HasPrefix(path, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// ParseLevel converts a string log level to slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
