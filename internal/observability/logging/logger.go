package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const redacted = "[redacted]"

// contentKeys name attributes that could carry transcript text.
var contentKeys = map[string]struct{}{
	"transcript": {},
	"text":       {},
	"utterance":  {},
	"line":       {},
}

// NewJSONLogger logs to stdout for the api and worker.
func NewJSONLogger(service, level string) *slog.Logger {
	return NewJSONLoggerTo(os.Stdout, service, level)
}

// NewJSONLoggerTo is used by batch and mcp, whose stdout is either a file or
// the protocol stream. Transcript-bearing attributes are replaced with a
// length marker wherever they appear, including inside groups.
func NewJSONLoggerTo(w io.Writer, service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: redactContent,
	})
	return slog.New(handler).With("service", service)
}

func redactContent(_ []string, a slog.Attr) slog.Attr {
	if _, ok := contentKeys[strings.ToLower(a.Key)]; !ok {
		return a
	}
	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, fmt.Sprintf("%s (%d bytes)", redacted, len(a.Value.String())))
	}
	return slog.String(a.Key, redacted)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
