// Package logging настраивает log/slog для CLI.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New создает логгер с текстовым или JSON-обработчиком.
//
// Уровни: "debug", "info", "warn", "error" (по умолчанию "info").
// Форматы: "text", "json" (по умолчанию "text").
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
