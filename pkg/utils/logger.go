package utils

import (
	"context"
	"log/slog"
	"os"

	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/term"
)

// ContextLogger returns the logger carried by ctx with args attached.
func ContextLogger(ctx context.Context, args ...any) *slog.Logger {
	return slogctx.FromCtx(ctx).With(args...)
}

// LogLevel maps a -v count to a level: none logs errors only, each -v lowers it one step.
func LogLevel(verbosity int) slog.Level {
	return slog.LevelError - slog.Level(verbosity*4)
}

// NewLogger builds a logger writing to out. format is auto, json or text; auto
// selects text on a terminal and json otherwise.
func NewLogger(out *os.File, format string, verbosity int, debug bool) *slog.Logger {
	level := new(slog.LevelVar)
	level.Set(LogLevel(verbosity))

	handlerOpts := &slog.HandlerOptions{
		AddSource: debug,
		Level:     level,
	}

	useJSON := format == "json" || (format == "auto" && !IsTerminal(out))

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}
	return slog.New(handler)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
