// Package logging builds the process logger shared by all axlint components.
//
// The logger is constructed once in main and passed explicitly to whatever
// needs it; there is no package-level default. On terminals it renders
// colored, compact lines via tint; elsewhere it falls back to plain text.
// A custom success level sits between info and warn for "scan finished"
// style milestones.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// LevelSuccess tags positive outcomes. It ranks above info so that a
// level filter of "info" still shows successes.
const LevelSuccess = slog.LevelInfo + 2

// New builds a logger writing to w at the given minimum level.
// Output is colorized only when w is a terminal and NO_COLOR is unset.
func New(level slog.Level, w io.Writer) *slog.Logger {
	opts := &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !useColor(w),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && len(groups) == 0 {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelSuccess {
					a.Value = slog.StringValue("SUC")
				}
			}
			return a
		},
	}
	return slog.New(tint.NewHandler(w, opts))
}

// Discard returns a logger that drops everything. Intended for tests and
// for components that make logging optional.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Success logs msg at LevelSuccess.
func Success(log *slog.Logger, msg string, args ...any) {
	log.Log(context.Background(), LevelSuccess, msg, args...)
}

// ParseLevel maps a config string to a slog level. Unknown values fall
// back to info rather than failing: a typo in config should not silence
// the tool.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
