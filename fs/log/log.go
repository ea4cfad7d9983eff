// Package log wraps log/slog the way the teacher's fs/log package does:
// a handful of syslog-flavoured levels beyond the stdlib four, and a
// ReplaceAttr mapper that lowercases the rendered level name so output
// reads "warning" rather than "WARN".
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Custom levels, slotted between and around the stdlib four
// (Debug=-4, Info=0, Warn=4, Error=8) the way syslog severities run
// from Emergency (most severe) down to Debug.
const (
	SlogLevelNotice    = slog.Level(2)
	SlogLevelCritical  = slog.Level(12)
	SlogLevelAlert     = slog.Level(16)
	SlogLevelEmergency = slog.Level(20)
)

// slogLevelToString names every level this package defines, falling
// back to slog.Level's own String for anything it doesn't recognise.
func slogLevelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case SlogLevelNotice:
		return "NOTICE"
	case slog.LevelWarn:
		return "WARNING"
	case slog.LevelError:
		return "ERROR"
	case SlogLevelCritical:
		return "CRITICAL"
	case SlogLevelAlert:
		return "ALERT"
	case SlogLevelEmergency:
		return "EMERGENCY"
	default:
		return level.String()
	}
}

// mapLogLevelNames is a slog.HandlerOptions.ReplaceAttr function: it
// rewrites the level attribute to its lowercase name from
// slogLevelToString, leaving every other attribute untouched.
func mapLogLevelNames(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	a.Value = slog.StringValue(toLower(slogLevelToString(level)))
	return a
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Logger is a thin wrapper over *slog.Logger adding the custom
// severities above as named methods, the way the teacher's callers use
// fs.LogLevelNotice/fs.LogLevelCritical rather than raw slog.Log calls.
type Logger struct {
	*slog.Logger
}

// New builds a Logger writing to w at minLevel or above. useJSON
// selects slog.NewJSONHandler over slog.NewTextHandler; both get the
// same ReplaceAttr level-name mapping.
func New(w io.Writer, minLevel slog.Level, useJSON bool) *Logger {
	opts := &slog.HandlerOptions{Level: minLevel, ReplaceAttr: mapLogLevelNames}
	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// Default returns a Logger writing text to stderr at Info level,
// suitable as a zero-configuration fallback for library callers that
// don't wire their own.
func Default() *Logger {
	return New(os.Stderr, slog.LevelInfo, false)
}

func (l *Logger) Notice(msg string, args ...any) {
	l.Log(context.Background(), SlogLevelNotice, msg, args...)
}

func (l *Logger) Critical(msg string, args ...any) {
	l.Log(context.Background(), SlogLevelCritical, msg, args...)
}

func (l *Logger) Alert(msg string, args ...any) {
	l.Log(context.Background(), SlogLevelAlert, msg, args...)
}

func (l *Logger) Emergency(msg string, args ...any) {
	l.Log(context.Background(), SlogLevelEmergency, msg, args...)
}
