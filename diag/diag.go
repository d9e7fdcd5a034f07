// Package diag is the process-wide diagnostics sink. Messages go to the
// host-supplied structured logger when one is bound, and otherwise to an
// append-only log file mirrored to stderr, one "[LEVEL] message" line each.
package diag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) Tag() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// LogFunc is the host's structured logging capability.
type LogFunc func(level Level, msg string)

// lineHandler is a slog.Handler that renders records as "[LEVEL] message"
// lines. Attributes and groups are dropped; the line format is the contract.
type lineHandler struct {
	w io.Writer
}

func (h lineHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h lineHandler) Handle(_ context.Context, r slog.Record) error {
	_, err := fmt.Fprintf(h.w, "[%s] %s\n", tagOf(r.Level), r.Message)
	return err
}

func (h lineHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h lineHandler) WithGroup(string) slog.Handler      { return h }

func tagOf(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO"
	case l < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}

// Logger selects between the host sink and the file/console fallback.
// The fallback file is opened lazily on the first message that needs it.
type Logger struct {
	host     LogFunc
	path     string
	file     *os.File
	fallback *slog.Logger
	mirror   io.Writer // stderr unless overridden in tests
}

func NewLogger(path string) *Logger {
	return &Logger{path: path, mirror: os.Stderr}
}

// BindHost installs the host's logging capability. A nil callback is an
// error: it is reported and the previous sink (host or fallback) is kept.
func (l *Logger) BindHost(fn LogFunc) {
	if fn == nil {
		l.Errorf("bind log: nil callback ignored")
		return
	}
	l.host = fn
}

// HostBound reports whether the host logging capability is in use.
func (l *Logger) HostBound() bool { return l.host != nil }

func (l *Logger) Debugf(format string, v ...interface{}) { l.logf(LevelDebug, format, v...) }
func (l *Logger) Infof(format string, v ...interface{})  { l.logf(LevelInfo, format, v...) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.logf(LevelWarn, format, v...) }
func (l *Logger) Errorf(format string, v ...interface{}) { l.logf(LevelError, format, v...) }

func (l *Logger) logf(level Level, format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	if l.host != nil {
		l.host(level, msg)
		return
	}
	if l.fallback == nil {
		l.openFallback()
	}
	l.fallback.Log(context.Background(), level.slogLevel(), msg)
}

func (l *Logger) openFallback() {
	w := l.mirror
	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(l.mirror, "[ERROR] failed to open %s: %v\n", l.path, err)
	} else {
		l.file = file
		w = io.MultiWriter(file, l.mirror)
	}
	l.fallback = slog.New(lineHandler{w: w})
}

// Close tears down the fallback file, if it was ever opened.
func (l *Logger) Close() error {
	l.host = nil
	l.fallback = nil
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
