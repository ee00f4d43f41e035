package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// LogFileName is the log file written inside log_dir.
const LogFileName = "utimes.log"

// tsvHandler is a slog.Handler that formats records as:
//
//	<timestamp>\t<level>\t<opID>\t<message>\t<key=value ...>
type tsvHandler struct {
	w      io.Writer
	level  slog.Leveler
	opID   string
	prefix string
	attrs  []slog.Attr
}

func (h *tsvHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *tsvHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time.UTC().Format("2006-01-02T15:04:05.000Z")

	buf := fmt.Appendf(nil, "%s\t%s\t%s\t%s", ts, r.Level.String(), h.opID, r.Message)
	for _, a := range h.attrs {
		buf = fmt.Appendf(buf, "\t%s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		buf = fmt.Appendf(buf, "\t%s%s=%v", h.prefix, a.Key, a.Value)
		return true
	})
	buf = append(buf, '\n')

	// One write per record keeps lines whole when several processes append.
	_, err := h.w.Write(buf)
	return err
}

func (h *tsvHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	qualified := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		qualified[i] = slog.Attr{Key: h.prefix + a.Key, Value: a.Value}
	}
	return &tsvHandler{
		w:      h.w,
		level:  h.level,
		opID:   h.opID,
		prefix: h.prefix,
		attrs:  append(append([]slog.Attr{}, h.attrs...), qualified...),
	}
}

func (h *tsvHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &tsvHandler{
		w:      h.w,
		level:  h.level,
		opID:   h.opID,
		prefix: h.prefix + name + ".",
		attrs:  h.attrs,
	}
}

// newLogger creates a logger writing to logDir/utimes.log. With verbose it
// also writes to stderr and includes debug records. It returns the open log
// file for cleanup.
func newLogger(logDir, opID string, verbose bool, stderr io.Writer) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(logDir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	var w io.Writer = f
	level := slog.LevelInfo
	if verbose {
		w = io.MultiWriter(f, stderr)
		level = slog.LevelDebug
	}
	return slog.New(&tsvHandler{w: w, level: level, opID: opID}), f, nil
}

// slogAdapter wraps *slog.Logger to satisfy stamp.Logger.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
