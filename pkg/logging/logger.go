// Copyright (C) 2025 Driftwood AI (oss@driftwood.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for TerraDraft components.
//
// The package wraps log/slog with multi-destination output: stderr by
// default (Unix CLI convention), an optional JSON log file, and an
// optional Sink for forwarding entries to external collectors.
//
// Basic usage:
//
//	logger := logging.Default()
//	logger.Info("resolving versions", "modules", len(sources))
//
// Service usage with file logging:
//
//	logger := logging.New(logging.Config{
//	    Level:   logging.LevelDebug,
//	    LogDir:  "~/.terradraft/logs",
//	    Service: "assistant",
//	    JSON:    true,
//	})
//	defer logger.Close()
//
// Logger is safe for concurrent use. Callers must not log secrets or
// tokens; the package performs no redaction.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level is the minimum severity a logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string ("debug", "warn") to a Level,
// defaulting to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config controls logger construction. The zero value produces an
// Info-level text logger on stderr.
type Config struct {
	// Level is the minimum level emitted. Default: LevelInfo.
	Level Level

	// LogDir, when non-empty, enables file logging to
	// "{Service}_{YYYY-MM-DD}.log" inside the directory. Supports a
	// leading ~ for home expansion. File logs are always JSON.
	LogDir string

	// Service is attached to every record as the "service" attribute.
	Service string

	// JSON switches stderr output from text to JSON.
	JSON bool

	// Quiet suppresses stderr output entirely.
	Quiet bool

	// Sink, when set, receives a copy of every emitted entry.
	Sink Sink
}

// Sink receives log entries for forwarding to an external system.
// Implementations should buffer internally; Emit must not block.
type Sink interface {
	Emit(ctx context.Context, entry Entry) error
	Flush(ctx context.Context) error
	Close() error
}

// Entry is the sink-facing representation of one log record.
type Entry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Service   string
	Attrs     map[string]any
}

// Logger wraps slog.Logger with multi-destination output and an
// optional Sink. Create with New or Default, release with Close.
type Logger struct {
	slog  *slog.Logger
	cfg   Config
	level *slog.LevelVar
	file  *os.File
	sink  Sink
	mu    sync.Mutex
}

// New builds a Logger from cfg. Directory or file-open failures
// silently disable file logging; stderr output still works.
func New(cfg Config) *Logger {
	level := new(slog.LevelVar)
	level.Set(cfg.Level.slogLevel())
	opts := &slog.HandlerOptions{Level: level}

	var handlers []slog.Handler
	if !cfg.Quiet {
		if cfg.JSON {
			handlers = append(handlers, slog.NewJSONHandler(os.Stderr, opts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(os.Stderr, opts))
		}
	}

	l := &Logger{cfg: cfg, sink: cfg.Sink, level: level}

	if cfg.LogDir != "" {
		dir := expandPath(cfg.LogDir)
		if err := os.MkdirAll(dir, 0750); err == nil {
			service := cfg.Service
			if service == "" {
				service = "terradraft"
			}
			name := fmt.Sprintf("%s_%s.log", service, time.Now().Format("2006-01-02"))
			if f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640); err == nil {
				l.file = f
				handlers = append(handlers, slog.NewJSONHandler(f, opts))
			}
		}
	}

	var handler slog.Handler
	switch len(handlers) {
	case 0:
		handler = slog.NewTextHandler(os.Stderr, opts)
	case 1:
		handler = handlers[0]
	default:
		handler = &multiHandler{handlers: handlers}
	}

	if cfg.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", cfg.Service)})
	}

	l.slog = slog.New(handler)
	return l
}

// Default returns an Info-level text logger on stderr with the
// "terradraft" service attribute.
func Default() *Logger {
	return New(Config{Level: LevelInfo, Service: "terradraft"})
}

// Debug logs at Debug level with slog-style key-value args.
func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }

// Info logs at Info level.
func (l *Logger) Info(msg string, args ...any) { l.log(LevelInfo, msg, args...) }

// Warn logs at Warn level.
func (l *Logger) Warn(msg string, args ...any) { l.log(LevelWarn, msg, args...) }

// Error logs at Error level.
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

// With returns a child logger carrying additional attributes.
// The parent is not modified; file and sink are shared.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:  l.slog.With(args...),
		cfg:   l.cfg,
		level: l.level,
		file:  l.file,
		sink:  l.sink,
	}
}

// SetLevel changes the minimum emitted level at runtime. Child loggers
// created with With share the level. Safe for concurrent use.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.slogLevel())
}

// Slog exposes the underlying slog.Logger for integrations that need
// one directly (badger's logger adapter, gin middleware).
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Close flushes and closes the sink and log file. Always defer Close
// for loggers with LogDir or Sink set.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var first error
	if l.sink != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.sink.Flush(ctx); err != nil && first == nil {
			first = fmt.Errorf("flush sink: %w", err)
		}
		if err := l.sink.Close(); err != nil && first == nil {
			first = fmt.Errorf("close sink: %w", err)
		}
	}
	if l.file != nil {
		if err := l.file.Sync(); err != nil && first == nil {
			first = fmt.Errorf("sync log file: %w", err)
		}
		if err := l.file.Close(); err != nil && first == nil {
			first = fmt.Errorf("close log file: %w", err)
		}
	}
	return first
}

func (l *Logger) log(level Level, msg string, args ...any) {
	switch level {
	case LevelDebug:
		l.slog.Debug(msg, args...)
	case LevelWarn:
		l.slog.Warn(msg, args...)
	case LevelError:
		l.slog.Error(msg, args...)
	default:
		l.slog.Info(msg, args...)
	}

	if l.sink != nil && level.slogLevel() >= l.level.Level() {
		entry := Entry{
			Timestamp: time.Now(),
			Level:     level,
			Message:   msg,
			Service:   l.cfg.Service,
			Attrs:     argsToMap(args),
		}
		// Sink failures must never disrupt the caller.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = l.sink.Emit(ctx, entry)
		}()
	}
}

// multiHandler fans one record out to several slog handlers, which
// lets stderr stay text while the file stays JSON.
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func argsToMap(args []any) map[string]any {
	result := make(map[string]any)
	for i := 0; i < len(args)-1; i += 2 {
		if key, ok := args[i].(string); ok {
			result[key] = args[i+1]
		}
	}
	return result
}

// NopSink discards all entries. Useful when forwarding is disabled.
type NopSink struct{}

func (NopSink) Emit(context.Context, Entry) error { return nil }
func (NopSink) Flush(context.Context) error       { return nil }
func (NopSink) Close() error                      { return nil }

var _ Sink = (*NopSink)(nil)

// CaptureSink collects entries in memory for test assertions.
type CaptureSink struct {
	mu      sync.Mutex
	entries []Entry
}

// NewCaptureSink returns an empty CaptureSink.
func NewCaptureSink() *CaptureSink {
	return &CaptureSink{entries: make([]Entry, 0, 64)}
}

func (s *CaptureSink) Emit(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *CaptureSink) Flush(context.Context) error { return nil }
func (s *CaptureSink) Close() error                { return nil }

// Entries returns a copy of everything captured so far.
func (s *CaptureSink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

var _ Sink = (*CaptureSink)(nil)

// WriterSink formats entries onto an io.Writer, one line each.
type WriterSink struct {
	w  io.Writer
	mu sync.Mutex
}

// NewWriterSink wraps w. The sink does not own or close the writer.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Emit(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, "[%s] %s: %s %v\n",
		entry.Timestamp.Format(time.RFC3339), entry.Level, entry.Message, entry.Attrs)
	return err
}

func (s *WriterSink) Flush(context.Context) error { return nil }
func (s *WriterSink) Close() error                { return nil }

var _ Sink = (*WriterSink)(nil)
