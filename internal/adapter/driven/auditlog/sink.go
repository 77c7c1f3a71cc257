// Package auditlog implements the audit trail as a rotating, append-only text
// file. Each entry is one timestamped line.
package auditlog

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ericfisherdev/phonebook/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AuditSink = (*Sink)(nil)

// Options controls file location and rotation.
type Options struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Sink writes audit entries through slog's text handler. Writes never fail the
// caller; the first write error is reported to the process logger and later
// ones are dropped silently until a write succeeds again.
type Sink struct {
	logger *slog.Logger
	closer io.Closer
}

// New opens a Sink backed by a lumberjack rotating file.
func New(opts Options, logger *slog.Logger) *Sink {
	file := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
		LocalTime:  false,
	}
	s := NewWithWriter(file, logger)
	s.closer = file
	return s
}

// NewWithWriter creates a Sink that writes entries to w.
func NewWithWriter(w io.Writer, logger *slog.Logger) *Sink {
	ew := &errorReportingWriter{w: w, logger: logger}
	return &Sink{
		logger: slog.New(slog.NewTextHandler(ew, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

// Record appends an informational entry.
func (s *Sink) Record(ctx context.Context, event string, attrs ...any) {
	s.logger.InfoContext(ctx, event, attrs...)
}

// Failure appends an error entry carrying err.
func (s *Sink) Failure(ctx context.Context, event string, err error, attrs ...any) {
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}
	s.logger.ErrorContext(ctx, event, attrs...)
}

// Close flushes and closes the underlying file, if the Sink owns one.
func (s *Sink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// errorReportingWriter forwards writes and reports the first failure of each
// run of failures to logger.
type errorReportingWriter struct {
	w      io.Writer
	logger *slog.Logger

	mu      sync.Mutex
	failing bool
}

func (e *errorReportingWriter) Write(p []byte) (int, error) {
	n, err := e.w.Write(p)

	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case err != nil && !e.failing:
		e.failing = true
		if e.logger != nil {
			e.logger.Error("audit log write failed", "error", err)
		}
	case err == nil && e.failing:
		e.failing = false
		if e.logger != nil {
			e.logger.Info("audit log writes recovered")
		}
	}

	return n, err
}
