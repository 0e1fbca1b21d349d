// Package logging provides structured logging with per-request trace IDs.
package logging

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ctxKey int

const traceIDKey ctxKey = 0

// Logger wraps a logrus entry scoped to a service name.
type Logger struct {
	entry *logrus.Entry
}

// New creates a Logger for the named service. Outside development mode the
// output is JSON, one object per line.
func New(service, level, mode string) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	if mode == "development" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	return &Logger{entry: l.WithField("service", service)}
}

// Default returns a development-mode logger, for tests and fallbacks.
func Default(service string) *Logger {
	return New(service, "info", "development")
}

// NewTraceID generates a fresh request trace ID.
func NewTraceID() string {
	return uuid.NewString()
}

// WithTraceID stores a trace ID on the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceID returns the trace ID stored on the context, if any.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}

func (l *Logger) withCtx(ctx context.Context) *logrus.Entry {
	if id := TraceID(ctx); id != "" {
		return l.entry.WithField("trace_id", id)
	}
	return l.entry
}

// LogRequest records one completed HTTP request.
func (l *Logger) LogRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	l.withCtx(ctx).WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"status":      status,
		"duration_ms": duration.Milliseconds(),
	}).Info("http request")
}

// LogError records an unclassified failure with its trace ID so the generic
// 500 response can be correlated with the underlying cause.
func (l *Logger) LogError(ctx context.Context, msg string, err error) {
	l.withCtx(ctx).WithError(err).Error(msg)
}

func (l *Logger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }
func (l *Logger) Fatalf(format string, args ...any) { l.entry.Fatalf(format, args...) }
