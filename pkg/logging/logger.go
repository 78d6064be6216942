// Package logging wraps log/slog with a compact console format, an optional
// JSON format and per-component loggers.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// LevelTrace sits below debug for per-event output
const LevelTrace = slog.LevelDebug - 4

type contextKey string

const requestIDKey contextKey = "requestID"

var current atomic.Pointer[slog.Logger]

func init() {
	Configure(os.Stdout, slog.LevelInfo, false)
}

// Configure replaces the process logger. JSON selects slog's JSON handler
// instead of the compact console format.
func Configure(w io.Writer, level slog.Level, json bool) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = NewCompactHandler(w, opts)
	}
	current.Store(slog.New(handler))
}

// SetLevel keeps the console format and changes the level
func SetLevel(level slog.Level) {
	Configure(os.Stdout, level, false)
}

// ParseLevel accepts trace, debug, info, warn and error
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// VerbosityLevel maps -v counts onto levels: 0 info, 1 debug, 2+ trace
func VerbosityLevel(v int) slog.Level {
	switch {
	case v >= 2:
		return LevelTrace
	case v == 1:
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// WithRequestID stores a request ID in ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID stored in ctx, if any
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func withRequestID(ctx context.Context, args []any) []any {
	if requestID := GetRequestID(ctx); requestID != "" {
		return append([]any{"requestID", requestID}, args...)
	}
	return args
}

func log(ctx context.Context, level slog.Level, msg string, args []any) {
	current.Load().Log(ctx, level, msg, withRequestID(ctx, args)...)
}

// Trace logs per-event detail
func Trace(msg string, args ...any) { log(context.Background(), LevelTrace, msg, args) }

// Debug logs internal component behaviour
func Debug(msg string, args ...any) { log(context.Background(), slog.LevelDebug, msg, args) }

// DebugContext logs at DEBUG with the request ID from ctx
func DebugContext(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelDebug, msg, args)
}

// Info logs user-facing operations
func Info(msg string, args ...any) { log(context.Background(), slog.LevelInfo, msg, args) }

// InfoContext logs at INFO with the request ID from ctx
func InfoContext(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelInfo, msg, args)
}

// Warn logs conditions worth monitoring
func Warn(msg string, args ...any) { log(context.Background(), slog.LevelWarn, msg, args) }

// WarnContext logs at WARN with the request ID from ctx
func WarnContext(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelWarn, msg, args)
}

// Error logs failures
func Error(msg string, args ...any) { log(context.Background(), slog.LevelError, msg, args) }

// ErrorContext logs at ERROR with the request ID from ctx
func ErrorContext(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelError, msg, args)
}

// Fatal logs at ERROR and exits
func Fatal(msg string, args ...any) {
	Error(msg, args...)
	os.Exit(1)
}

// Logger tags every record with a component name. It always writes through
// the current process logger, so Configure applies to existing loggers.
type Logger struct {
	component string
}

// New returns a logger for the named component, e.g. "dataset" or "web"
func New(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args []any) {
	log(ctx, level, msg, append([]any{componentKey, l.component}, args...))
}

func (l *Logger) Trace(msg string, args ...any) {
	l.log(context.Background(), LevelTrace, msg, args)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(context.Background(), slog.LevelDebug, msg, args)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(context.Background(), slog.LevelInfo, msg, args)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(context.Background(), slog.LevelWarn, msg, args)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(context.Background(), slog.LevelError, msg, args)
}

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, msg, args)
}
