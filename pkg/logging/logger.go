// Package logging is the engine's structured logger: slog JSON output,
// a correlation ID per simulation run, and compact rendering of vectors
// and durations.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/opd-ai/go-gravidog/pkg/physics"
)

// LevelEnvVar selects the log level of loggers built by NewLogger.
const LevelEnvVar = "GRAVIDOG_LOG_LEVEL"

// Logger is a slog.Logger whose methods take a context and attach its
// correlation ID.
type Logger struct {
	*slog.Logger
}

// NewLogger logs JSON to stdout at the level named by GRAVIDOG_LOG_LEVEL
// (DEBUG, INFO, WARN or ERROR; INFO otherwise).
func NewLogger() *Logger {
	return NewLoggerWithWriter(os.Stdout, ParseLevel(os.Getenv(LevelEnvVar)))
}

// NewLoggerWithWriter creates a JSON logger writing to w at the given level.
func NewLoggerWithWriter(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: formatAttr,
	})
	return &Logger{slog.New(handler)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewLoggerWithWriter(io.Discard, slog.LevelError+1)
}

// With returns a child logger that adds args to every entry.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if id := GetCorrelationID(ctx); id != "" {
		args = append(args, "correlation_id", id)
	}
	l.Log(ctx, level, msg, args...)
}

// Info logs at info level.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, args...)
}

// Error logs at error level; a non-nil err is added under "error".
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.log(ctx, slog.LevelError, msg, args...)
}

// Debug logs at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, args...)
}

type correlationIDKey struct{}

// WithCorrelationID tags ctx with id, or with a fresh uuid when id is empty.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = GenerateCorrelationID()
	}
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationID returns the ID attached to ctx, or "".
func GetCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GenerateCorrelationID returns a new random ID.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// ParseLevel maps DEBUG, INFO, WARN(ING) and ERROR to slog levels; anything else is INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// formatAttr writes vectors as "(x, y)" and durations in Go notation
// instead of slog's struct and nanosecond forms.
func formatAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindDuration:
		a.Value = slog.StringValue(a.Value.Duration().String())
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case physics.Vector2D:
			a.Value = slog.StringValue(FormatVector(v))
		case *physics.Vector2D:
			if v != nil {
				a.Value = slog.StringValue(FormatVector(*v))
			}
		}
	}
	return a
}

// FormatVector renders v with the shortest exact float notation.
func FormatVector(v physics.Vector2D) string {
	return "(" + strconv.FormatFloat(v.X, 'g', -1, 64) + ", " + strconv.FormatFloat(v.Y, 'g', -1, 64) + ")"
}

// WrapError prefixes err with a formatted context message, keeping it
// available to errors.Is. A nil err stays nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		format = fmt.Sprintf(format, args...)
	}
	return fmt.Errorf("%s: %w", format, err)
}
