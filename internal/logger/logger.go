package logger

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// fieldsContextKey is the context key under which extra log fields are stored.
type fieldsContextKey struct{}

//nolint:gochecknoglobals // A single process-wide logger is intentional for a CLI tool.
var (
	globalMutex  sync.RWMutex
	globalLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	globalLogger = New(globalLevel)
)

// New creates a new zap logger writing human-readable output to stderr.
// If level is nil, the package-wide level is used.
func New(level zapcore.LevelEnabler) *zap.Logger {
	if level == nil {
		level = globalLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.ConsoleSeparator = " "

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	return zap.New(core)
}

// Logger returns the current package-wide logger.
func Logger() *zap.Logger {
	globalMutex.RLock()
	defer globalMutex.RUnlock()

	return globalLogger
}

// SetLogger replaces the package-wide logger.
func SetLogger(l *zap.Logger) {
	globalMutex.Lock()
	defer globalMutex.Unlock()

	globalLogger = l
}

// Level returns the current package-wide logging level.
func Level() zapcore.Level {
	return globalLevel.Level()
}

// SetLevel changes the package-wide logging level.
func SetLevel(level zapcore.Level) {
	globalLevel.SetLevel(level)
}

// ParseLogLevel parses a textual log level.
// It returns the parsed level and whether the input was recognized.
// Unrecognized input falls back to the info level.
func ParseLogLevel(level string) (zapcore.Level, bool) {
	parsed, err := zapcore.ParseLevel(strings.TrimSpace(strings.ToLower(level)))
	if err != nil {
		return zapcore.InfoLevel, false
	}

	return parsed, true
}

// WithFields returns a context carrying extra structured fields.
// All logging functions attach these fields to every message.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	existing := fieldsFromContext(ctx)
	if len(existing) > 0 {
		fields = append(existing, fields...)
	}

	return context.WithValue(ctx, fieldsContextKey{}, fields)
}

// fieldsFromContext extracts extra log fields stored in the context.
func fieldsFromContext(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}

	fields, _ := ctx.Value(fieldsContextKey{}).([]zap.Field)

	return fields
}

// fromContext returns the package-wide logger enriched with context fields.
func fromContext(ctx context.Context) *zap.Logger {
	l := Logger()

	if fields := fieldsFromContext(ctx); len(fields) > 0 {
		l = l.With(fields...)
	}

	return l
}

// Debug logs a message at the debug level.
func Debug(ctx context.Context, msg string) {
	fromContext(ctx).Debug(msg)
}

// Debugf logs a formatted message at the debug level.
func Debugf(ctx context.Context, format string, args ...any) {
	fromContext(ctx).Sugar().Debugf(format, args...)
}

// DebugKV logs a message with key-value pairs at the debug level.
func DebugKV(ctx context.Context, msg string, keysAndValues ...any) {
	fromContext(ctx).Sugar().Debugw(msg, keysAndValues...)
}

// Info logs a message at the info level.
func Info(ctx context.Context, msg string) {
	fromContext(ctx).Info(msg)
}

// Infof logs a formatted message at the info level.
func Infof(ctx context.Context, format string, args ...any) {
	fromContext(ctx).Sugar().Infof(format, args...)
}

// InfoKV logs a message with key-value pairs at the info level.
func InfoKV(ctx context.Context, msg string, keysAndValues ...any) {
	fromContext(ctx).Sugar().Infow(msg, keysAndValues...)
}

// Warn logs a message at the warn level.
func Warn(ctx context.Context, msg string) {
	fromContext(ctx).Warn(msg)
}

// Warnf logs a formatted message at the warn level.
func Warnf(ctx context.Context, format string, args ...any) {
	fromContext(ctx).Sugar().Warnf(format, args...)
}

// WarnKV logs a message with key-value pairs at the warn level.
func WarnKV(ctx context.Context, msg string, keysAndValues ...any) {
	fromContext(ctx).Sugar().Warnw(msg, keysAndValues...)
}

// Error logs a message at the error level.
func Error(ctx context.Context, msg string) {
	fromContext(ctx).Error(msg)
}

// Errorf logs a formatted message at the error level.
func Errorf(ctx context.Context, format string, args ...any) {
	fromContext(ctx).Sugar().Errorf(format, args...)
}

// ErrorKV logs a message with key-value pairs at the error level.
func ErrorKV(ctx context.Context, msg string, keysAndValues ...any) {
	fromContext(ctx).Sugar().Errorw(msg, keysAndValues...)
}

// Fatal logs a message at the fatal level and exits the process.
func Fatal(ctx context.Context, msg string) {
	fromContext(ctx).Fatal(msg)
}

// Fatalf logs a formatted message at the fatal level and exits the process.
func Fatalf(ctx context.Context, format string, args ...any) {
	fromContext(ctx).Sugar().Fatalf(format, args...)
}
