// Package logger provides a simple, clean logging interface.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Constants for logging operations.
const (
	callerSkipFrames = 1 // skip the interface method so the caller is the actual call site
)

// Logger defines the logging interface.
type Logger interface {
	// Context-aware variants
	Info(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Fatal(ctx context.Context, msg string, fields ...Field)

	Named(name string) Logger
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// Field constructors.
func String(key, val string) Field          { return Field{Key: key, Value: val} }
func Int(key string, val int) Field         { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field { return Field{Key: key, Value: val} }
func Any(key string, val interface{}) Field { return Field{Key: key, Value: val} }
func Error(err error) Field                 { return Field{Key: "error", Value: err} }

// zapLogger implements Logger using zap.
type zapLogger struct {
	z *zap.Logger
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{z: l.z.Named(name)}
}

func (l *zapLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.z.Info(msg, convertFields(ctx, fields)...)
}

func (l *zapLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.z.Error(msg, convertFields(ctx, fields)...)
}

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.z.Debug(msg, convertFields(ctx, fields)...)
}

func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.z.Warn(msg, convertFields(ctx, fields)...)
}

func (l *zapLogger) Fatal(ctx context.Context, msg string, fields ...Field) {
	l.z.Fatal(msg, convertFields(ctx, fields)...)
}

// convertFields converts our Field type to zap fields and appends the
// trace id of the active span, if any.
func convertFields(ctx context.Context, fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.NamedError(f.Key, err))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			out = append(out, zap.String("trace_id", sc.TraceID().String()))
		}
	}
	return out
}

var (
	global Logger
	base   *zap.Logger
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init initializes the global logger writing to stdout.
func Init() error {
	return InitWithWriter(os.Stdout)
}

// InitWithWriter initializes the global logger writing to w.
func InitWithWriter(w io.Writer) error {
	if w == nil {
		return errors.New("logger: nil writer")
	}
	// Default to info; can be changed with SetLevel*/SetLevelString.
	level.SetLevel(zapcore.InfoLevel)

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(w)), level)

	base = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(callerSkipFrames))
	global = &zapLogger{z: base}
	return nil
}

// Get returns the global logger.
func Get() Logger {
	if global == nil {
		// Don't auto-initialize with production settings
		// The logger should be explicitly initialized by the application
		panic("logger not initialized. Call logger.Init() first")
	}
	return global
}

// Named creates a named logger.
func Named(name string) Logger {
	return Get().Named(name)
}

// Sync flushes buffered log entries. Terminals and pipes reject fsync; those
// errors are not reported.
func Sync() error {
	if base == nil {
		return nil
	}
	err := base.Sync()
	if err == nil || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

// SetLevel updates the current logging level for the global logger.
func SetLevel(l zapcore.Level) { level.SetLevel(l) }

// SetLevelString parses and sets the logging level.
// Accepts: debug, info, warn/warning, error (case-insensitive).
func SetLevelString(lvl string) error {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		SetLevel(zapcore.DebugLevel)
	case "", "info":
		SetLevel(zapcore.InfoLevel)
	case "warn", "warning":
		SetLevel(zapcore.WarnLevel)
	case "error":
		SetLevel(zapcore.ErrorLevel)
	default:
		return fmt.Errorf("unknown log level: %s", lvl)
	}
	return nil
}
