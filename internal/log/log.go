// Package log provides the structured logger shared by confkeep's packages.
// It wraps go.uber.org/zap with production defaults and a handful of
// level helpers so call sites stay one-liners.
package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process-wide logger. Components that accept an injected
// *zap.SugaredLogger fall back to this one.
var Logger = newLogger(os.Getenv("LOG_LEVEL"))

func newLogger(level string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true

	l, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// parseLevel maps LOG_LEVEL to a zap level. Unknown values keep info.
func parseLevel(s string) zapcore.Level {
	lvl := zap.InfoLevel
	if s == "" {
		return lvl
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return zap.InfoLevel
	}
	return lvl
}

// Named returns a child of Logger scoped to a component name.
func Named(name string) *zap.SugaredLogger { return Logger.Named(name) }

// Info logs a message at info level with optional key-value pairs.
func Info(msg string, kv ...any) { Logger.Infow(msg, kv...) }

// Infof logs a formatted message at info level.
func Infof(format string, a ...any) { Logger.Infof(format, a...) }

// Warn logs a message at warn level with optional key-value pairs.
func Warn(msg string, kv ...any) { Logger.Warnw(msg, kv...) }

// Warnf logs a formatted message at warn level.
func Warnf(format string, a ...any) { Logger.Warnf(format, a...) }

// Debug logs a message at debug level with optional key-value pairs.
func Debug(msg string, kv ...any) { Logger.Debugw(msg, kv...) }

// Debugf logs a formatted message at debug level.
func Debugf(format string, a ...any) { Logger.Debugf(format, a...) }

// Sync flushes buffered entries. Call it once before the process exits.
func Sync() { _ = Logger.Sync() }
