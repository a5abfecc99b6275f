// Package logger provides the process-wide structured logger. Call sites use
// the package-level functions with alternating key/value pairs.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
)

// Init initializes the logger. Verbose enables debug-level output; otherwise
// only warnings and errors are emitted, keeping tool output readable on a
// terminal shared with the task prompt.
func Init(verbose bool) {
	level := zap.WarnLevel
	if verbose {
		level = zap.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}

	mu.Lock()
	sugar = l.Sugar()
	mu.Unlock()
}

// SetLogger replaces the process logger. Primarily for tests, paired with the
// observer helper in testing.go.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	sugar = l.Sugar()
	mu.Unlock()
}

// Close flushes any buffered log entries.
func Close() {
	mu.RLock()
	defer mu.RUnlock()
	if sugar != nil {
		_ = sugar.Sync()
	}
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debug logs a debug message with alternating key/value pairs.
func Debug(msg string, keysAndValues ...any) {
	if l := get(); l != nil {
		l.Debugw(msg, keysAndValues...)
	}
}

// Info logs an info message with alternating key/value pairs.
func Info(msg string, keysAndValues ...any) {
	if l := get(); l != nil {
		l.Infow(msg, keysAndValues...)
	}
}

// Warn logs a warning message with alternating key/value pairs.
func Warn(msg string, keysAndValues ...any) {
	if l := get(); l != nil {
		l.Warnw(msg, keysAndValues...)
	}
}

// Error logs an error message with alternating key/value pairs.
func Error(msg string, keysAndValues ...any) {
	if l := get(); l != nil {
		l.Errorw(msg, keysAndValues...)
	}
}
