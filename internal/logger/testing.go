package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger installs a logger that captures entries for assertions and
// returns the observed logs. Callers should restore with SetLogger(zap.NewNop())
// when isolation matters.
func TestLogger() *observer.ObservedLogs {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	return logs
}
