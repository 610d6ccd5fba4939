// Package logging builds the process logger and scrubs user data before it
// reaches log output. Queries and cell values may contain sensitive material,
// so anything row-derived goes through the sanitizer first.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New constructs a logger at the given level. Debug mode switches to the
// human-readable development encoder.
func New(level string, debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// Nop returns a no-op logger for tests and library callers that pass none.
func Nop() *zap.Logger { return zap.NewNop() }
