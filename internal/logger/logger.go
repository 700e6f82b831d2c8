// Package logger builds the structured loggers used across Sitrep.
// Components receive a *zap.Logger through their constructors; nothing in
// this package is global.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger at the named level ("debug", "info", "warn", "error").
// With json true the output is machine-readable production encoding,
// otherwise a human-friendly console encoding is used.
func New(level string, json bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}

	config := zap.NewProductionConfig()
	if !json {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.DisableStacktrace = true

	log, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return log, nil
}

// Nop returns a logger that discards everything. Useful as a default in
// constructors and in tests.
func Nop() *zap.Logger {
	return zap.NewNop()
}
