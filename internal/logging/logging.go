// Package logging constructs the structured zap.Logger used by every
// ambient (non-hot-path) component: CSV ingestion, config loading, the
// HTTP introspection server, and run-level summaries.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger at the given level. development selects a
// console-encoded, caller-annotated logger suited to a terminal session;
// otherwise a JSON-encoded production logger is built.
func New(level string, development bool) (*zap.Logger, error) {
	var atomicLevel zap.AtomicLevel
	switch level {
	case "debug":
		atomicLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		atomicLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		atomicLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		atomicLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	if development {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = atomicLevel
		logger, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("logging: build development logger: %w", err)
		}
		return logger, nil
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = atomicLevel
	cfg.EncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build production logger: %w", err)
	}
	return logger, nil
}
