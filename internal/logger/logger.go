// Package logger builds the application's zap logger from LogConfig and
// provides helpers for keeping secrets out of log lines.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"declarant/internal/config"
)

// New builds a zap logger. Format "json" selects the production encoder;
// anything else gets the human-readable development console encoder.
func New(cfg *config.LogConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		level = zapcore.InfoLevel
	}

	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stdout"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return l, nil
}

// Credential logs only whether a secret is set, never any part of its value.
func Credential(name, secret string) zap.Field {
	return zap.Bool(name+"_configured", strings.TrimSpace(secret) != "")
}
