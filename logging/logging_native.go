//go:build !(js && wasm)

package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func build(cfg Config, lvl zapcore.Level) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if cfg.Development {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	return config.Build()
}
