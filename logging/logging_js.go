//go:build js && wasm

package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vcrobe/assignview/console"
)

// build routes every entry to the webview's developer console.
func build(cfg Config, lvl zapcore.Level) (*zap.Logger, error) {
	encCfg := zap.NewProductionEncoderConfig()
	if cfg.Development {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), console.Writer{}, lvl)
	return zap.New(core), nil
}
