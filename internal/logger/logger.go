package logger

import (
	"digital-key-store/internal/config"

	"go.uber.org/zap"
)

// NewZapLog builds the process logger. Format "console" switches to the
// human readable development encoder, anything else logs JSON.
func NewZapLog(cfg config.Log) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	zapcfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapcfg = zap.NewDevelopmentConfig()
	}
	zapcfg.Level = lvl

	return zapcfg.Build()
}
