// Package logging çalışma zamanı logger'ını kurar. Config yüklenmeden önceki
// hatalar standart log ile yazılır; sonrası zap.L() üzerinden gider.
package logging

import (
	"strings"

	"perde-backend/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New APP_ENV=development ise okunabilir konsol çıktısı, aksi halde JSON.
func New(env, level string) (*zap.Logger, error) {
	var zc zap.Config
	if strings.EqualFold(env, "development") {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zc.Build()
}

// Init global logger'ı değiştirir ve döner; çağıran Sync'ten sorumludur.
func Init(cfg *config.Config) (*zap.Logger, error) {
	logger, err := New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
