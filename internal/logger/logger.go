package logger

import (
	"os"
	"path/filepath"

	"github.com/redlabs-sc/telegram-media-fetch-bot/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger creates a new zap logger based on configuration
func InitLogger(cfg *config.Config) (*zap.Logger, error) {
	// Configure log level
	var level zapcore.Level
	switch cfg.LogLevel {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	// Configure encoding
	var encoding string
	if cfg.LogFormat == "json" {
		encoding = "json"
	} else {
		encoding = "console"
	}

	outputs := []string{"stdout"}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			return nil, err
		}
		outputs = append(outputs, cfg.LogFile)
	}

	// Build configuration
	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}

	// Customize time encoding
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	return zapConfig.Build()
}
