// Package logging builds the zap logger shared by the server and the CLIs.
package logging

import (
	"fmt"
	"os"

	"github.com/salesanalytics/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a JSON logger writing to stderr and, when cfg.File is set,
// to a size-rotated log file.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Level, err)
	}
	atom := zap.NewAtomicLevelAt(level)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), atom),
	}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), atom))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// Must is like New but falls back to a production logger on error.
// Used by the CLIs before configuration is fully validated.
func Must(cfg config.LogConfig) *zap.Logger {
	log, err := New(cfg)
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Warn("falling back to default logger", zap.Error(err))
		return fallback
	}
	return log
}
