package logging

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"devhub/internal/config"
)

// New builds the process logger. Release mode writes JSON to stdout and a
// rotated file; anything else gets zap's development console logger.
func New(cfg *config.Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, err
		}
	}

	if os.Getenv("GIN_MODE") != "release" {
		devCfg := zap.NewDevelopmentConfig()
		if cfg.LogLevel != "" {
			devCfg.Level = level
		}
		return devCfg.Build()
	}

	sinks := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     14,
			Compress:   true,
		}))
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.NewMultiWriteSyncer(sinks...),
		level,
	)
	return zap.New(core, zap.AddCaller()).Named("devhub"), nil
}

// Sync flushes logger. Stdout that is a pipe or terminal rejects fsync with
// EINVAL or ENOTTY; those are not failures to flush and are dropped.
func Sync(logger *zap.Logger) error {
	var failed []error
	for _, err := range multierr.Errors(logger.Sync()) {
		if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
			continue
		}
		failed = append(failed, err)
	}
	return multierr.Combine(failed...)
}
