package logger

import (
	"fmt"
	"time"

	"github.com/romanzh1/daylog/pkg/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeLayout = "2006-01-02T15:04:05-07:00"

// New builds a logger for env and installs it as the zap global.
// The returned function flushes buffered entries.
func New(env string) (*zap.Logger, func(), error) {
	var config zap.Config

	switch env {
	case "prod":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "test":
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	default:
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = LocalTimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	zap.ReplaceGlobals(logger)

	return logger, func() { _ = logger.Sync() }, nil
}

// LocalTimeEncoder writes entry times in the fixed local zone the day ledger uses.
func LocalTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(utils.ToLocal(t).Format(timeLayout))
}
