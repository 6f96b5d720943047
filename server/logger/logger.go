package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LOG_FORMAT_ENV switches the logger to JSON output when set to "json"
const LOG_FORMAT_ENV = "SOILSENSE_LOG_FORMAT"

func NewLogger() *zap.SugaredLogger {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	if os.Getenv(LOG_FORMAT_ENV) == "json" {
		config = zap.NewProductionConfig()
	}

	logger, err := config.Build()
	if err != nil {
		log.Panic(err)
	}

	return logger.Sugar()
}

// NewNopLogger returns a logger that discards everything, handy in tests
func NewNopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
