package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the process-wide logger. InitLogger must run before anything logs.
	Logger *zap.Logger
)

// InitLogger builds the global logger and installs it as zap's global so
// named child loggers (zap.L().Named(...)) share the same core. Production
// deployments emit sampled JSON; ENVIRONMENT=development switches to console
// output so local logs stay readable. LOG_LEVEL overrides the default level.
func InitLogger() error {
	environment := os.Getenv("ENVIRONMENT")

	var cfg zap.Config
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(raw)); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	fields := []zap.Field{
		zap.String("service", "app-venturelink"),
		zap.String("version", "v1"),
	}
	if environment != "" {
		fields = append(fields, zap.String("environment", environment))
	}

	logger, err := cfg.Build(zap.Fields(fields...))
	if err != nil {
		return err
	}

	Logger = logger
	zap.ReplaceGlobals(logger)
	return nil
}
