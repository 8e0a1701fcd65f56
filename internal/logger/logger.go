package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Service string
	Env     string
	Level   string
}

// New construit le logger zap du service. En dev l'encodeur console est
// utilisé, sinon JSON.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Env == "dev" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(opts.Level))

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("service", opts.Service), zap.String("env", opts.Env)), nil
}

func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
