// Package logger builds the zap logger shared by every layer.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every log line as the "service" field.
const ServiceName = "mergington-activities"

// New returns a zap logger at the given level, tagged with the service name
// and host. format "json" selects the production encoder with ISO8601 "ts"
// timestamps; anything else gets the console encoder. opts are applied
// before the service fields, so a wrapped core still receives them.
func New(levelStr, format string, opts ...zap.Option) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	l, err := cfg.Build(opts...)
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{zap.String("service", ServiceName)}
	if host, err := os.Hostname(); err == nil {
		fields = append(fields, zap.String("host", host))
	}
	return l.With(fields...), nil
}
