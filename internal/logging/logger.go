// Package logging builds the zap loggers used for diagnostics.
//
// User-facing CLI output goes to stdout with fmt; everything here goes to
// stderr so it can be filtered or redirected separately.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// New returns a logger writing to stderr. format is "json" or "console".
func New(level Level, format string) (*zap.Logger, error) {
	zl, err := toZapLevel(level)
	if err != nil {
		return nil, err
	}

	encoder := zap.NewProductionEncoderConfig()
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	switch format {
	case "", "console":
		format = "console"
		encoder.EncodeLevel = zapcore.CapitalLevelEncoder
	case "json":
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zl),
		Development:      false,
		Encoding:         format,
		EncoderConfig:    encoder,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	return cfg.Build()
}

func Nop() *zap.Logger {
	return zap.NewNop()
}

func toZapLevel(level Level) (zapcore.Level, error) {
	switch Level(strings.ToLower(string(level))) {
	case LevelDebug:
		return zap.DebugLevel, nil
	case LevelInfo, "":
		return zap.InfoLevel, nil
	case LevelWarn:
		return zap.WarnLevel, nil
	case LevelError:
		return zap.ErrorLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("logging: unknown level %q", level)
	}
}
