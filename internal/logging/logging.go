// Package logging builds the zap loggers used by the server and the CLI.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/terrascope/tfgen/internal/models"
)

// New builds a logger writing to stderr. Format is "json" or "console".
func New(level, format string) (*zap.Logger, error) {
	return NewWithWriter(level, format, os.Stderr)
}

// NewWithWriter builds a logger writing to w.
func NewWithWriter(level, format string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var encoder zapcore.Encoder
	switch format {
	case "json", "":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "console":
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), lvl)
	return zap.New(core, zap.AddCaller()), nil
}

// LogWarnings writes one warn entry per warning, each carrying fields.
func LogWarnings(logger *zap.Logger, warnings []models.Warning, fields ...zap.Field) {
	for _, w := range warnings {
		logger.Warn(w.Message, append([]zap.Field{
			zap.String("code", w.Code),
			zap.String("element", w.Element),
		}, fields...)...)
	}
}
