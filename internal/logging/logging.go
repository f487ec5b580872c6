// Package logging builds the zap logger shared by the command line tool and
// the HTTP server.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/max-profit-solver/internal/config"
	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel maps a level name to a zap level. An empty name means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", level)
	}
}

// New creates a logger from the logging configuration. A non-empty
// levelOverride takes precedence over the configured level. When an output
// file is configured the logger writes to it through a rotating writer.
func New(cfg config.LoggingConfig, levelOverride string) (*zap.Logger, error) {
	level := cfg.Level
	if levelOverride != "" {
		level = levelOverride
	}
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", cfg.Format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	if cfg.OutputFile == "" {
		return zapConfig.Build()
	}

	if dir := filepath.Dir(cfg.OutputFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	writer := zapcore.AddSync(RotatingWriter(cfg))
	var encoder zapcore.Encoder
	if format == "console" {
		encoder = zapcore.NewConsoleEncoder(zapConfig.EncoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(zapConfig.EncoderConfig)
	}
	core := zapcore.NewCore(encoder, writer, zapConfig.Level)

	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(writer)), nil
}

// RotatingWriter returns the lumberjack writer for cfg.OutputFile, filling
// unset rotation limits with defaults.
func RotatingWriter(cfg config.LoggingConfig) *lumberjack.Logger {
	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = constants.DefaultLogMaxSizeMB
	}
	maxBackups := cfg.MaxBackups
	if maxBackups <= 0 {
		maxBackups = constants.DefaultLogMaxBackups
	}
	maxAge := cfg.MaxAgeDays
	if maxAge <= 0 {
		maxAge = constants.DefaultLogMaxAgeDays
	}
	return &lumberjack.Logger{
		Filename:   cfg.OutputFile,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   cfg.Compress,
	}
}
