package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/max-profit-solver/internal/config"
	"github.com/iwvelando/max-profit-solver/pkg/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"INFO", zapcore.InfoLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"trace", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewHonoursOverride(t *testing.T) {
	logger, err := New(config.LoggingConfig{Level: "error", Format: "console"}, "debug")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level to be enabled by the override")
	}
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	if _, err := New(config.LoggingConfig{Level: "loud"}, ""); err == nil {
		t.Fatalf("expected invalid level to fail")
	}
	if _, err := New(config.LoggingConfig{Format: "xml"}, ""); err == nil {
		t.Fatalf("expected invalid format to fail")
	}
}

func TestNewWritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "solver.log")
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("solved", zap.String("op", "test"))
	logger.Debug("hidden", zap.String("op", "test"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `"msg":"solved"`) {
		t.Fatalf("expected info entry in log file, got %q", content)
	}
	if strings.Contains(content, "hidden") {
		t.Fatalf("debug entry should be filtered at info level, got %q", content)
	}
}

func TestRotatingWriterDefaults(t *testing.T) {
	w := RotatingWriter(config.LoggingConfig{OutputFile: "app.log"})
	if w.MaxSize != constants.DefaultLogMaxSizeMB || w.MaxBackups != constants.DefaultLogMaxBackups || w.MaxAge != constants.DefaultLogMaxAgeDays {
		t.Fatalf("unexpected defaults: size=%d backups=%d age=%d", w.MaxSize, w.MaxBackups, w.MaxAge)
	}

	w = RotatingWriter(config.LoggingConfig{OutputFile: "app.log", MaxSizeMB: 5, MaxBackups: 1, MaxAgeDays: 2, Compress: true})
	if w.MaxSize != 5 || w.MaxBackups != 1 || w.MaxAge != 2 || !w.Compress {
		t.Fatalf("explicit rotation settings not applied: %+v", w)
	}
}
