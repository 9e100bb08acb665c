package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spice-theory/internal/config"
)

func TestNewWritesToConfiguredFile(t *testing.T) {
	cfg := config.Default()
	cfg.Env = "production"
	cfg.Log.Path = filepath.Join(t.TempDir(), "logs", "spice.log")

	log, err := New(cfg)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Info("session started")
	_ = log.Sync()

	data, err := os.ReadFile(cfg.Log.Path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"session started"`) {
		t.Fatalf("expected a JSON entry, got %q", data)
	}
}

func TestNewNop(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Format = "nop"
	log, err := New(cfg)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if log.Core().Enabled(0) {
		t.Fatalf("nop logger should be disabled")
	}
}
