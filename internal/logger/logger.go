package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"spice-theory/internal/config"
)

// New builds the process logger: production JSON in production, development
// console output otherwise. log.format "nop" silences it, and log.path
// redirects it to a file.
func New(cfg config.Config) (*zap.Logger, error) {
	if cfg.Log.Format == "nop" {
		return zap.NewNop(), nil
	}

	zc := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
	}
	if cfg.Log.Path != "" {
		if dir := filepath.Dir(cfg.Log.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create log dir: %w", err)
			}
		}
		zc.OutputPaths = []string{cfg.Log.Path}
		zc.ErrorOutputPaths = []string{cfg.Log.Path}
	}
	return zc.Build()
}
