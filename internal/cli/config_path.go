package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cukedash/internal/config"
	"cukedash/internal/telemetry"
)

// resolveConfigPath normalizes an explicit config path. An empty path is
// left empty so config.Resolve searches from the working directory.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		return "", nil
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// loadConfig resolves the config and installs the configured logger, which
// writes to stderr. The returned closer releases the log file, if any.
func loadConfig(configPath string, stderr io.Writer) (config.Config, io.Closer, error) {
	resolved, err := resolveConfigPath(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	cfg, _, err := config.Resolve(resolved)
	if err != nil {
		return config.Config{}, nil, err
	}
	closer, err := telemetry.InitLogger(cfg.Log, stderr)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, closer, nil
}
