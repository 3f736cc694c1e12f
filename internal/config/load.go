package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads, parses, normalizes, and validates a config file, then applies
// credentials from the environment and a sibling .env file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, err
	}
	return finish(cfg, filepath.Dir(path))
}

// Resolve loads the explicit path when given, otherwise the nearest config
// file above the working directory, otherwise defaults.
func Resolve(explicit string) (Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}
	path, err := FindConfigPath("")
	if errors.Is(err, ErrConfigNotFound) {
		wd, _ := os.Getwd()
		cfg, err := finish(Config{}, wd)
		return cfg, "", err
	}
	if err != nil {
		return Config{}, "", err
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// finish normalizes, applies the environment, and validates.
func finish(cfg Config, dir string) (Config, error) {
	Normalize(&cfg)
	lookup, err := envLookup(dir)
	if err != nil {
		return Config{}, err
	}
	applyEnv(&cfg, lookup)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
