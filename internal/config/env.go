package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFileName is read from the config directory when present.
const EnvFileName = ".env"

// Environment variables carrying SMTP credentials, in lookup order.
var (
	smtpUserVars     = []string{"CUKEDASH_SMTP_USER", "GMAIL_USER"}
	smtpPasswordVars = []string{"CUKEDASH_SMTP_PASSWORD", "GMAIL_APP_PASSWORD"}
)

// lookupFunc resolves an environment variable.
type lookupFunc func(key string) (string, bool)

// envLookup layers non-empty process environment values over a .env file.
func envLookup(dir string) (lookupFunc, error) {
	fileValues := map[string]string{}
	if dir != "" {
		path := filepath.Join(dir, EnvFileName)
		values, err := godotenv.Read(path)
		switch {
		case err == nil:
			fileValues = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	return func(key string) (string, bool) {
		if value := os.Getenv(key); value != "" {
			return value, true
		}
		value, ok := fileValues[key]
		return value, ok
	}, nil
}

// applyEnv copies credentials from the environment into cfg.
func applyEnv(cfg *Config, lookup lookupFunc) {
	if user := firstSet(lookup, smtpUserVars); user != "" {
		cfg.SMTP.Username = user
	}
	if password := firstSet(lookup, smtpPasswordVars); password != "" {
		cfg.SMTP.Password = password
	}
}

// firstSet returns the first non-empty value among keys.
func firstSet(lookup lookupFunc, keys []string) string {
	for _, key := range keys {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
	}
	return ""
}
