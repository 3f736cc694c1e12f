package config

import (
	"fmt"
	"net"
	"strings"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Validate checks a normalized config.
func Validate(cfg *Config) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if _, _, err := net.SplitHostPort(cfg.Server.Addr); err != nil {
		add("server.addr", fmt.Sprintf("invalid address %q", cfg.Server.Addr))
	}
	if cfg.Server.MaxUploadBytes < 0 {
		add("server.max_upload_bytes", "must be positive")
	}
	if cfg.SMTP.Port < 1 || cfg.SMTP.Port > 65535 {
		add("smtp.port", fmt.Sprintf("out of range: %d", cfg.SMTP.Port))
	}
	if cfg.SMTP.MaxAttachmentBytes < 0 {
		add("smtp.max_attachment_bytes", "must be positive")
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		add("log.level", fmt.Sprintf("unsupported level %q (expected debug|info|warn|error)", cfg.Log.Level))
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		add("log.format", fmt.Sprintf("unsupported format %q (expected text|json)", cfg.Log.Format))
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
