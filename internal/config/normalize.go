package config

import "strings"

// Normalize fills defaults and tidies string fields.
func Normalize(cfg *Config) {
	cfg.Server.Addr = strings.TrimSpace(cfg.Server.Addr)
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	cfg.SMTP.Host = strings.TrimSpace(cfg.SMTP.Host)
	if cfg.SMTP.Host == "" {
		cfg.SMTP.Host = DefaultSMTPHost
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = DefaultSMTPPort
	}
	if strings.TrimSpace(cfg.SMTP.FromName) == "" {
		cfg.SMTP.FromName = DefaultFromName
	}
	if cfg.SMTP.MaxAttachmentBytes == 0 {
		cfg.SMTP.MaxAttachmentBytes = DefaultMaxAttachment
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
