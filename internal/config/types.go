package config

// Config is the cukedash configuration file.
type Config struct {
	Server ServerConfig `yaml:"server"`
	SMTP   SMTPConfig   `yaml:"smtp"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	DuckDBPath     string `yaml:"duckdb_path"`
}

// SMTPConfig configures report delivery. Credentials only come from the environment.
type SMTPConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Username           string `yaml:"username"`
	Password           string `yaml:"-"`
	FromName           string `yaml:"from_name"`
	MaxAttachmentBytes int64  `yaml:"max_attachment_bytes"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Defaults applied by Normalize.
const (
	DefaultAddr           = "127.0.0.1:5000"
	DefaultMaxUploadBytes = 10 << 20
	DefaultSMTPHost       = "smtp.gmail.com"
	DefaultSMTPPort       = 465
	DefaultFromName       = "Cucumber Reports"
	DefaultMaxAttachment  = 10 << 20
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

// Default returns a normalized config with no file applied.
func Default() Config {
	var cfg Config
	Normalize(&cfg)
	return cfg
}

// SMTPConfigured reports whether delivery credentials are present.
func (c SMTPConfig) SMTPConfigured() bool {
	return c.Username != "" && c.Password != ""
}
