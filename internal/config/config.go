package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Environment     string
	HTTPAddr        string
	ShutdownTimeout time.Duration
	LogLevel        string
	EnableMetrics   bool
	OTelEndpoint    string

	DBDriver string
	DBDSN    string

	ImportMapping  string
	ImportMaxBytes int64

	Mail MailConfig
}

// MailConfig holds the mail relay connection settings. It is built once at
// startup and handed to the notification service.
type MailConfig struct {
	Server         string
	Port           int
	Username       string
	Password       string
	From           string
	StartTLS       bool
	SSLTLS         bool
	UseCredentials bool
	ValidateCerts  bool
	Timeout        time.Duration
	RatePerMinute  int
	Signature      string
}

func defaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENABLE_METRICS", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_DSN", "")
	v.SetDefault("IMPORT_MAPPING", "")
	v.SetDefault("IMPORT_MAX_BYTES", 20<<20)
	v.SetDefault("MAIL_SERVER", "smtp.gmail.com")
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("MAIL_USERNAME", "")
	v.SetDefault("MAIL_PASSWORD", "")
	v.SetDefault("MAIL_FROM", "")
	v.SetDefault("MAIL_STARTTLS", true)
	v.SetDefault("MAIL_SSL_TLS", false)
	v.SetDefault("USE_CREDENTIALS", true)
	v.SetDefault("VALIDATE_CERTS", true)
	v.SetDefault("MAIL_TIMEOUT", "15s")
	v.SetDefault("MAIL_RATE_PER_MINUTE", 30)
	v.SetDefault("MAIL_SIGNATURE", "Arthya Tech Solutions Private Ltd.")
}

// Load reads configuration from the environment, optionally overlaid by the
// file named in CONFIG_FILE. Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Environment:     v.GetString("ENVIRONMENT"),
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		EnableMetrics:   v.GetBool("ENABLE_METRICS"),
		OTelEndpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		DBDriver:        strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:           v.GetString("DB_DSN"),
		ImportMapping:   v.GetString("IMPORT_MAPPING"),
		ImportMaxBytes:  v.GetInt64("IMPORT_MAX_BYTES"),
		Mail: MailConfig{
			Server:         v.GetString("MAIL_SERVER"),
			Port:           v.GetInt("MAIL_PORT"),
			Username:       v.GetString("MAIL_USERNAME"),
			Password:       v.GetString("MAIL_PASSWORD"),
			From:           v.GetString("MAIL_FROM"),
			StartTLS:       v.GetBool("MAIL_STARTTLS"),
			SSLTLS:         v.GetBool("MAIL_SSL_TLS"),
			UseCredentials: v.GetBool("USE_CREDENTIALS"),
			ValidateCerts:  v.GetBool("VALIDATE_CERTS"),
			Timeout:        v.GetDuration("MAIL_TIMEOUT"),
			RatePerMinute:  v.GetInt("MAIL_RATE_PER_MINUTE"),
			Signature:      v.GetString("MAIL_SIGNATURE"),
		},
	}

	if cfg.DBDSN == "" && cfg.DBDriver == DriverSQLite {
		cfg.DBDSN = "file:database.sqlite3"
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver)
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		return errors.New("DB_DSN is required")
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("HTTP_ADDR is required")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.ImportMaxBytes <= 0 {
		return errors.New("IMPORT_MAX_BYTES must be positive")
	}
	return c.Mail.Validate(c.IsProduction())
}

// Validate checks the mail settings. Credentials are only enforced in
// production so local runs work without a relay account.
func (m MailConfig) Validate(production bool) error {
	if strings.TrimSpace(m.Server) == "" {
		return errors.New("MAIL_SERVER is required")
	}
	if m.Port <= 0 || m.Port > 65535 {
		return fmt.Errorf("MAIL_PORT out of range: %d", m.Port)
	}
	if m.StartTLS && m.SSLTLS {
		return errors.New("MAIL_STARTTLS and MAIL_SSL_TLS are mutually exclusive")
	}
	if m.Timeout <= 0 {
		return errors.New("MAIL_TIMEOUT must be positive")
	}
	if m.RatePerMinute <= 0 {
		return errors.New("MAIL_RATE_PER_MINUTE must be positive")
	}
	if production && m.UseCredentials {
		if m.Username == "" || m.Password == "" {
			return errors.New("MAIL_USERNAME and MAIL_PASSWORD are required in production")
		}
	}
	return nil
}

// LoadAndValidate loads configuration and validates it
func LoadAndValidate() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
