package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"http_server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Security     SecurityConfig     `mapstructure:"security"`
	Mail         MailConfig         `mapstructure:"mail"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type SecurityConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenDuration time.Duration `mapstructure:"token_duration"`
	ResetTokenTTL time.Duration `mapstructure:"reset_token_ttl"`
	BCryptCost    int           `mapstructure:"bcrypt_cost"`
}

// MailConfig carries both delivery channels: the Graph tenant used as the
// primary transport and the SMTP account used as the fallback.
type MailConfig struct {
	SMTP  SMTPConfig  `mapstructure:"smtp"`
	Graph GraphConfig `mapstructure:"graph"`

	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	ProbeAddress string `mapstructure:"probe_address"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// ImplicitTLS reports whether the SMTP submission should open a TLS
// connection directly instead of upgrading via STARTTLS. Port 465 is the
// conventional SMTPS port.
func (c SMTPConfig) ImplicitTLS() bool {
	return c.Port == 465
}

type GraphConfig struct {
	ClientID     string `mapstructure:"client_id"`
	TenantID     string `mapstructure:"tenant_id"`
	ClientSecret string `mapstructure:"client_secret"`
	SenderEmail  string `mapstructure:"sender_email"`
}

func (c GraphConfig) Enabled() bool {
	return c.ClientID != "" && c.TenantID != "" && c.ClientSecret != ""
}

type NotificationConfig struct {
	TempDir      string        `mapstructure:"temp_dir"`
	CleanupDelay time.Duration `mapstructure:"cleanup_delay"`
	CompanyName  string        `mapstructure:"company_name"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- DEFAULTS -----------------

func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Security.TokenDuration == 0 {
		c.Security.TokenDuration = 2 * time.Hour
	}
	if c.Security.ResetTokenTTL == 0 {
		c.Security.ResetTokenTTL = time.Hour
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 10
	}
	if c.Notification.TempDir == "" {
		c.Notification.TempDir = "temp"
	}
	if c.Notification.CleanupDelay == 0 {
		c.Notification.CleanupDelay = 5 * time.Minute
	}
	if c.Notification.CompanyName == "" {
		c.Notification.CompanyName = "Cirrus Labs"
	}
}

// ----------------- ENV LOADING -----------------

// LoadConfigFromEnv builds the configuration from environment variables,
// used for container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("PORT", 5000),
			BaseURL:        getEnv("API_BASE_URL", ""),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Source:       getEnv("DATABASE_URL", ""),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		},
		Security: SecurityConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Mail: MailConfig{
			SMTP: SMTPConfig{
				Host:     getEnv("SMTP_HOST", ""),
				Port:     getEnvAsInt("SMTP_PORT", 587),
				Username: getEnv("SMTP_USER", ""),
				Password: getEnv("SMTP_PASS", ""),
			},
			Graph: GraphConfig{
				ClientID:     getEnv("AZURE_CLIENT_ID", ""),
				TenantID:     getEnv("AZURE_TENANT_ID", ""),
				ClientSecret: getEnv("AZURE_CLIENT_SECRET", ""),
				SenderEmail:  getEnv("GRAPH_SENDER_EMAIL", ""),
			},
			FromAddress:  getEnv("MAIL_FROM_ADDRESS", ""),
			FromName:     getEnv("MAIL_FROM_NAME", "IT Asset Management"),
			ProbeAddress: getEnv("MAIL_PROBE_ADDRESS", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}
	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}
	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}
	if err := c.Mail.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("mail config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *SecurityConfig) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 31 {
		return errors.New("bcrypt_cost out of range")
	}
	return nil
}

func (c *MailConfig) Validate() error {
	if c.SMTP.Host == "" {
		return errors.New("smtp host is required")
	}
	if c.FromAddress == "" {
		return errors.New("from_address is required")
	}
	return nil
}
