// Package config loads server settings from .env files, an optional YAML
// config file and the process environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvProduction is the APP_ENV value that hides diagnostic error details.
const EnvProduction = "production"

// Config holds all server configuration. Keys map 1:1 to environment variables.
type Config struct {
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	EmailUser     string        `mapstructure:"EMAIL_USER"`
	EmailPass     string        `mapstructure:"EMAIL_PASS"`
	NotifyTo      string        `mapstructure:"NOTIFY_TO"`
	SMTPHost      string        `mapstructure:"SMTP_HOST"`
	SMTPPort      int           `mapstructure:"SMTP_PORT"`
	EmailRequired bool          `mapstructure:"EMAIL_REQUIRED"`
	EmailTimeout  time.Duration `mapstructure:"EMAIL_TIMEOUT"`

	AppEnv           string `mapstructure:"APP_ENV"`
	Addr             string `mapstructure:"ADDR"`
	FrontendURL      string `mapstructure:"FRONTEND_URL"`
	AdminToken       string `mapstructure:"ADMIN_TOKEN"`
	ContentFile      string `mapstructure:"CONTENT_FILE"`
	MaxMessageLength int    `mapstructure:"MAX_MESSAGE_LENGTH"`
	AutoMigrate      bool   `mapstructure:"AUTO_MIGRATE"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"DATABASE_URL":       "",
	"EMAIL_USER":         "",
	"EMAIL_PASS":         "",
	"NOTIFY_TO":          "",
	"SMTP_HOST":          "smtp.gmail.com",
	"SMTP_PORT":          465,
	"EMAIL_REQUIRED":     false,
	"EMAIL_TIMEOUT":      "10s",
	"APP_ENV":            "development",
	"ADDR":               ":8080",
	"FRONTEND_URL":       "http://localhost:8080",
	"ADMIN_TOKEN":        "",
	"CONTENT_FILE":       "",
	"MAX_MESSAGE_LENGTH": 5000,
	"AUTO_MIGRATE":       false,
	"LOG_LEVEL":          "INFO",
}

// LoadEnvFiles は .env ファイルを環境変数に読み込む。
// ファイルが無ければ無視し、設定済みの変数は上書きしない。
func LoadEnvFiles(paths ...string) {
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// Load builds a Config from defaults, the YAML file at path and the
// environment, in increasing priority. An empty path looks for ./config.yaml
// and tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: reading config.yaml: %w", err)
			}
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.EmailUser = strings.TrimSpace(c.EmailUser)
	c.NotifyTo = strings.TrimSpace(c.NotifyTo)
	if c.NotifyTo == "" {
		c.NotifyTo = c.EmailUser
	}
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	if c.MaxMessageLength < 0 {
		c.MaxMessageLength = 0
	}
}

// IsProduction はクライアントに詳細エラーを返してはいけない環境かどうか
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// HasEmailCredentials reports whether both SMTP credentials are present.
func (c *Config) HasEmailCredentials() bool {
	return c.EmailUser != "" && c.EmailPass != ""
}

// MissingEmailKeys は未設定のメール認証キーを返す
func (c *Config) MissingEmailKeys() []string {
	var missing []string
	if c.EmailUser == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if c.EmailPass == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	return missing
}
