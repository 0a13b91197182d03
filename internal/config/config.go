// Package config provides configuration management for the alert bridge.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Alerts        AlertsConfig       `mapstructure:"alerts"`
	Monitor       MonitorConfig      `mapstructure:"monitor"`
	Resolver      ResolverConfig     `mapstructure:"resolver"`
	UI            UIConfig           `mapstructure:"ui"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Credentials   Credentials        `mapstructure:"-"` // Loaded separately
}

// AlertsConfig holds alert persistence configuration.
type AlertsConfig struct {
	FilePath    string `mapstructure:"file_path"`    // flat JSON alert store
	JournalPath string `mapstructure:"journal_path"` // SQLite event journal
}

// MonitorConfig holds polling intervals for the monitoring loop.
type MonitorConfig struct {
	OpenInterval    time.Duration `mapstructure:"open_interval"`
	PreOpenInterval time.Duration `mapstructure:"preopen_interval"`
	ClosedInterval  time.Duration `mapstructure:"closed_interval"`
}

// ResolverConfig holds symbol resolution configuration.
type ResolverConfig struct {
	AcceptanceFloor int `mapstructure:"acceptance_floor"` // minimum match score (0-100)
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Level    string         `mapstructure:"level"` // all, triggers_only, errors_only
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Email    EmailConfig    `mapstructure:"email"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// TelegramConfig holds Telegram notification configuration.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// EmailConfig holds email notification configuration.
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

// Credentials holds API credentials.
type Credentials struct {
	Groww GrowwCredentials `mapstructure:"groww"`
}

// GrowwCredentials holds Groww API credentials.
type GrowwCredentials struct {
	APIKey     string `mapstructure:"api_key"`
	APISecret  string `mapstructure:"api_secret"`
	TOTPSecret string `mapstructure:"totp_secret"` // For TOTP-based token exchange
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/groww-trader"
	}
	return filepath.Join(home, ".config", "groww-trader")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	// Load main config
	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	// Load credentials
	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyDefaults(cfg, configDir)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyDefaults(cfg *Config, configDir string) {
	if cfg.Alerts.FilePath == "" {
		cfg.Alerts.FilePath = filepath.Join(configDir, "alerts.json")
	}
	if cfg.Alerts.JournalPath == "" {
		cfg.Alerts.JournalPath = filepath.Join(configDir, "alerts.db")
	}
	if cfg.Monitor.OpenInterval <= 0 {
		cfg.Monitor.OpenInterval = 3 * time.Minute
	}
	if cfg.Monitor.PreOpenInterval <= 0 {
		cfg.Monitor.PreOpenInterval = 5 * time.Minute
	}
	if cfg.Monitor.ClosedInterval <= 0 {
		cfg.Monitor.ClosedInterval = time.Hour
	}
	if cfg.Resolver.AcceptanceFloor == 0 {
		cfg.Resolver.AcceptanceFloor = 50
	}
	if cfg.UI.DateFormat == "" {
		cfg.UI.DateFormat = "02-Jan-2006"
	}
	if cfg.UI.TimeFormat == "" {
		cfg.UI.TimeFormat = "15:04:05"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GROWW_API_KEY"); v != "" {
		cfg.Credentials.Groww.APIKey = v
	}
	if v := os.Getenv("GROWW_API_SECRET"); v != "" {
		cfg.Credentials.Groww.APISecret = v
	}
	if v := os.Getenv("GROWW_TOTP_SECRET"); v != "" {
		cfg.Credentials.Groww.TOTPSecret = v
	}
	if v := os.Getenv("GROWW_ALERTS_FILE"); v != "" {
		cfg.Alerts.FilePath = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Resolver.AcceptanceFloor < 0 || c.Resolver.AcceptanceFloor > 100 {
		return fmt.Errorf("acceptance_floor must be between 0 and 100")
	}
	if c.Monitor.OpenInterval < 10*time.Second {
		return fmt.Errorf("open_interval must be at least 10s")
	}
	if c.Monitor.PreOpenInterval < 10*time.Second {
		return fmt.Errorf("preopen_interval must be at least 10s")
	}
	if c.Monitor.ClosedInterval < time.Minute {
		return fmt.Errorf("closed_interval must be at least 1m")
	}
	if c.Notifications.Email.Enabled && c.Notifications.Email.SMTPHost == "" {
		return fmt.Errorf("email notifications enabled but smtp_host is empty")
	}
	return nil
}

// HasCredentials reports whether Groww API credentials are configured.
func (c *Config) HasCredentials() bool {
	return c.Credentials.Groww.APIKey != "" && c.Credentials.Groww.APISecret != ""
}
