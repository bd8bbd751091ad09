package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rewired-gh/churnoracle/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ArtifactsConfig locates the serialized classifier and feature list
type ArtifactsConfig struct {
	ModelPath    string `mapstructure:"model_path"`
	FeaturesPath string `mapstructure:"features_path"`
}

// DashboardConfig holds the interactive dashboard settings
type DashboardConfig struct {
	DefaultOrderCount  int     `mapstructure:"default_order_count"`
	DefaultTotalSpend  float64 `mapstructure:"default_total_spend"`
	DefaultUniqueItems int     `mapstructure:"default_unique_items"`
	Theme              string  `mapstructure:"theme"`
}

// TelegramConfig holds the Telegram front end configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// Load reads configuration from file and environment variables.
// A missing file is not an error: defaults and environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigFile(path)

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("CHURN_ORACLE")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Artifact defaults
	v.SetDefault("artifacts.model_path", "./artifacts/churn_model.json")
	v.SetDefault("artifacts.features_path", "./artifacts/feature_columns.json")

	// Dashboard defaults
	v.SetDefault("dashboard.default_order_count", models.DefaultOrderCount)
	v.SetDefault("dashboard.default_total_spend", models.DefaultTotalSpend)
	v.SetDefault("dashboard.default_unique_items", models.DefaultUniqueItems)
	v.SetDefault("dashboard.theme", "auto")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Artifacts config
	if c.Artifacts.ModelPath == "" {
		return fmt.Errorf("artifacts.model_path is required")
	}
	if c.Artifacts.FeaturesPath == "" {
		return fmt.Errorf("artifacts.features_path is required")
	}

	// Validate Dashboard config
	if c.Dashboard.DefaultOrderCount < models.MinOrderCount {
		return fmt.Errorf("dashboard.default_order_count must be at least %d", models.MinOrderCount)
	}
	if c.Dashboard.DefaultTotalSpend < models.MinTotalSpend {
		return fmt.Errorf("dashboard.default_total_spend must be at least %.1f", models.MinTotalSpend)
	}
	if c.Dashboard.DefaultUniqueItems < models.MinUniqueItems {
		return fmt.Errorf("dashboard.default_unique_items must be at least %d", models.MinUniqueItems)
	}
	validThemes := map[string]bool{"auto": true, "light": true, "dark": true}
	if !validThemes[c.Dashboard.Theme] {
		return fmt.Errorf("dashboard.theme must be one of: auto, light, dark")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
		if _, err := strconv.ParseInt(c.Telegram.ChatID, 10, 64); err != nil {
			return fmt.Errorf("telegram.chat_id must be a numeric chat ID")
		}
	}
	if c.Telegram.MaxRetries < 1 {
		return fmt.Errorf("telegram.max_retries must be at least 1")
	}
	if c.Telegram.RetryDelayBase <= 0 {
		return fmt.Errorf("telegram.retry_delay_base must be positive")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// DefaultInput returns the dashboard's starting customer input
func (c *Config) DefaultInput() models.CustomerInput {
	return models.CustomerInput{
		OrderCount:  c.Dashboard.DefaultOrderCount,
		TotalSpend:  c.Dashboard.DefaultTotalSpend,
		UniqueItems: c.Dashboard.DefaultUniqueItems,
	}
}
