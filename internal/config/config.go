package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the site data layer.
type Config struct {
	// Content backend credentials
	ContentfulSpaceID     string `mapstructure:"contentful_space_id"`
	ContentfulAccessToken string `mapstructure:"contentful_access_token"`

	// Market data credential
	AlphavantageAPIKey string `mapstructure:"alphavantage_api_key"`

	// Base URLs for API endpoints (configurable for testing)
	ContentfulBaseURL   string `mapstructure:"contentful_base_url"`
	AlphavantageBaseURL string `mapstructure:"alphavantage_base_url"`

	// LogLevel is a zap level name: debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values.
//
// Expected environment variables:
//   - CONTENTFUL_SPACE_ID
//   - CONTENTFUL_ACCESS_TOKEN
//   - ALPHAVANTAGE_API_KEY
//   - CONTENTFUL_BASE_URL (optional, defaults to production)
//   - ALPHAVANTAGE_BASE_URL (optional, defaults to production)
//   - LOG_LEVEL (optional, defaults to info)
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.SetDefault("contentful_base_url", "https://graphql.contentful.com/content/v1/spaces")
	v.SetDefault("alphavantage_base_url", "https://www.alphavantage.co/query")
	v.SetDefault("log_level", "info")

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.sitedata")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	v.BindEnv("contentful_space_id", "CONTENTFUL_SPACE_ID")
	v.BindEnv("contentful_access_token", "CONTENTFUL_ACCESS_TOKEN")
	v.BindEnv("alphavantage_api_key", "ALPHAVANTAGE_API_KEY")

	v.BindEnv("contentful_base_url", "CONTENTFUL_BASE_URL")
	v.BindEnv("alphavantage_base_url", "ALPHAVANTAGE_BASE_URL")
	v.BindEnv("log_level", "LOG_LEVEL")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var missing []string
	if config.ContentfulSpaceID == "" {
		missing = append(missing, "CONTENTFUL_SPACE_ID")
	}
	if config.ContentfulAccessToken == "" {
		missing = append(missing, "CONTENTFUL_ACCESS_TOKEN")
	}
	if config.AlphavantageAPIKey == "" {
		missing = append(missing, "ALPHAVANTAGE_API_KEY")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return config, nil
}
