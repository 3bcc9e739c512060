package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML/JSON keys to Go struct fields.
type Config struct {
	// Server configuration section containing HTTP server settings
	Server struct {
		Port           int      `mapstructure:"port"`            // HTTP server port (default: 8080)
		BaseURL        string   `mapstructure:"base_url"`        // Base URL used when printing tracking links
		AllowedOrigins []string `mapstructure:"allowed_origins"` // CORS allowed origins, "*" for any
	} `mapstructure:"server"`

	// Database configuration section for SQLite settings
	Database struct {
		Name string `mapstructure:"name"` // SQLite database file name
	} `mapstructure:"database"`

	// Logging configuration for the zap logger
	Logging struct {
		Level  string `mapstructure:"level"`  // debug, info, warn, error
		Format string `mapstructure:"format"` // json or console
	} `mapstructure:"logging"`

	// Monitor configuration for redirect target health checking
	Monitor struct {
		IntervalMinutes int `mapstructure:"interval_minutes"` // Interval in minutes between reachability checks
	} `mapstructure:"monitor"`
}

// LoadConfig loads the application configuration using Viper.
// It supports environment variable overrides and YAML configuration files.
// Returns a populated Config struct or an error if configuration loading fails.
func LoadConfig() (*Config, error) {
	// Enable automatic environment variable binding so any key can be
	// overridden, e.g. "server.port" becomes "SERVER_PORT"
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Look for a YAML config file under ./configs; every key has a default
	// so a missing file is fine
	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("server.allowed_origins", []string{"*"})
	viper.SetDefault("database.name", "review_tracking.db")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("monitor.interval_minutes", 15)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Not fatal - defaults and environment variables apply
			log.Println("Config file not found, using default values")
		} else {
			// Any other error (permissions, malformed YAML, etc.) is fatal
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
