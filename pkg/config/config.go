// Package config loads, defaults and validates the cabinet
// configuration, and builds the configured store implementations.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/marmos91/cabinet/internal/server"
)

// Config represents the complete cabinet configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (CABINET_*)
//  2. Configuration file (YAML)
//  3. Default values
//
// Store Configuration Pattern:
// Each backend section carries a Type selector plus type-specific
// sub-sections; only the sub-section matching the selected type is
// decoded, by the factory for that type.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Server contains process-wide settings
	Server ServerConfig `mapstructure:"server"`

	// HTTP configures the listener. Uses the server package's own config
	// type to avoid duplication.
	HTTP server.Config `mapstructure:"http"`

	// Catalog selects and configures the catalog store
	Catalog CatalogConfig `mapstructure:"catalog"`

	// Content selects and configures the content store
	Content ContentConfig `mapstructure:"content"`

	// Queue selects and configures the derivation job transport
	Queue QueueConfig `mapstructure:"queue"`

	// Tokens selects and configures the session token cache
	Tokens TokensConfig `mapstructure:"tokens"`

	// Users configures the user directory
	Users UsersConfig `mapstructure:"users"`

	// Workers configures the thumbnail consumers
	Workers WorkersConfig `mapstructure:"workers"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// ServerConfig contains process-wide settings.
type ServerConfig struct {
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`
}

// CatalogConfig specifies catalog store configuration.
type CatalogConfig struct {
	// Type specifies which catalog store implementation to use
	// Valid values: memory, badger
	Type string `mapstructure:"type" validate:"required,oneof=memory badger"`

	// Memory contains memory-specific configuration
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory"`

	// Badger contains BadgerDB-specific configuration
	// Only used when Type = "badger"
	Badger map[string]any `mapstructure:"badger"`
}

// ContentConfig specifies content store configuration.
type ContentConfig struct {
	// Type specifies which content store implementation to use
	// Valid values: memory, filesystem
	Type string `mapstructure:"type" validate:"required,oneof=memory filesystem"`

	// Memory contains memory-specific configuration
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory"`

	// Filesystem contains filesystem-specific configuration
	// Only used when Type = "filesystem"
	Filesystem map[string]any `mapstructure:"filesystem"`
}

// QueueConfig specifies derivation queue configuration.
type QueueConfig struct {
	// Type specifies which queue transport to use
	// Valid values: memory, amqp
	Type string `mapstructure:"type" validate:"required,oneof=memory amqp"`

	// Memory contains memory-specific configuration
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory"`

	// Amqp contains broker-specific configuration
	// Only used when Type = "amqp"
	Amqp map[string]any `mapstructure:"amqp"`
}

// TokensConfig specifies session token cache configuration.
type TokensConfig struct {
	// Type specifies which token cache implementation to use
	// Valid values: memory, redis
	Type string `mapstructure:"type" validate:"required,oneof=memory redis"`

	// Memory contains memory-specific configuration
	// Only used when Type = "memory"
	Memory map[string]any `mapstructure:"memory"`

	// Redis contains Redis-specific configuration
	// Only used when Type = "redis"
	Redis map[string]any `mapstructure:"redis"`
}

// UsersConfig configures the user directory.
//
// Account management is owned by an external service; this process only
// needs to resolve user ids. Seed entries let single-process deployments
// and tests run without that service.
type UsersConfig struct {
	// Seed lists users known at startup
	Seed []SeedUser `mapstructure:"seed" validate:"dive"`
}

// SeedUser is one pre-provisioned account.
type SeedUser struct {
	// ID is the user id catalog entries are owned by
	ID string `mapstructure:"id" validate:"required"`

	// Email is informational
	Email string `mapstructure:"email"`

	// Token, when set, is installed in the token cache at startup.
	// Only honored by the memory token cache; Redis-backed deployments
	// get their tokens from the external session service.
	Token string `mapstructure:"token"`
}

// WorkersConfig configures the thumbnail consumers.
type WorkersConfig struct {
	// Count is the number of concurrent derivation consumers
	Count int `mapstructure:"count" validate:"gte=0"`
}

// Load loads configuration from file, environment, and defaults.
//
// configPath may be empty, in which case the default location
// ($XDG_CONFIG_HOME/cabinet/config.yaml, falling back to
// ~/.config/cabinet) is searched and a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment variable and config file handling.
// Environment variables use the CABINET_ prefix with underscores, e.g.
// CABINET_LOGGING_LEVEL=DEBUG.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("CABINET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists. A missing
// file is acceptable; defaults apply.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path, preferring
// XDG_CONFIG_HOME over ~/.config.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "cabinet")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "cabinet")
}
