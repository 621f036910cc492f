package config

import (
	"strings"
	"time"
)

// ApplyDefaults sets default values for any unspecified configuration
// fields. Called after loading from file and environment, so zero values
// are replaced and explicit values preserved.
//
// The defaults describe a self-contained single-process deployment:
// everything in memory, one worker, no external services.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyServerDefaults(&cfg.Server)
	applyHTTPDefaults(cfg)
	applyStoreDefaults(cfg)

	if cfg.Workers.Count == 0 {
		cfg.Workers.Count = 1
	}
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

func applyHTTPDefaults(cfg *Config) {
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 5000
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	// RequestsPerSecond zero means unlimited and stays zero
}

// applyStoreDefaults selects the memory implementation for every backend
// left unconfigured and initializes the type-specific maps.
func applyStoreDefaults(cfg *Config) {
	if cfg.Catalog.Type == "" {
		cfg.Catalog.Type = "memory"
	}
	if cfg.Catalog.Memory == nil {
		cfg.Catalog.Memory = make(map[string]any)
	}
	if cfg.Catalog.Badger == nil {
		cfg.Catalog.Badger = make(map[string]any)
	}
	if _, ok := cfg.Catalog.Badger["db_path"]; !ok {
		cfg.Catalog.Badger["db_path"] = "/var/lib/cabinet/catalog"
	}

	if cfg.Content.Type == "" {
		cfg.Content.Type = "memory"
	}
	if cfg.Content.Memory == nil {
		cfg.Content.Memory = make(map[string]any)
	}
	if cfg.Content.Filesystem == nil {
		cfg.Content.Filesystem = make(map[string]any)
	}
	if _, ok := cfg.Content.Filesystem["path"]; !ok {
		cfg.Content.Filesystem["path"] = "/var/lib/cabinet/content"
	}

	if cfg.Queue.Type == "" {
		cfg.Queue.Type = "memory"
	}
	if cfg.Queue.Memory == nil {
		cfg.Queue.Memory = make(map[string]any)
	}
	if cfg.Queue.Amqp == nil {
		cfg.Queue.Amqp = make(map[string]any)
	}
	if _, ok := cfg.Queue.Amqp["queue_name"]; !ok {
		cfg.Queue.Amqp["queue_name"] = "cabinet.thumbnails"
	}

	if cfg.Tokens.Type == "" {
		cfg.Tokens.Type = "memory"
	}
	if cfg.Tokens.Memory == nil {
		cfg.Tokens.Memory = make(map[string]any)
	}
	if cfg.Tokens.Redis == nil {
		cfg.Tokens.Redis = make(map[string]any)
	}
	if _, ok := cfg.Tokens.Redis["addr"]; !ok {
		cfg.Tokens.Redis["addr"] = "localhost:6379"
	}
}
