package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom
// rules. Log level normalization is handled in ApplyDefaults, not here;
// validation accepts both cases.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

// validateCustomRules performs validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	if cfg.Catalog.Type == "badger" {
		if path, _ := cfg.Catalog.Badger["db_path"].(string); path == "" {
			inMemory, _ := cfg.Catalog.Badger["in_memory"].(bool)
			if !inMemory {
				return fmt.Errorf("catalog.badger: db_path is required unless in_memory is set")
			}
		}
	}

	if cfg.Content.Type == "filesystem" {
		if path, _ := cfg.Content.Filesystem["path"].(string); path == "" {
			return fmt.Errorf("content.filesystem: path is required")
		}
	}

	if cfg.Queue.Type == "amqp" {
		if url, _ := cfg.Queue.Amqp["url"].(string); url == "" {
			return fmt.Errorf("queue.amqp: url is required")
		}
	}

	if cfg.Tokens.Type == "redis" {
		if addr, _ := cfg.Tokens.Redis["addr"].(string); addr == "" {
			return fmt.Errorf("tokens.redis: addr is required")
		}
	}

	// Seed tokens need somewhere to live
	if cfg.Tokens.Type != "memory" {
		for i, user := range cfg.Users.Seed {
			if user.Token != "" {
				return fmt.Errorf("users.seed[%d]: seed tokens are only supported with the memory token cache", i)
			}
		}
	}

	seen := make(map[string]bool)
	for i, user := range cfg.Users.Seed {
		if seen[user.ID] {
			return fmt.Errorf("users.seed[%d]: duplicate user id %q", i, user.ID)
		}
		seen[user.ID] = true
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly
// messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
