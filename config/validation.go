package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable in the current
// environment. Development and test fall back to defaults, so only
// structural problems are rejected there; production must be explicit.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.ServerPort == "" {
		errors = append(errors, "server port must be set")
	}
	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBName == "" {
		errors = append(errors, "database host, port and name must be set")
	}
	if cfg.RedisURL == "" && (cfg.RedisHost == "" || cfg.RedisPort == "") {
		errors = append(errors, "either REDIS_URL or REDIS_HOST/REDIS_PORT must be set")
	}
	if cfg.MediaBucket == "" {
		errors = append(errors, "media bucket name must be set")
	}
	if cfg.MediaFolder == "" {
		errors = append(errors, "media folder must be set")
	}
	if cfg.CacheTTL <= 0 {
		errors = append(errors, "cache TTL must be positive")
	}

	if GetEnvironment() == Production {
		if cfg.DBPassword == "" || cfg.DBPassword == "postgres" {
			errors = append(errors, "DB_PASSWORD must be set explicitly in production")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
