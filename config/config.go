package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Media storage configuration
	MediaBucket string
	MediaFolder string

	// Cache behavior
	CacheTTL               time.Duration
	CacheReadsEnabled      bool
	CacheInvalidateOnWrite bool

	// MediaPurgeOnDelete controls whether deleting a recipe also removes
	// its stored image object. Off by default: deletes leave the object
	// behind, the documented orphaning trade-off.
	MediaPurgeOnDelete bool
}

// LoadConfig creates a new Config instance from environment variables,
// falling back to development defaults for anything unset.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "recipehub"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisURL:      getEnv("REDIS_URL", ""),

		MediaBucket: getEnv("MEDIA_BUCKET_NAME", "recipehub-recipe-images"),
		MediaFolder: getEnv("MEDIA_FOLDER", "recipes"),
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	ttlSeconds, err := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "3600"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL_SECONDS: %w", err)
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	cfg.CacheReadsEnabled, err = getEnvBool("CACHE_READS_ENABLED", true)
	if err != nil {
		return nil, err
	}
	cfg.CacheInvalidateOnWrite, err = getEnvBool("CACHE_INVALIDATE_ON_WRITE", false)
	if err != nil {
		return nil, err
	}
	cfg.MediaPurgeOnDelete, err = getEnvBool("MEDIA_PURGE_ON_DELETE", false)
	if err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
