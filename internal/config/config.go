// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the environment-derived defaults for the commands.
// Command-line flags override every field.
type Config struct {
	// Marketplace
	MarketplaceURL  string
	CredentialsFile string
	HTTPTimeout     time.Duration
	HTTPRetries     int

	// Storage
	DataDir       string
	CatalogDir    string
	RegistryFile  string
	PostgresDSN   string
	ClickhouseDSN string

	// Update runs
	MinInterval time.Duration
	MaxItems    int
	Pages       int

	MetricsAddr string
}

// Load reads a .env file if present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		MarketplaceURL:  getEnv("MARKETPLACE_URL", "https://stockx.com"),
		CredentialsFile: getEnv("MARKETPLACE_CREDENTIALS", "../../credentials/credentials.json"),
		HTTPTimeout:     getDuration("MARKETPLACE_TIMEOUT", 30*time.Second),
		HTTPRetries:     getInt("MARKETPLACE_RETRIES", 0),

		DataDir:       getEnv("FEED_DATA_DIR", "../data"),
		CatalogDir:    getEnv("FEED_CATALOG_DIR", "."),
		RegistryFile:  getEnv("FEED_LAST_UPDATED", "last_updated_stockx.log"),
		PostgresDSN:   getEnv("FEED_POSTGRES_DSN", ""),
		ClickhouseDSN: getEnv("FEED_CLICKHOUSE_DSN", ""),

		MinInterval: getDuration("FEED_MIN_INTERVAL", 0),
		MaxItems:    getInt("FEED_LIMIT", 0),
		Pages:       getInt("FEED_PAGES", 1),

		MetricsAddr: getEnv("FEED_METRICS_ADDR", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

// getDuration accepts a Go duration ("90m") or a bare number of seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
