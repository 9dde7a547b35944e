// Package config loads process configuration from the environment.
// The result is an explicit value built once at startup and passed by
// reference; nothing downstream reads ambient global state, which
// keeps parallel test invocations with distinct credentials possible.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the process configuration.
type Config struct {
	// ShopURL is the shop base URL, e.g. "https://example.myshopify.com".
	ShopURL string

	// Token is the Admin API access token.
	Token string

	// Port is the HTTP listen port.
	Port string

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string

	// LogPretty enables human-readable console logs.
	LogPretty bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ShopURL:   os.Getenv("SHOP_URL"),
		Token:     os.Getenv("SHOP_TOKEN"),
		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getBoolEnv("LOG_PRETTY", false),
	}

	if cfg.ShopURL == "" {
		return Config{}, fmt.Errorf("SHOP_URL is required")
	}
	if cfg.Token == "" {
		return Config{}, fmt.Errorf("SHOP_TOKEN is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
