package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingDatabaseURL is returned when no database DSN is configured.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// ErrMissingIssuerURL is returned when the identity provider base URL is not configured.
var ErrMissingIssuerURL = errors.New("AUTH_ISSUER_URL is required")

// Config holds application configuration.
type Config struct {
	DatabaseURL      string        `yaml:"database_url" env:"DATABASE_URL"`
	RedisURL         string        `yaml:"redis_url" env:"REDIS_URL"`
	ServerPort       string        `yaml:"server_port" env:"PORT"`
	AuthIssuerURL    string        `yaml:"auth_issuer_url" env:"AUTH_ISSUER_URL"`
	AuthClientID     string        `yaml:"auth_client_id" env:"AUTH_CLIENT_ID"`
	AuthClientSecret string        `yaml:"auth_client_secret" env:"AUTH_CLIENT_SECRET"`
	FrontendURL      string        `yaml:"frontend_url" env:"FRONTEND_URL"`
	TokenCacheTTL    time.Duration `yaml:"token_cache_ttl" env:"TOKEN_CACHE_TTL"`
	LogLevel         string        `yaml:"log_level" env:"LOG_LEVEL"`
}

// Load builds config from environment variables.
// If DATABASE_URL is not set, Load tries .env.local and .env from the current
// directory first. DATABASE_URL and AUTH_ISSUER_URL are required.
func Load() (*Config, error) {
	if os.Getenv("DATABASE_URL") == "" {
		for _, name := range []string{".env.local", ".env"} {
			_ = godotenv.Load(name)
		}
	}
	c := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		ServerPort:       getEnvOrDefault("PORT", "8080"),
		AuthIssuerURL:    os.Getenv("AUTH_ISSUER_URL"),
		AuthClientID:     os.Getenv("AUTH_CLIENT_ID"),
		AuthClientSecret: os.Getenv("AUTH_CLIENT_SECRET"),
		FrontendURL:      os.Getenv("FRONTEND_URL"),
		TokenCacheTTL:    time.Hour,
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
	}
	if s := os.Getenv("TOKEN_CACHE_TTL"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			c.TokenCacheTTL = d
		}
	}
	return c, c.validate()
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.AuthIssuerURL == "" {
		return ErrMissingIssuerURL
	}
	return nil
}

// getEnvOrDefault returns the environment variable value or a default if unset.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
