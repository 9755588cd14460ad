package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	DatabaseURL      string `yaml:"database_url"`
	RedisURL         string `yaml:"redis_url"`
	ServerPort       string `yaml:"server_port"`
	AuthIssuerURL    string `yaml:"auth_issuer_url"`
	AuthClientID     string `yaml:"auth_client_id"`
	AuthClientSecret string `yaml:"auth_client_secret"`
	FrontendURL      string `yaml:"frontend_url"`
	TokenCacheTTL    string `yaml:"token_cache_ttl"`
	LogLevel         string `yaml:"log_level"`
}

// LoadFromFile loads config from a YAML file. database_url and
// auth_issuer_url are required.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	c := &Config{
		DatabaseURL:      f.DatabaseURL,
		RedisURL:         f.RedisURL,
		ServerPort:       f.ServerPort,
		AuthIssuerURL:    f.AuthIssuerURL,
		AuthClientID:     f.AuthClientID,
		AuthClientSecret: f.AuthClientSecret,
		FrontendURL:      f.FrontendURL,
		TokenCacheTTL:    time.Hour,
		LogLevel:         f.LogLevel,
	}
	if c.ServerPort == "" {
		c.ServerPort = "8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if f.TokenCacheTTL != "" {
		if d, err := time.ParseDuration(f.TokenCacheTTL); err == nil {
			c.TokenCacheTTL = d
		}
	}
	return c, c.validate()
}
