package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/airwaves")
	t.Setenv("AUTH_ISSUER_URL", "https://auth.example.net")
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_CACHE_TTL", "15m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DatabaseURL != "postgres://localhost/airwaves" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if cfg.TokenCacheTTL != 15*time.Minute {
		t.Errorf("TokenCacheTTL = %v", cfg.TokenCacheTTL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default", cfg.LogLevel)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/airwaves")
	t.Setenv("AUTH_ISSUER_URL", "https://auth.example.net")
	t.Setenv("PORT", "")
	t.Setenv("TOKEN_CACHE_TTL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.TokenCacheTTL != time.Hour {
		t.Errorf("TokenCacheTTL = %v, want 1h", cfg.TokenCacheTTL)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	dir := t.TempDir() // no .env files here
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	t.Setenv("DATABASE_URL", "")
	t.Setenv("AUTH_ISSUER_URL", "")

	if _, err := Load(); !errors.Is(err, ErrMissingDatabaseURL) {
		t.Errorf("err = %v, want ErrMissingDatabaseURL", err)
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/airwaves")
	if _, err := Load(); !errors.Is(err, ErrMissingIssuerURL) {
		t.Errorf("err = %v, want ErrMissingIssuerURL", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `database_url: postgres://db.internal/airwaves
auth_issuer_url: https://auth.example.net
server_port: "8181"
token_cache_ttl: 30m
frontend_url: https://airwaves.example.net
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.DatabaseURL != "postgres://db.internal/airwaves" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.ServerPort != "8181" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if cfg.TokenCacheTTL != 30*time.Minute {
		t.Errorf("TokenCacheTTL = %v", cfg.TokenCacheTTL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default", cfg.LogLevel)
	}
}

func TestLoadFromFileMissingRequired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("redis_url: redis://localhost:6379\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); !errors.Is(err, ErrMissingDatabaseURL) {
		t.Errorf("err = %v, want ErrMissingDatabaseURL", err)
	}
}
