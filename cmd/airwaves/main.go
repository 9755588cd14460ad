package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/sebbyk/airwaves/internal/auth"
	"github.com/sebbyk/airwaves/internal/cache"
	"github.com/sebbyk/airwaves/internal/config"
	"github.com/sebbyk/airwaves/internal/idp"
	"github.com/sebbyk/airwaves/internal/server"
	"github.com/sebbyk/airwaves/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Optional config file path (YAML); else use environment variables")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	ctx := context.Background()

	// Locate migrations relative to the working directory, falling back to
	// the binary's directory for container images.
	absMigrations, err := filepath.Abs("migrations")
	if err != nil {
		absMigrations = "migrations"
	}
	if _, err := os.Stat(absMigrations); err != nil {
		if exe, e := os.Executable(); e == nil {
			absMigrations = filepath.Join(filepath.Dir(exe), "migrations")
		}
	}

	if err := store.WaitForDatabase(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("database unreachable")
	}
	if err := store.RunMigrations(cfg.DatabaseURL, "file://"+absMigrations); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connect failed")
	}
	defer pg.Close()

	// Connect to Redis if REDIS_URL is configured.
	var rds *cache.Redis
	var appStore store.Store = pg
	if cfg.RedisURL != "" {
		rds, err = cache.New(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer rds.Close()

		if err := rds.Ping(ctx); err != nil {
			logger.Fatal().Err(err).Msg("redis ping failed")
		}

		appStore = store.NewCachedStore(pg, rds, logger)
		logger.Info().Msg("redis connected (caching enabled)")
	} else {
		logger.Info().Msg("redis disabled (REDIS_URL not set)")
	}

	provider := idp.New(cfg.AuthIssuerURL, cfg.AuthClientID, cfg.AuthClientSecret)
	validator := auth.NewValidator(provider, rds, cfg.TokenCacheTTL, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(appStore, validator, provider, cfg, logger)
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
