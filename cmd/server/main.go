package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/clinscore-server/internal/api"
	"github.com/clinscore-server/internal/cache"
	"github.com/clinscore-server/internal/config"
	"github.com/clinscore-server/internal/database"
	"github.com/clinscore-server/internal/domain"
	"github.com/clinscore-server/internal/engine"
	"github.com/clinscore-server/internal/history"
	"github.com/clinscore-server/internal/registry"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := newLogger(&cfg.Logging)

	reg, err := registry.New(logger)
	if err != nil {
		log.Fatalf("Failed to build calculator registry: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := newHistoryStore(ctx, configManager, logger)
	if err != nil {
		log.Fatalf("Failed to initialize history store: %v", err)
	}
	defer store.Close()

	opts := []engine.Option{}
	if cfg.Cache.Enabled {
		resultCache, err := cache.New(logger, &cfg.Cache)
		if err != nil {
			log.Fatalf("Failed to initialize result cache: %v", err)
		}
		defer resultCache.Close()
		opts = append(opts, engine.WithCache(resultCache))
	}

	eng := engine.New(logger, reg, opts...)
	server := api.NewServer(logger, &cfg.Server, eng, reg, store)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"host":    cfg.Server.Host,
		"port":    cfg.Server.Port,
		"history": cfg.History.Backend,
	}).Info("Starting clinical scoring server")

	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}

	logger.Info("Server stopped")
}

func newLogger(cfg *domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Output == "stderr" {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newHistoryStore(ctx context.Context, configManager *config.Manager, logger *logrus.Logger) (domain.HistoryStore, error) {
	cfg := configManager.GetHistoryConfig()

	switch cfg.Backend {
	case "sqlite":
		return history.NewSQLiteStore(cfg.SQLitePath, logger)

	case "postgres":
		if cfg.MigrationsPath != "" {
			if err := runMigrations(cfg, logger); err != nil {
				return nil, err
			}
		}
		return history.NewPostgresStoreFromConfig(ctx, cfg, logger)

	case "none":
		return history.NewNopStore(), nil

	default:
		return nil, fmt.Errorf("unknown history backend: %s", cfg.Backend)
	}
}

func runMigrations(cfg *domain.HistoryConfig, logger *logrus.Logger) error {
	databaseURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)

	runner, err := database.NewMigrationRunner(databaseURL, cfg.MigrationsPath, logger)
	if err != nil {
		return fmt.Errorf("creating migration runner: %w", err)
	}
	defer runner.Close()

	return runner.Up()
}
