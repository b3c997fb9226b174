package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/clinscore-server/internal/config"
	"github.com/clinscore-server/internal/domain"
	"github.com/clinscore-server/internal/engine"
	"github.com/clinscore-server/internal/history"
	"github.com/clinscore-server/internal/mcp"
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

	// Stdout carries the MCP protocol stream, so logs go to stderr.
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

	server := mcp.NewServer(logger, &cfg.MCP, engine.New(logger, reg), reg, store)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down MCP server...")
		cancel()
	}()

	if err := server.Run(ctx); err != nil {
		log.Fatalf("MCP server failed: %v", err)
	}

	logger.Info("MCP server stopped")
}

func newLogger(cfg *domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

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
	return logger
}

func newHistoryStore(ctx context.Context, configManager *config.Manager, logger *logrus.Logger) (domain.HistoryStore, error) {
	cfg := configManager.GetHistoryConfig()

	switch cfg.Backend {
	case "sqlite":
		return history.NewSQLiteStore(cfg.SQLitePath, logger)
	case "postgres":
		return history.NewPostgresStoreFromConfig(ctx, cfg, logger)
	default:
		return history.NewNopStore(), nil
	}
}
