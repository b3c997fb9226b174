// Package config loads the application configuration from a YAML file,
// environment variables and defaults, in that order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/clinscore-server/internal/domain"
)

// Manager loads and holds the application configuration.
type Manager struct {
	config *domain.Config
}

// NewManager creates a configuration manager and loads the configuration.
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

func (m *Manager) loadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/clinscore/")

	viper.SetEnvPrefix("CLINSCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	// The config file is optional; defaults and environment variables
	// cover the standalone case.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.rate_per_second", 50)
	viper.SetDefault("server.rate_burst", 100)

	viper.SetDefault("history.backend", "sqlite")
	viper.SetDefault("history.sqlite_path", "clinscore.db")
	viper.SetDefault("history.host", "localhost")
	viper.SetDefault("history.port", 5432)
	viper.SetDefault("history.database", "clinscore")
	viper.SetDefault("history.username", "postgres")
	viper.SetDefault("history.password", "")
	viper.SetDefault("history.ssl_mode", "disable")
	viper.SetDefault("history.max_conns", 25)
	viper.SetDefault("history.min_conns", 2)
	viper.SetDefault("history.max_conn_lifetime", "5m")
	viper.SetDefault("history.migrations_path", "migrations")

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_entries", 1024)
	viper.SetDefault("cache.redis_url", "")
	viper.SetDefault("cache.default_ttl", "24h")
	viper.SetDefault("cache.pool_size", 10)
	viper.SetDefault("cache.pool_timeout", "4s")
	viper.SetDefault("cache.max_retries", 3)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")

	viper.SetDefault("mcp.server_name", "clinscore")
	viper.SetDefault("mcp.server_version", "1.0.0")
	viper.SetDefault("mcp.transport_type", "stdio")
}

// GetConfig returns the complete configuration.
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns the HTTP server configuration.
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetHistoryConfig returns the audit store configuration.
func (m *Manager) GetHistoryConfig() *domain.HistoryConfig {
	return &m.config.History
}

// GetCacheConfig returns the result cache configuration.
func (m *Manager) GetCacheConfig() *domain.CacheConfig {
	return &m.config.Cache
}

// Reload reloads the configuration from its sources.
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the loaded configuration.
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Server.RatePerSecond <= 0 {
		return fmt.Errorf("invalid rate limit: %v", config.Server.RatePerSecond)
	}

	switch config.History.Backend {
	case "sqlite":
		if config.History.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required")
		}
	case "postgres":
		if config.History.Host == "" {
			return fmt.Errorf("history database host is required")
		}
		if config.History.Database == "" {
			return fmt.Errorf("history database name is required")
		}
		if config.History.Username == "" {
			return fmt.Errorf("history database username is required")
		}
	case "none":
	default:
		return fmt.Errorf("invalid history backend: %s", config.History.Backend)
	}

	if config.Cache.Enabled && config.Cache.MaxEntries <= 0 {
		return fmt.Errorf("invalid cache size: %d", config.Cache.MaxEntries)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// GetPostgresConnectionString returns the postgres DSN for the audit store.
func (m *Manager) GetPostgresConnectionString() string {
	h := m.config.History
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		h.Host, h.Port, h.Username, h.Password, h.Database, h.SSLMode)
}
