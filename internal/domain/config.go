package domain

import "time"

// Config is the main application configuration, loaded by internal/config.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	History HistoryConfig `mapstructure:"history"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
	MCP     MCPConfig     `mapstructure:"mcp"`
}

// ServerConfig is the HTTP server configuration.
type ServerConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	RateBurst     int           `mapstructure:"rate_burst"`
}

// HistoryConfig selects and configures the calculation audit store.
// Backend is "sqlite", "postgres" or "none".
type HistoryConfig struct {
	Backend string `mapstructure:"backend"`

	SQLitePath string `mapstructure:"sqlite_path"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`

	MaxConns       int32         `mapstructure:"max_conns"`
	MinConns       int32         `mapstructure:"min_conns"`
	MaxConnLife    time.Duration `mapstructure:"max_conn_lifetime"`
	MigrationsPath string        `mapstructure:"migrations_path"`
}

// CacheConfig configures the deterministic result cache. Redis is an
// optional second tier; the in-process LRU is always on.
type CacheConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxEntries  int           `mapstructure:"max_entries"`
	RedisURL    string        `mapstructure:"redis_url"`
	DefaultTTL  time.Duration `mapstructure:"default_ttl"`
	PoolSize    int           `mapstructure:"pool_size"`
	PoolTimeout time.Duration `mapstructure:"pool_timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
}

// LoggingConfig configures the logrus logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MCPConfig configures the MCP tool server.
type MCPConfig struct {
	ServerName    string `mapstructure:"server_name"`
	ServerVersion string `mapstructure:"server_version"`
	TransportType string `mapstructure:"transport_type"`
}
