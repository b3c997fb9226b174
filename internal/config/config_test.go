package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	m, err := NewManager()
	require.NoError(t, err)
	return m
}

func TestNewManagerDefaults(t *testing.T) {
	m := newTestManager(t)
	config := m.GetConfig()

	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "sqlite", config.History.Backend)
	assert.Equal(t, "clinscore.db", config.History.SQLitePath)
	assert.True(t, config.Cache.Enabled)
	assert.Equal(t, 1024, config.Cache.MaxEntries)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "stdio", config.MCP.TransportType)

	assert.NoError(t, m.Validate())
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("CLINSCORE_SERVER_PORT", "9095")
	t.Setenv("CLINSCORE_LOGGING_LEVEL", "debug")

	m := newTestManager(t)

	assert.Equal(t, 9095, m.GetServerConfig().Port)
	assert.Equal(t, "debug", m.GetConfig().Logging.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Manager)
		wantErr string
	}{
		{
			"bad port",
			func(m *Manager) { m.config.Server.Port = -1 },
			"invalid server port",
		},
		{
			"bad rate limit",
			func(m *Manager) { m.config.Server.RatePerSecond = 0 },
			"invalid rate limit",
		},
		{
			"unknown backend",
			func(m *Manager) { m.config.History.Backend = "dynamo" },
			"invalid history backend",
		},
		{
			"sqlite without path",
			func(m *Manager) { m.config.History.SQLitePath = "" },
			"sqlite path is required",
		},
		{
			"postgres without host",
			func(m *Manager) {
				m.config.History.Backend = "postgres"
				m.config.History.Host = ""
			},
			"history database host is required",
		},
		{
			"bad log level",
			func(m *Manager) { m.config.Logging.Level = "verbose" },
			"invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t)
			tt.mutate(m)
			assert.ErrorContains(t, m.Validate(), tt.wantErr)
		})
	}
}

func TestBackendNoneNeedsNothing(t *testing.T) {
	m := newTestManager(t)
	m.config.History.Backend = "none"
	m.config.History.SQLitePath = ""

	assert.NoError(t, m.Validate())
}

func TestPostgresConnectionString(t *testing.T) {
	m := newTestManager(t)
	m.config.History.Host = "db.internal"
	m.config.History.Port = 5433
	m.config.History.Username = "scorer"
	m.config.History.Password = "secret"
	m.config.History.Database = "audit"
	m.config.History.SSLMode = "require"

	assert.Equal(t,
		"host=db.internal port=5433 user=scorer password=secret dbname=audit sslmode=require",
		m.GetPostgresConnectionString())
}
