package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.True(t, cfg.Server.EnablePlayground)
	assert.True(t, cfg.Server.EnableIntrospection)
	assert.Equal(t, 10, cfg.Server.MaxQueryDepth)
	assert.Equal(t, 1000, cfg.Server.MaxQueryComplexity)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)

	assert.Equal(t, []string{"127.0.0.1:9042"}, cfg.Scylla.Hosts)
	assert.Equal(t, "drone_ops", cfg.Scylla.Keyspace)
	assert.Empty(t, cfg.Scylla.Username)
	assert.Empty(t, cfg.Scylla.Password)

	assert.Equal(t, "redis://127.0.0.1:6379", cfg.Redis.URL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", "127.0.0.1:9999")
	t.Setenv("ENABLE_PLAYGROUND", "false")
	t.Setenv("MAX_QUERY_DEPTH", "4")
	t.Setenv("SCYLLA_HOSTS", "10.0.0.1:9042, 10.0.0.2:9042")
	t.Setenv("SCYLLA_KEYSPACE", "ops_test")
	t.Setenv("REDIS_POOL_SIZE", "32")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://ops.example.com,https://dash.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.False(t, cfg.Server.EnablePlayground)
	assert.Equal(t, 4, cfg.Server.MaxQueryDepth)
	assert.Equal(t, []string{"10.0.0.1:9042", "10.0.0.2:9042"}, cfg.Scylla.Hosts)
	assert.Equal(t, "ops_test", cfg.Scylla.Keyspace)
	assert.Equal(t, 32, cfg.Redis.PoolSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t,
		[]string{"https://ops.example.com", "https://dash.example.com"},
		cfg.Server.CORSOrigins)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero depth", "MAX_QUERY_DEPTH", "0"},
		{"negative complexity", "MAX_QUERY_COMPLEXITY", "-5"},
		{"zero pool", "REDIS_POOL_SIZE", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestEnvironmentsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "environments.yaml")

	envs, err := LoadEnvironmentsFromFile(path)
	require.NoError(t, err)
	require.Len(t, envs.Environments, 1)
	assert.Equal(t, "local", envs.Environments[0].Name)

	envs.Environments = append(envs.Environments, Environment{
		Name: "staging",
		URL:  "https://tracker-staging.example.com",
	})

	data, err := os.ReadFile(path)
	assert.Error(t, err, "file should not exist until saved")
	_ = data

	selected, err := envs.Get("")
	require.NoError(t, err)
	assert.Equal(t, "local", selected.Name)

	staging, err := envs.Get("staging")
	require.NoError(t, err)
	assert.Equal(t, "https://tracker-staging.example.com", staging.URL)

	_, err = envs.Get("production")
	assert.Error(t, err)
}
