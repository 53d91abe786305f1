package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig controls the API facade.
type ServerConfig struct {
	Addr                string
	EnablePlayground    bool
	EnableIntrospection bool
	MaxQueryDepth       int
	MaxQueryComplexity  int
	CORSOrigins         []string
}

// ScyllaConfig controls the cold tier session.
type ScyllaConfig struct {
	Hosts    []string
	Keyspace string
	Username string
	Password string
	// Timeout bounds every statement; not surfaced as an environment
	// variable, overridden in code where a caller needs to.
	Timeout time.Duration
}

// RedisConfig controls the hot tier client.
type RedisConfig struct {
	URL      string
	PoolSize int
}

// AnalyticsConfig controls the embedded analytics store. An empty Path
// keeps the store in memory.
type AnalyticsConfig struct {
	Enabled       bool
	Path          string
	BatchSize     int
	FlushInterval time.Duration
}

// Config is the full tracker configuration, loaded from the environment.
type Config struct {
	Server    ServerConfig
	Scylla    ScyllaConfig
	Redis     RedisConfig
	Analytics AnalyticsConfig
	LogLevel  string
}

// Load reads configuration from environment variables, applying documented
// defaults for anything unset. Call godotenv.Load before this when a .env
// file should participate.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_ADDR", "0.0.0.0:8080")
	v.SetDefault("ENABLE_PLAYGROUND", true)
	v.SetDefault("ENABLE_INTROSPECTION", true)
	v.SetDefault("MAX_QUERY_DEPTH", 10)
	v.SetDefault("MAX_QUERY_COMPLEXITY", 1000)
	v.SetDefault("SCYLLA_HOSTS", "127.0.0.1:9042")
	v.SetDefault("SCYLLA_KEYSPACE", "drone_ops")
	v.SetDefault("SCYLLA_USERNAME", "")
	v.SetDefault("SCYLLA_PASSWORD", "")
	v.SetDefault("REDIS_URL", "redis://127.0.0.1:6379")
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("ANALYTICS_ENABLED", true)
	v.SetDefault("ANALYTICS_DB_PATH", "")
	v.SetDefault("ANALYTICS_BATCH_SIZE", 100)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")

	cfg := &Config{
		Server: ServerConfig{
			Addr:                v.GetString("SERVER_ADDR"),
			EnablePlayground:    v.GetBool("ENABLE_PLAYGROUND"),
			EnableIntrospection: v.GetBool("ENABLE_INTROSPECTION"),
			MaxQueryDepth:       v.GetInt("MAX_QUERY_DEPTH"),
			MaxQueryComplexity:  v.GetInt("MAX_QUERY_COMPLEXITY"),
			CORSOrigins:         splitList(v.GetString("CORS_ORIGINS")),
		},
		Scylla: ScyllaConfig{
			Hosts:    splitList(v.GetString("SCYLLA_HOSTS")),
			Keyspace: v.GetString("SCYLLA_KEYSPACE"),
			Username: v.GetString("SCYLLA_USERNAME"),
			Password: v.GetString("SCYLLA_PASSWORD"),
			Timeout:  5 * time.Second,
		},
		Redis: RedisConfig{
			URL:      v.GetString("REDIS_URL"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		},
		Analytics: AnalyticsConfig{
			Enabled:       v.GetBool("ANALYTICS_ENABLED"),
			Path:          v.GetString("ANALYTICS_DB_PATH"),
			BatchSize:     v.GetInt("ANALYTICS_BATCH_SIZE"),
			FlushInterval: 5 * time.Second,
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("SERVER_ADDR must not be empty")
	}
	if c.Server.MaxQueryDepth <= 0 {
		return fmt.Errorf("MAX_QUERY_DEPTH must be positive, got %d", c.Server.MaxQueryDepth)
	}
	if c.Server.MaxQueryComplexity <= 0 {
		return fmt.Errorf("MAX_QUERY_COMPLEXITY must be positive, got %d", c.Server.MaxQueryComplexity)
	}
	if len(c.Scylla.Hosts) == 0 {
		return fmt.Errorf("SCYLLA_HOSTS must list at least one node")
	}
	if c.Scylla.Keyspace == "" {
		return fmt.Errorf("SCYLLA_KEYSPACE must not be empty")
	}
	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL must not be empty")
	}
	if c.Redis.PoolSize <= 0 {
		return fmt.Errorf("REDIS_POOL_SIZE must be positive, got %d", c.Redis.PoolSize)
	}
	if c.Analytics.Enabled && c.Analytics.BatchSize <= 0 {
		return fmt.Errorf("ANALYTICS_BATCH_SIZE must be positive, got %d", c.Analytics.BatchSize)
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
