// Package hotstore is the typed facade over the low-latency key/value
// tier. It holds only ephemeral TTL-bounded projections: rankings as
// sorted sets, asset state as hashes, rosters as sets, telemetry as JSON
// scalars, and engagement counters as hash fields.
package hotstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps a shared connection pool. It is safe for concurrent use.
type Client struct {
	rdb *redis.Client
	ttl TTLConfig
}

// Options configures the hot tier connection.
type Options struct {
	URL      string
	PoolSize int
	TTL      TTLConfig
}

// New connects to the hot tier and verifies the connection with a ping.
func New(ctx context.Context, opts Options) (*Client, error) {
	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if opts.PoolSize > 0 {
		redisOpts.PoolSize = opts.PoolSize
	}

	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping hot tier: %w", err)
	}

	ttl := opts.TTL
	if ttl == (TTLConfig{}) {
		ttl = DefaultTTLConfig()
	}
	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// TTL exposes the configured namespace expiries.
func (c *Client) TTL() TTLConfig {
	return c.ttl
}

// GetJSON reads and decodes a JSON scalar. A missing or expired key
// returns (nil, nil); the two are indistinguishable by design.
func GetJSON[T any](ctx context.Context, c *Client, key string) (*T, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("get", key, err)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, wrapErr("decode", key, err)
	}
	return &value, nil
}

// SetJSON encodes and stores a value with the given TTL.
func SetJSON[T any](ctx context.Context, c *Client, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return wrapErr("encode", key, err)
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return wrapErr("set", key, err)
	}
	return nil
}

// Delete removes one or more keys. Missing keys are not an error.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return wrapErr("del", keys[0], err)
	}
	return nil
}

// Exists reports whether the key is present and unexpired.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, wrapErr("exists", key, err)
	}
	return n > 0, nil
}
