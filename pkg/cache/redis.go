// Package cache holds the Redis read model for catalog items.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/playcatalog/pkg/config"
)

const (
	poolSize     = 10
	minIdleConns = 2
	maxRetries   = 3
	dialTimeout  = 5 * time.Second
	ioTimeout    = 3 * time.Second
	poolTimeout  = 4 * time.Second
	pingTimeout  = 2 * time.Second
)

// RedisClient wraps redis.Client with the pool settings used by every process.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient parses cfg.RedisURL, applies pool settings, and verifies
// connectivity via Ping before returning.
func NewRedisClient(cfg *config.Config) (*RedisClient, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	applyPoolOptions(opts)

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisClient{client: rdb}, nil
}

// applyPoolOptions overrides the go-redis defaults. Cache reads sit on the
// request path, so timeouts stay well under the HTTP handler deadline.
func applyPoolOptions(opts *redis.Options) {
	opts.PoolSize = poolSize
	opts.MinIdleConns = minIdleConns
	opts.MaxRetries = maxRetries
	opts.DialTimeout = dialTimeout
	opts.ReadTimeout = ioTimeout
	opts.WriteTimeout = ioTimeout
	opts.PoolTimeout = poolTimeout
}

// Ping checks the Redis connection health.
func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close shuts down the connection pool.
func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Client returns the underlying redis.Client for direct use.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
