// Package redis connects the inventory cache to Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/platform/config"
)

const healthTimeout = time.Second

// Client is a connected go-redis client.
type Client struct {
	*redis.Client
}

// New connects and pings. It returns nil, nil when no URL is configured so
// callers can treat the cache as optional.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{Client: client}, nil
}

// Options maps the cache settings onto go-redis options. Zero values keep
// the go-redis defaults.
func Options(cfg config.RedisConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Health pings with a short deadline so a hung server fails readiness fast.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	return c.Ping(ctx).Err()
}
