package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockscope/backend/pkg/config"
	"github.com/stockscope/backend/pkg/logger"
)

// Client wraps the go-redis client. When Redis is disabled in config the
// wrapper is still usable; callers get cache misses instead of errors.
type Client struct {
	rdb     *redis.Client
	enabled bool
	logger  *logger.Logger
}

// New creates a new Redis client from config.
func New(cfg *config.Config, log *logger.Logger) (*Client, error) {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, caching is a no-op")
		return &Client{enabled: false, logger: log}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Client{rdb: rdb, enabled: true, logger: log}, nil
}

// Enabled reports whether Redis is configured and reachable.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Redis returns the underlying go-redis client.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
