// Package redis wraps the go-redis client so repositories depend on an interface
package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDialTimeout bounds the startup ping
const DefaultDialTimeout = 5 * time.Second

// Options configures Redis client behavior
type Options struct {
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	UseTLS       bool
}

// NewClient creates a Redis client for a single instance. Redis connects
// lazily so no traffic is sent until the first command.
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.New("redis: endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	redisOpts := &redis.Options{
		Addr:         endpoint,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		MaxRetries:   opts.MaxRetries,
	}

	if opts.UseTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return redis.NewClient(redisOpts), nil
}

// Ping checks connectivity, giving up after DefaultDialTimeout
func Ping(ctx context.Context, client Client) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultDialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
