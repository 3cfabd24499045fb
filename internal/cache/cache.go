// Package cache stores rendered forecast responses in Redis keyed by a hash
// of the request that produced them.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "condo-forecast:result:"

// Retry bounds for the initial connection.
const (
	connectInitialInterval = 100 * time.Millisecond
	connectMaxInterval     = 2 * time.Second
	connectMaxElapsedTime  = 15 * time.Second
)

// Connect parses redisURL and pings the server, retrying with exponential
// backoff until it answers, ctx is done or the retry budget runs out. A
// malformed URL fails immediately.
func Connect(ctx context.Context, logger *zap.Logger, redisURL string) (*redis.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = connectInitialInterval
	b.MaxInterval = connectMaxInterval
	b.MaxElapsedTime = connectMaxElapsedTime

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		pingErr := client.Ping(ctx).Err()
		if pingErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(pingErr)
		}
		logger.Warn("redis not reachable, retrying",
			zap.String("op", "cache.Connect"),
			zap.Int("attempt", attempt),
			zap.Error(pingErr),
		)
		return pingErr
	}, backoff.WithContext(b, ctx))
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("connected to redis",
		zap.String("op", "cache.Connect"),
		zap.String("addr", opts.Addr),
		zap.Int("attempts", attempt),
	)
	return client, nil
}

// Cache is a Redis-backed byte cache with a fixed TTL.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a Cache. A non-positive ttl stores entries without expiry.
func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{
		client: client,
		prefix: keyPrefix,
		ttl:    ttl,
	}
}

// Get returns the cached value and whether it was present.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores value under key.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, c.prefix+key, value, c.ttl).Err()
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Key hashes the parts into a cache key. Each part is length-prefixed so
// different splits of the same bytes hash differently.
func Key(parts ...[]byte) string {
	d := xxhash.New()
	for _, part := range parts {
		_, _ = d.WriteString(strconv.Itoa(len(part)))
		_, _ = d.WriteString(":")
		_, _ = d.Write(part)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
