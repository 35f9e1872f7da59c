// Package cache provides a Redis client wrapper used to cache rendered PDF
// reports by user email, so a repeat download does not spin up Chromium again.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when no cached entry exists for a key.
var ErrMiss = errors.New("cache miss")

// Cache wraps a Redis client.
type Cache struct {
	Client *redis.Client
}

// ParseURL validates a Redis connection URL.
func ParseURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("cache URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	return opts, nil
}

// New creates a new cache client.
func New(ctx context.Context, url string) (*Cache, error) {
	opts, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging cache: %w", err)
	}

	return &Cache{Client: client}, nil
}

// ReportKey builds the cache key for one user's rendered report.
func ReportKey(email string) string {
	return "report:pdf:" + email
}

// GetReport returns the cached PDF for an email, or ErrMiss.
func (c *Cache) GetReport(ctx context.Context, email string) ([]byte, error) {
	data, err := c.Client.Get(ctx, ReportKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("reading cached report: %w", err)
	}
	return data, nil
}

// SetReport caches a rendered PDF for an email with the given TTL.
func (c *Cache) SetReport(ctx context.Context, email string, pdf []byte, ttl time.Duration) error {
	if err := c.Client.Set(ctx, ReportKey(email), pdf, ttl).Err(); err != nil {
		return fmt.Errorf("caching report: %w", err)
	}
	return nil
}

// InvalidateReport drops the cached PDF for an email. Called after a new
// submission so a stale report is never served.
func (c *Cache) InvalidateReport(ctx context.Context, email string) error {
	if err := c.Client.Del(ctx, ReportKey(email)).Err(); err != nil {
		return fmt.Errorf("invalidating report: %w", err)
	}
	return nil
}

// Close shuts down the cache client.
func (c *Cache) Close() error {
	return c.Client.Close()
}

// HealthCheck verifies the cache connection is alive.
func (c *Cache) HealthCheck(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}
