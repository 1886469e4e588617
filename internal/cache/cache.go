// Package cache is a thin Redis layer for job listings. A nil *Cache is
// valid and turns every operation into a no-op miss, so the service runs
// without Redis configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent.
var ErrMiss = errors.New("cache miss")

const jobsPrefix = "jobs:"

type Cache struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

func New(ctx context.Context, addr, password string, db int, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis", slog.String("addr", addr))
	return &Cache{client: client, logger: logger, ttl: ttl}, nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// ListingKey derives a stable cache key from the listing filter options.
func ListingKey(status, location string, employerID int64, skills []string) string {
	sorted := append([]string(nil), skills...)
	sort.Strings(sorted)
	return fmt.Sprintf("%s%s|%s|%d|%s", jobsPrefix, strings.ToLower(status), strings.ToLower(location),
		employerID, strings.ToLower(strings.Join(sorted, ",")))
}

// GetListing loads a cached listing into dest. Returns ErrMiss when cold.
func (c *Cache) GetListing(ctx context.Context, key string, dest any) error {
	if c == nil {
		return ErrMiss
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrMiss
	}
	if err != nil {
		c.logger.Error("cache get failed", slog.String("key", key), slog.Any("err", err))
		return ErrMiss
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached listing: %w", err)
	}
	return nil
}

// SetListing stores a listing under key with the configured TTL. Failures are
// logged, not surfaced; the cache is best-effort.
func (c *Cache) SetListing(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("cache marshal failed", slog.String("key", key), slog.Any("err", err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Error("cache set failed", slog.String("key", key), slog.Any("err", err))
	}
}

// InvalidateListings drops every cached listing. Called on any job mutation;
// listings are cheap to rebuild and TTL-bounded anyway.
func (c *Cache) InvalidateListings(ctx context.Context) {
	if c == nil {
		return
	}

	keys, err := c.client.Keys(ctx, jobsPrefix+"*").Result()
	if err != nil {
		c.logger.Error("cache keys scan failed", slog.Any("err", err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Error("cache invalidate failed", slog.Any("err", err))
	}
}
