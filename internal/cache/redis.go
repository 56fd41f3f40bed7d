package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wilsonwong1990/nhl-stats-tracker/internal/store"
)

// RedisCache stores cached team-season entries as JSON strings. Entries carry
// no expiry; freshness is decided by the Manager from CapturedAt.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Load returns the entry stored under key, or store.ErrCacheMiss.
func (rc *RedisCache) Load(ctx context.Context, key string) (*store.CachedEntry, error) {
	raw, err := rc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	var entry store.CachedEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	return &entry, nil
}

// Save overwrites the entry under key.
func (rc *RedisCache) Save(ctx context.Context, key string, entry store.CachedEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := rc.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
