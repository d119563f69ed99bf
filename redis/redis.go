package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/isaiahpere/notion-clony/internal/logger"
)

// Cache wraps a redis client with the versioned-key scheme used for
// document listings. A nil *Cache (redis unavailable) is a valid
// receiver: every method becomes a no-op / miss, so the app keeps
// working without redis.
type Cache struct {
	client *redis.Client
}

func NewCache(address string) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr: address,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		logger.Sugar.Warnw("Redis not available. Running without cache.", "addr", address, "err", err)
		return nil
	}

	logger.Sugar.Infow("Redis connected successfully.", "addr", address)
	return &Cache{client: client}
}

func NewCacheWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get unmarshals the cached value into dest. The bool reports a hit.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

// GetVersion returns the current version counter for a key, 0 when the
// counter does not exist yet.
func (c *Cache) GetVersion(ctx context.Context, key string) int64 {
	if c == nil {
		return 0
	}
	v, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return v
}

// IncrementVersion bumps a version counter so every previously cached
// listing under the old version becomes unreachable.
func (c *Cache) IncrementVersion(ctx context.Context, key string) {
	if c == nil {
		return
	}
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		logger.Sugar.Warnw("failed to bump cache version", "key", key, "err", err)
	}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
