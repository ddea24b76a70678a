package playback

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "playback:url:"

// RedisCache implements URLCache on Redis. Expiry is delegated to Redis
// key TTLs.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	url, err := c.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return url, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, url string, ttl time.Duration) error {
	return c.client.Set(ctx, keyPrefix+key, url, ttl).Err()
}

var _ URLCache = (*RedisCache)(nil)
