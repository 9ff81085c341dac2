package cache

import (
	"fmt"

	"gopkg.in/redis.v5"
)

// RedisRequestCacher keeps each user's activity in a Redis list capped at MaxNumber entries.
type RedisRequestCacher struct {
	MaxNumber int
	Client    *redis.Client
}

func CreateRedisCache(client *redis.Client, maxNumber int) *RedisRequestCacher {
	return &RedisRequestCacher{MaxNumber: maxNumber, Client: client}
}

func (cacher *RedisRequestCacher) Write(key string, value []byte) error {
	if err := cacher.Client.LPush(key, value).Err(); err != nil {
		return fmt.Errorf("failed to push activity for %s: %w", key, err)
	}

	if err := cacher.Client.LTrim(key, 0, cacher.last()).Err(); err != nil {
		return fmt.Errorf("failed to trim activity for %s: %w", key, err)
	}

	return nil
}

func (cacher *RedisRequestCacher) Read(key string) ([]string, error) {
	entries, err := cacher.Client.LRange(key, 0, cacher.last()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read activity for %s: %w", key, err)
	}
	return entries, nil
}

func (cacher *RedisRequestCacher) last() int64 {
	return int64(cacher.MaxNumber - 1)
}
