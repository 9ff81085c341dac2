package config

import (
	"fmt"

	"gopkg.in/redis.v5"
)

func SetupRedis(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.URL,
	})

	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.URL, err)
	}

	return client, nil
}
