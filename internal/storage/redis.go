package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwvelando/housing-calculator/internal/config"
	"github.com/redis/go-redis/v9"
)

// RedisKV stores values in Redis without expiry.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV connects to Redis and verifies the connection.
func NewRedisKV(ctx context.Context, cfg config.RedisConfig) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Address, err)
	}
	return &RedisKV{client: client}, nil
}

// Get implements KV.
func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

// Set implements KV.
func (r *RedisKV) Set(ctx context.Context, key string, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the client connections.
func (r *RedisKV) Close() error {
	return r.client.Close()
}
