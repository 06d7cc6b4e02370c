package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Honest-88/pos-sample/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the connectivity check made when a client is opened
const pingTimeout = 5 * time.Second

// NewRedisClient opens a Redis client and verifies the server is reachable
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}
