package cache

import (
	"context"
	"fmt"

	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/Honest-88/pos-sample/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// IdempotencyStoreFactory creates idempotency stores based on configuration
type IdempotencyStoreFactory struct {
	config config.IdempotencyConfig
	logger *zap.Logger
}

// IdempotencyStoreFactoryOption is a functional option for configuring the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewIdempotencyStoreFactory creates a new factory
func NewIdempotencyStoreFactory(cfg config.IdempotencyConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		config: cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns a Redis store when client is non-nil and answers a ping.
// Otherwise it falls back to an in-memory store if AllowMemoryFallback is set.
func (f *IdempotencyStoreFactory) CreateStore(ctx context.Context, client redis.UniversalClient) (shared.IdempotencyStore, error) {
	err := errRedisNotConfigured
	if client != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			f.logger.Info("using Redis idempotency store")
			return NewRedisIdempotencyStore(client, f.config.KeyPrefix), nil
		}
	}

	if !f.config.AllowMemoryFallback {
		return nil, fmt.Errorf("Redis required for idempotency but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
		"Duplicate submissions are only detected per instance.",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}

var errRedisNotConfigured = fmt.Errorf("no Redis client configured")
