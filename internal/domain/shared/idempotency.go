package shared

import (
	"context"
	"time"
)

// IdempotencyStore guards against double submission of the same sale.
// A key is held from a successful Claim until its TTL lapses or it is released.
type IdempotencyStore interface {
	// Claim reports true when key was free and is now held for ttl
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release frees key so the request may be retried, e.g. after a failed settlement
	Release(ctx context.Context, key string) error
	Close() error
}
