package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Honest-88/pos-sample/internal/domain/shared"
)

const defaultSweepInterval = 5 * time.Minute

// InMemoryIdempotencyStore keeps sale submission keys in process memory.
// It backs POST /sales when Redis is not configured, so claims are not
// shared between server instances.
type InMemoryIdempotencyStore struct {
	mu        sync.Mutex
	deadlines map[string]time.Time
	now       func() time.Time
	sweep     time.Duration
	done      chan struct{}
	stopped   sync.WaitGroup
	closeOnce sync.Once
}

// InMemoryOption configures an InMemoryIdempotencyStore
type InMemoryOption func(*InMemoryIdempotencyStore)

// WithSweepInterval sets how often expired keys are dropped
func WithSweepInterval(d time.Duration) InMemoryOption {
	return func(s *InMemoryIdempotencyStore) {
		if d > 0 {
			s.sweep = d
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) InMemoryOption {
	return func(s *InMemoryIdempotencyStore) {
		s.now = now
	}
}

// NewInMemoryIdempotencyStore starts a store and its sweeper; call Close to stop it
func NewInMemoryIdempotencyStore(opts ...InMemoryOption) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		deadlines: make(map[string]time.Time),
		now:       time.Now,
		sweep:     defaultSweepInterval,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.stopped.Add(1)
	go s.sweepLoop()
	return s
}

// Claim holds key until ttl elapses. A key whose deadline has passed is
// claimable again.
func (s *InMemoryIdempotencyStore) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if deadline, held := s.deadlines[key]; held && now.Before(deadline) {
		return false, nil
	}
	s.deadlines[key] = now.Add(ttl)
	return true, nil
}

// Release forgets key; unknown keys are ignored
func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.deadlines, key)
	s.mu.Unlock()
	return nil
}

// Close stops the sweeper. It may be called more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.stopped.Wait()
	})
	return nil
}

// Size counts stored keys, including expired ones not yet swept
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deadlines)
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	defer s.stopped.Done()

	ticker := time.NewTicker(s.sweep)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.dropExpired()
		}
	}
}

func (s *InMemoryIdempotencyStore) dropExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, deadline := range s.deadlines {
		if !now.Before(deadline) {
			delete(s.deadlines, key)
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
