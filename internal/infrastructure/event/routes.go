package event

import (
	"slices"
	"sync"

	"github.com/Honest-88/pos-sample/internal/domain/shared"
)

// routes maps event types to subscribed handlers.
type routes struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	catchAll []shared.EventHandler
	count    int
}

// add subscribes handler to eventTypes, or to every type when none are given.
func (r *routes) add(handler shared.EventHandler, eventTypes []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.count++
	if len(eventTypes) == 0 {
		r.catchAll = append(r.catchAll, handler)
		return
	}
	if r.byType == nil {
		r.byType = make(map[string][]shared.EventHandler)
	}
	for _, eventType := range slices.Compact(slices.Sorted(slices.Values(eventTypes))) {
		r.byType[eventType] = append(r.byType[eventType], handler)
	}
}

// match returns the handlers for eventType in subscription order, catch-all handlers last.
func (r *routes) match(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Concat(r.byType[eventType], r.catchAll)
}

func (r *routes) subscriptions() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}
