package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact about an aggregate, published after the change that raised it commits.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// EventHeader is embedded by concrete events to satisfy DomainEvent.
type EventHeader struct {
	ID        uuid.UUID `json:"event_id"`
	Type      string    `json:"event_type"`
	At        time.Time `json:"occurred_at"`
	Kind      string    `json:"aggregate_type"`
	Aggregate uuid.UUID `json:"aggregate_id"`
}

// NewEventHeader stamps a header for an eventType raised by the kind aggregate identified by id.
func NewEventHeader(eventType, kind string, id uuid.UUID) EventHeader {
	return EventHeader{
		ID:        uuid.New(),
		Type:      eventType,
		At:        time.Now().UTC(),
		Kind:      kind,
		Aggregate: id,
	}
}

func (h EventHeader) EventID() uuid.UUID     { return h.ID }
func (h EventHeader) EventType() string      { return h.Type }
func (h EventHeader) OccurredAt() time.Time  { return h.At }
func (h EventHeader) AggregateID() uuid.UUID { return h.Aggregate }
func (h EventHeader) AggregateType() string  { return h.Kind }

// EventHandler reacts to published events.
// EventTypes lists the types it subscribes to; an empty list subscribes to all of them.
type EventHandler interface {
	EventTypes() []string
	Handle(ctx context.Context, event DomainEvent) error
}

// EventPublisher is the outbound port services publish committed events through.
// Delivery failures stay with the publisher and never fail the write that raised the event.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}
