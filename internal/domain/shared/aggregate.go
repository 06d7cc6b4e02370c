package shared

// BaseAggregateRoot is embedded by every persisted aggregate: categories,
// products, customers, sales and users. Version backs optimistic locking and
// starts at 1; each in-memory edit moves it one past the stored row.
type BaseAggregateRoot struct {
	BaseEntity
	Version int           `gorm:"not null;default:1"`
	raised  []DomainEvent `gorm:"-"`
}

// NewBaseAggregateRoot returns a fresh root at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// GetVersion is the version the aggregate carries now
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// ExpectVersion fails with ErrConcurrencyConflict unless the aggregate is
// still at version, e.g. the version an edit form was loaded at
func (a *BaseAggregateRoot) ExpectVersion(version int) error {
	if a.Version != version {
		return ErrConcurrencyConflict
	}
	return nil
}

// MarkModified touches UpdatedAt and advances the version
func (a *BaseAggregateRoot) MarkModified() {
	a.Touch()
	a.Version++
}

// Raise queues an event to publish once the change is committed
func (a *BaseAggregateRoot) Raise(event DomainEvent) {
	a.raised = append(a.raised, event)
}

// TakeEvents returns the queued events and empties the queue
func (a *BaseAggregateRoot) TakeEvents() []DomainEvent {
	events := a.raised
	a.raised = nil
	return events
}
