package partner

import (
	"context"

	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindAll finds customers matching the filter; Search matches first name, last name or email
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, int64, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// Delete deletes a customer
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsWithAttributes checks if another customer has the same first name, last name, email and phone.
	// excludeID is ignored when uuid.Nil.
	ExistsWithAttributes(ctx context.Context, attrs CustomerAttributes, excludeID uuid.UUID) (bool, error)
}
