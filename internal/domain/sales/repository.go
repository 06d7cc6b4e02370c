package sales

import (
	"context"
	"time"

	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleFilter narrows a sale listing
type SaleFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	From       *time.Time // inclusive
	To         *time.Time // exclusive
}

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale with its details ordered by line number
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindAll finds sales matching the filter, most recent first
	FindAll(ctx context.Context, filter SaleFilter) ([]Sale, int64, error)

	// Create inserts the sale header without its details
	Create(ctx context.Context, sale *Sale) error

	// CreateDetail inserts a single sale detail
	CreateDetail(ctx context.Context, detail *SaleDetail) error

	// FindDetails returns the persisted details of a sale ordered by line number
	FindDetails(ctx context.Context, saleID uuid.UUID) ([]SaleDetail, error)

	// UpdateTotals writes the derived totals of a sale
	UpdateTotals(ctx context.Context, sale *Sale) error

	// Delete deletes a sale and, by cascade, its details
	Delete(ctx context.Context, id uuid.UUID) error
}
