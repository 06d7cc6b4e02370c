package catalog

import (
	"context"

	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SearchLimit caps the number of products returned by a name search
const SearchLimit = 10

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindAll finds all categories matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, int64, error)

	// FindByStatus finds categories with the given status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]Category, int64, error)

	// Count counts categories matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsWithAttributes checks if another category carries exactly the same attributes.
	// excludeID is ignored when uuid.Nil.
	ExistsWithAttributes(ctx context.Context, name, description string, status Status, excludeID uuid.UUID) (bool, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)

	// FindByStatus finds products with the given status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]Product, int64, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// SearchByName returns at most limit products whose name contains term, case-insensitive.
	// A limit <= 0 uses SearchLimit.
	SearchByName(ctx context.Context, term string, limit int) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock writes an edited product only if the stored version is still
	// the one it was loaded at (product.Version - 1). Returns shared.ErrNotFound if
	// the product is gone and shared.ErrConcurrencyConflict if it changed meanwhile.
	SaveWithLock(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsWithAttributes checks if another product carries exactly the same attributes.
	// excludeID is ignored when uuid.Nil.
	ExistsWithAttributes(ctx context.Context, attrs ProductAttributes, excludeID uuid.UUID) (bool, error)

	// DecrementStock atomically removes qty units and lowers total_amount by amount
	// in a single conditional statement and bumps the version. Returns shared.ErrNotFound if the product
	// does not exist and shared.ErrInsufficientStock if fewer than qty units remain.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int, amount decimal.Decimal) error

	// SumQuantity returns the total on-hand quantity across all products
	SumQuantity(ctx context.Context) (int64, error)

	// SumTotalAmount returns the total stock value across all products
	SumTotalAmount(ctx context.Context) (decimal.Decimal, error)
}
