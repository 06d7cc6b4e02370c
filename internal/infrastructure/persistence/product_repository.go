package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Honest-88/pos-sample/internal/domain/catalog"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	return r.find(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
}

// FindByStatus finds products with the given status
func (r *GormProductRepository) FindByStatus(ctx context.Context, status catalog.Status, filter shared.Filter) ([]catalog.Product, int64, error) {
	return r.find(r.db.WithContext(ctx).Model(&catalog.Product{}).Where("status = ?", status), filter)
}

func (r *GormProductRepository) find(query *gorm.DB, filter shared.Filter) ([]catalog.Product, int64, error) {
	return findPage[catalog.Product](query, productListing, filter)
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return countMatching(r.db.WithContext(ctx).Model(&catalog.Product{}), productListing, filter)
}

// SearchByName returns products whose name contains term, case-insensitive, ordered by name
func (r *GormProductRepository) SearchByName(ctx context.Context, term string, limit int) ([]catalog.Product, error) {
	if limit <= 0 {
		limit = catalog.SearchLimit
	}

	var products []catalog.Product
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name ASC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// SaveWithLock saves an edited product with optimistic locking (checks version)
func (r *GormProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ? AND version = ?", product.ID, product.GetVersion()-1).
		UpdateColumns(map[string]interface{}{
			"name":          product.Name,
			"description":   product.Description,
			"status":        product.Status,
			"category_id":   product.CategoryID,
			"buying_price":  product.BuyingPrice,
			"price":         product.Price,
			"quantity":      product.Quantity,
			"total_amount":  product.TotalAmount,
			"profit_amount": product.ProfitAmount,
			"version":       product.GetVersion(),
			"updated_at":    product.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	if _, err := r.FindByID(ctx, product.ID); err != nil {
		return err
	}
	return shared.ErrConcurrencyConflict
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsWithAttributes checks if another product carries exactly the same attributes
func (r *GormProductRepository) ExistsWithAttributes(ctx context.Context, attrs catalog.ProductAttributes, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("name = ? AND description = ? AND status = ? AND category_id = ?",
			strings.TrimSpace(attrs.Name), attrs.Description, attrs.Status, attrs.CategoryID).
		Where("buying_price = ? AND price = ? AND quantity = ?",
			attrs.BuyingPrice, attrs.Price, attrs.Quantity)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DecrementStock removes qty units with a single conditional UPDATE so that
// concurrent sales can never drive quantity below zero. The version is bumped
// so an edit loaded before the sale fails its lock.
func (r *GormProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int, amount decimal.Decimal) error {
	if qty <= 0 {
		return shared.NewValidationError("Quantity must be positive")
	}

	result := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		UpdateColumns(map[string]interface{}{
			"quantity":     gorm.Expr("quantity - ?", qty),
			"total_amount": gorm.Expr("total_amount - ?", amount),
			"updated_at":   time.Now(),
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Nothing matched: either the product is gone or its stock is short.
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return shared.ErrInsufficientStock
}

// SumQuantity returns the total on-hand quantity across all products
func (r *GormProductRepository) SumQuantity(ctx context.Context) (int64, error) {
	var result struct {
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Scan(&result).Error; err != nil {
		return 0, err
	}
	return result.Total, nil
}

// SumTotalAmount returns the total stock value across all products
func (r *GormProductRepository) SumTotalAmount(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
