package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/Honest-88/pos-sample/internal/domain/sales"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func orderByLineNo(db *gorm.DB) *gorm.DB {
	return db.Order("line_no ASC")
}

// FindByID finds a sale with its details ordered by line number
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Details", orderByLineNo).
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds sales matching the filter, most recent first by default
func (r *GormSaleRepository) FindAll(ctx context.Context, filter sales.SaleFilter) ([]sales.Sale, int64, error) {
	query := r.db.WithContext(ctx).Model(&sales.Sale{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("date < ?", filter.To.UTC())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	var result []sales.Sale
	if err := saleListing.page(query, filter.Filter).
		Preload("Details", orderByLineNo).
		Find(&result).Error; err != nil {
		return nil, 0, fmt.Errorf("find sales: %w", err)
	}
	return result, total, nil
}

// Create inserts the sale header without its details
func (r *GormSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(sale).Error; err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// CreateDetail inserts a single sale detail
func (r *GormSaleRepository) CreateDetail(ctx context.Context, detail *sales.SaleDetail) error {
	if err := r.db.WithContext(ctx).Create(detail).Error; err != nil {
		return fmt.Errorf("create sale detail: %w", err)
	}
	return nil
}

// FindDetails returns the persisted details of a sale ordered by line number
func (r *GormSaleRepository) FindDetails(ctx context.Context, saleID uuid.UUID) ([]sales.SaleDetail, error) {
	var details []sales.SaleDetail
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("line_no ASC").
		Find(&details).Error; err != nil {
		return nil, fmt.Errorf("find sale details: %w", err)
	}
	return details, nil
}

// UpdateTotals writes the derived totals of a sale
func (r *GormSaleRepository) UpdateTotals(ctx context.Context, sale *sales.Sale) error {
	result := r.db.WithContext(ctx).
		Model(&sales.Sale{}).
		Where("id = ?", sale.ID).
		UpdateColumns(map[string]interface{}{
			"sub_total":     sale.SubTotal,
			"tax_amount":    sale.TaxAmount,
			"grand_total":   sale.GrandTotal,
			"amount_change": sale.AmountChange,
			"profit":        sale.Profit,
			"updated_at":    sale.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("update sale totals: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a sale and its details
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Explicit so the details go even where the driver ignores the FK cascade.
		if err := tx.Where("sale_id = ?", id).Delete(&sales.SaleDetail{}).Error; err != nil {
			return fmt.Errorf("delete sale details: %w", err)
		}
		result := tx.Delete(&sales.Sale{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("delete sale: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
