package persistence

import (
	"context"
	"fmt"

	"github.com/Honest-88/pos-sample/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// detailProfitExpr is the per-line margin; lines without a buying price contribute zero
const detailProfitExpr = "CASE WHEN sale_details.buying_price IS NULL THEN 0 " +
	"ELSE (sale_details.price - sale_details.buying_price) * sale_details.quantity END"

// GormReportRepository implements ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// SumProfit returns the margin over sale details whose sale date lies in the window
func (r *GormReportRepository) SumProfit(ctx context.Context, window report.Window) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	query := r.db.WithContext(ctx).
		Table("sale_details").
		Select("COALESCE(SUM(" + detailProfitExpr + "), 0) as total")
	if window.Bounded() {
		query = withinWindow(query.Joins("JOIN sales ON sales.id = sale_details.sale_id"), "sales.date", window)
	}

	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("sum profit: %w", err)
	}
	return result.Total, nil
}

// SummarizeSales returns sale count, revenue and profit over sales dated in the window
func (r *GormReportRepository) SummarizeSales(ctx context.Context, window report.Window) (int64, decimal.Decimal, decimal.Decimal, error) {
	var result struct {
		SaleCount int64
		Revenue   decimal.Decimal
		Profit    decimal.Decimal
	}

	query := r.db.WithContext(ctx).
		Table("sales").
		Select("COUNT(*) as sale_count, COALESCE(SUM(grand_total), 0) as revenue, COALESCE(SUM(profit), 0) as profit")
	query = withinWindow(query, "date", window)

	if err := query.Scan(&result).Error; err != nil {
		return 0, decimal.Zero, decimal.Zero, fmt.Errorf("summarize sales: %w", err)
	}
	return result.SaleCount, result.Revenue, result.Profit, nil
}

// withinWindow restricts column to [Start, End); a zero bound is left open.
// Bounds are compared in UTC, the zone sale dates are stored in.
func withinWindow(query *gorm.DB, column string, window report.Window) *gorm.DB {
	window = window.UTC()
	if !window.Start.IsZero() {
		query = query.Where(column+" >= ?", window.Start)
	}
	if !window.End.IsZero() {
		query = query.Where(column+" < ?", window.End)
	}
	return query
}

// Ensure GormReportRepository implements ReportRepository
var _ report.ReportRepository = (*GormReportRepository)(nil)
