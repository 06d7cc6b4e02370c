package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProfitReport is the profit earned over one period
type ProfitReport struct {
	Period    Period          `json:"period"`
	Reference time.Time       `json:"reference_date"`
	Start     *time.Time      `json:"start,omitempty"`
	End       *time.Time      `json:"end,omitempty"`
	Profit    decimal.Decimal `json:"profit"`
}

// ProfitSummary holds the profit for every period around one reference date
type ProfitSummary struct {
	Reference time.Time       `json:"reference_date"`
	Day       decimal.Decimal `json:"day"`
	Week      decimal.Decimal `json:"week"`
	Month     decimal.Decimal `json:"month"`
	All       decimal.Decimal `json:"all"`
}

// GrandTotals is the stock position across the whole catalog
type GrandTotals struct {
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// SalesSummary aggregates sales recorded in a window
type SalesSummary struct {
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	SaleCount   int64           `json:"sale_count"`
	Revenue     decimal.Decimal `json:"revenue"`
	Profit      decimal.Decimal `json:"profit"`
}

// ReportRepository defines the aggregate queries behind the reports
type ReportRepository interface {
	// SumProfit returns Σ (price - buying_price) * quantity over sale details whose
	// sale date lies in the window. Details without a buying price contribute zero.
	// An unbounded window covers every detail. Returns zero when nothing matches.
	SumProfit(ctx context.Context, window Window) (decimal.Decimal, error)

	// SummarizeSales returns sale count, Σ grand_total and Σ profit over the window
	SummarizeSales(ctx context.Context, window Window) (count int64, revenue, profit decimal.Decimal, err error)
}
