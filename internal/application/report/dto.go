package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfitResponse is the profit earned over one period window
type ProfitResponse struct {
	Period string          `json:"period"`
	Start  *time.Time      `json:"start,omitempty"`
	End    *time.Time      `json:"end,omitempty"`
	Profit decimal.Decimal `json:"profit"`
}

// ProfitSummaryResponse holds the profit for every period around a reference date
type ProfitSummaryResponse struct {
	ReferenceDate time.Time       `json:"reference_date"`
	Day           decimal.Decimal `json:"day"`
	Week          decimal.Decimal `json:"week"`
	Month         decimal.Decimal `json:"month"`
	All           decimal.Decimal `json:"all"`
}

// GrandTotalsResponse is the on-hand stock across the catalog
type GrandTotalsResponse struct {
	TotalQuantity int64           `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// SalesSummaryFilter selects the date range of a sales summary.
// To is inclusive; both bounds are calendar dates.
type SalesSummaryFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// SalesSummaryResponse aggregates the sales recorded in a date range
type SalesSummaryResponse struct {
	From      *time.Time      `json:"from,omitempty"`
	To        *time.Time      `json:"to,omitempty"`
	SaleCount int64           `json:"sale_count"`
	Revenue   decimal.Decimal `json:"revenue"`
	Profit    decimal.Decimal `json:"profit"`
}
