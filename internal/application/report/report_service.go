package report

import (
	"context"
	"fmt"
	"time"

	"github.com/Honest-88/pos-sample/internal/domain/report"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// StockTotals exposes catalog-wide stock sums
type StockTotals interface {
	SumQuantity(ctx context.Context) (int64, error)
	SumTotalAmount(ctx context.Context) (decimal.Decimal, error)
}

// ReportService answers profit and stock questions over recorded sales
type ReportService struct {
	reportRepo report.ReportRepository
	stock      StockTotals
	location   *time.Location
	now        func() time.Time
}

// NewReportService creates a new ReportService.
// Calendar windows are computed in loc; nil means time.Local.
func NewReportService(reportRepo report.ReportRepository, stock StockTotals, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{
		reportRepo: reportRepo,
		stock:      stock,
		location:   loc,
		now:        time.Now,
	}
}

// ProfitFor returns the profit of the period window containing ref.
// A zero ref means now.
func (s *ReportService) ProfitFor(ctx context.Context, period report.Period, ref time.Time) (*ProfitResponse, error) {
	if !period.IsValid() {
		return nil, shared.NewValidationError("Period must be one of DAY, WEEK, MONTH, ALL")
	}

	window := period.Window(s.reference(ref))
	profit, err := s.reportRepo.SumProfit(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("sum profit for %s: %w", period, err)
	}

	resp := &ProfitResponse{Period: period.String(), Profit: profit}
	if window.Bounded() {
		start, end := window.Start, window.End
		resp.Start = &start
		resp.End = &end
	}
	return resp, nil
}

// ProfitSummary returns the profit of every period around ref
func (s *ReportService) ProfitSummary(ctx context.Context, ref time.Time) (*ProfitSummaryResponse, error) {
	ref = s.reference(ref)
	results := make([]decimal.Decimal, len(report.AllPeriods))

	g, gctx := errgroup.WithContext(ctx)
	for i, period := range report.AllPeriods {
		g.Go(func() error {
			profit, err := s.reportRepo.SumProfit(gctx, period.Window(ref))
			if err != nil {
				return fmt.Errorf("sum profit for %s: %w", period, err)
			}
			results[i] = profit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ProfitSummaryResponse{
		ReferenceDate: ref,
		Day:           results[0],
		Week:          results[1],
		Month:         results[2],
		All:           results[3],
	}, nil
}

// GrandTotals returns the total on-hand quantity and stock value
func (s *ReportService) GrandTotals(ctx context.Context) (*GrandTotalsResponse, error) {
	qty, err := s.stock.SumQuantity(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum quantity: %w", err)
	}
	amount, err := s.stock.SumTotalAmount(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum total amount: %w", err)
	}
	return &GrandTotalsResponse{TotalQuantity: qty, TotalRevenue: amount}, nil
}

// SalesSummary counts sales and sums their revenue over the filter's dates
func (s *ReportService) SalesSummary(ctx context.Context, filter SalesSummaryFilter) (*SalesSummaryResponse, error) {
	var window report.Window
	if filter.From != nil {
		window.Start = s.midnight(*filter.From)
	}
	if filter.To != nil {
		window.End = s.midnight(*filter.To).AddDate(0, 0, 1)
	}
	if !window.Start.IsZero() && !window.End.IsZero() && !window.Start.Before(window.End) {
		return nil, shared.NewValidationError("from must not be after to")
	}

	count, revenue, profit, err := s.reportRepo.SummarizeSales(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("summarize sales: %w", err)
	}
	return &SalesSummaryResponse{
		From:      filter.From,
		To:        filter.To,
		SaleCount: count,
		Revenue:   revenue,
		Profit:    profit,
	}, nil
}

// Location returns the zone calendar windows are computed in
func (s *ReportService) Location() *time.Location {
	return s.location
}

func (s *ReportService) reference(ref time.Time) time.Time {
	if ref.IsZero() {
		ref = s.now()
	}
	return ref.In(s.location)
}

// midnight reinterprets a calendar date in the report location
func (s *ReportService) midnight(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.location)
}
