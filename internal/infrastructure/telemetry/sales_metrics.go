package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/Honest-88/pos-sample/internal/domain/sales"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// MeterName is the instrumentation name of the sales metrics
const MeterName = "pos-backend/sales"

// SalesMetrics counts recorded sales and times every settlement attempt.
// Register it as the settlement observer and subscribe it to SaleRecorded.
type SalesMetrics struct {
	recorded  *Counter
	revenue   *FloatCounter
	items     *Counter
	failures  *Counter
	durations *Histogram
	logger    *zap.Logger
}

// NewSalesMetrics creates the sales instruments on meter
func NewSalesMetrics(meter metric.Meter, logger *zap.Logger) (*SalesMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &SalesMetrics{logger: logger}
	var err error

	if m.recorded, err = NewCounter(meter, "pos_sales_recorded_total",
		"Total number of sales recorded", "{sales}"); err != nil {
		return nil, err
	}
	if m.revenue, err = NewFloatCounter(meter, "pos_sales_revenue_total",
		"Sum of grand totals of recorded sales", "{currency}"); err != nil {
		return nil, err
	}
	if m.items, err = NewCounter(meter, "pos_sale_items_total",
		"Total number of units sold", "{units}"); err != nil {
		return nil, err
	}
	if m.failures, err = NewCounter(meter, "pos_settlement_failures_total",
		"Settlement attempts that did not record a sale", "{attempts}"); err != nil {
		return nil, err
	}
	if m.durations, err = NewHistogram(meter, HistogramOpts{
		Name:        "pos_settlement_duration_seconds",
		Description: "Duration of sale settlement attempts",
		Unit:        "s",
		Boundaries:  SettlementDurationBuckets,
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// ObserveSettlement records the duration and outcome of a settlement attempt
func (m *SalesMetrics) ObserveSettlement(ctx context.Context, duration time.Duration, err error) {
	if err == nil {
		m.durations.RecordDuration(ctx, duration, AttrOutcome.String("success"))
		return
	}

	code := ErrorCode(err)
	m.durations.RecordDuration(ctx, duration, AttrOutcome.String("failure"))
	m.failures.Inc(ctx, AttrErrorCode.String(code))
}

// EventTypes returns the event types this handler is interested in
func (m *SalesMetrics) EventTypes() []string {
	return []string{sales.EventTypeSaleRecorded}
}

// Handle counts a committed sale, its revenue and its units
func (m *SalesMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	recorded, ok := event.(*sales.SaleRecordedEvent)
	if !ok {
		return nil
	}

	m.recorded.Inc(ctx)
	m.revenue.Add(ctx, recorded.GrandTotal.InexactFloat64())
	m.items.Add(ctx, int64(recorded.TotalQuantity))
	return nil
}

// ErrorCode returns the domain error code of err, or "INTERNAL"
func ErrorCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "INTERNAL"
}

var _ shared.EventHandler = (*SalesMetrics)(nil)
