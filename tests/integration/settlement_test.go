//go:build integration

package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	salesapp "github.com/Honest-88/pos-sample/internal/application/sales"
	"github.com/Honest-88/pos-sample/internal/domain/sales"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/Honest-88/pos-sample/internal/infrastructure/event"
	"github.com/Honest-88/pos-sample/internal/infrastructure/persistence"
	"github.com/Honest-88/pos-sample/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newSettlementService(t *testing.T, tdb *TestDB) *salesapp.SettlementService {
	return salesapp.NewSettlementService(
		persistence.NewGormTransactionScope(tdb.DB),
		persistence.NewGormSaleRepository(tdb.DB),
		zaptest.NewLogger(t),
	)
}

func saleRequest(customerID uuid.UUID, payed int64, lines ...salesapp.SaleLineRequest) salesapp.RecordSaleRequest {
	return salesapp.RecordSaleRequest{
		CustomerID:    customerID,
		TaxPercentage: decimal.Zero,
		AmountPayed:   decimal.NewFromInt(payed),
		Lines:         lines,
	}
}

func line(productID uuid.UUID, qty int) salesapp.SaleLineRequest {
	return salesapp.SaleLineRequest{ProductID: productID, Quantity: qty}
}

func TestSettlement_RecordSaleCommitsAllLines(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := context.Background()

	cola := seedProduct(t, tdb, "Cola", 10, 6, 20)
	chips := seedProduct(t, tdb, "Chips", 5, 3, 8)
	customer := seedCustomer(t, tdb, "Grace", "Hopper")

	svc := newSettlementService(t, tdb)
	resp, err := svc.RecordSale(ctx, salesapp.RecordSaleRequest{
		CustomerID:    customer.ID,
		TaxPercentage: decimal.NewFromInt(10),
		AmountPayed:   decimal.NewFromInt(50),
		Lines:         []salesapp.SaleLineRequest{line(cola.ID, 3), line(chips.ID, 2)},
	})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(40).Equal(resp.SubTotal), "sub total %s", resp.SubTotal)
	assert.True(t, decimal.NewFromInt(44).Equal(resp.GrandTotal), "grand total %s", resp.GrandTotal)
	assert.True(t, decimal.NewFromInt(6).Equal(resp.AmountChange), "change %s", resp.AmountChange)
	assert.True(t, decimal.NewFromInt(16).Equal(resp.Profit), "profit %s", resp.Profit)
	assert.Len(t, resp.Details, 2)

	assert.Equal(t, 17, productQuantity(t, tdb, cola))
	assert.Equal(t, 6, productQuantity(t, tdb, chips))

	stored, err := svc.GetSale(ctx, resp.ID)
	require.NoError(t, err)
	assert.True(t, resp.GrandTotal.Equal(stored.GrandTotal))
	assert.Equal(t, 1, stored.Details[0].LineNo)
}

func TestSettlement_FailedLineRollsBackEverything(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := context.Background()

	cola := seedProduct(t, tdb, "Cola", 10, 6, 20)
	chips := seedProduct(t, tdb, "Chips", 5, 3, 1)
	customer := seedCustomer(t, tdb, "Grace", "Hopper")

	svc := newSettlementService(t, tdb)
	_, err := svc.RecordSale(ctx, saleRequest(customer.ID, 100, line(cola.ID, 3), line(chips.ID, 2)))

	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, 20, productQuantity(t, tdb, cola), "first line must be rolled back")
	assert.Equal(t, 1, productQuantity(t, tdb, chips))

	_, total, err := svc.ListSales(ctx, salesapp.SaleListFilter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSettlement_InsufficientPaymentRollsBack(t *testing.T) {
	tdb := NewSharedTestDB(t)

	cola := seedProduct(t, tdb, "Cola", 10, 6, 20)
	customer := seedCustomer(t, tdb, "Grace", "Hopper")

	_, err := newSettlementService(t, tdb).RecordSale(context.Background(), saleRequest(customer.ID, 5, line(cola.ID, 1)))

	require.ErrorIs(t, err, shared.ErrInsufficientPayment)
	assert.Equal(t, 20, productQuantity(t, tdb, cola))
}

func TestSettlement_ConcurrentSalesNeverOversell(t *testing.T) {
	tdb := NewSharedTestDB(t)

	const stock = 5
	const attempts = 12
	cola := seedProduct(t, tdb, "Cola", 10, 6, stock)
	customer := seedCustomer(t, tdb, "Grace", "Hopper")
	svc := newSettlementService(t, tdb)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordSale(context.Background(), saleRequest(customer.ID, 10, line(cola.ID, 1)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, shared.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, stock, succeeded)
	assert.Equal(t, attempts-stock, rejected)
	assert.Equal(t, 0, productQuantity(t, tdb, cola))
}

func TestSettlement_PublishesSaleRecordedAfterCommit(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := context.Background()

	cola := seedProduct(t, tdb, "Cola", 10, 6, 20)
	customer := seedCustomer(t, tdb, "Grace", "Hopper")

	bus := event.NewInMemoryEventBus(zaptest.NewLogger(t), event.WithAsyncDispatch())
	recorder := testutil.NewRecordingEventHandler(sales.EventTypeSaleRecorded)
	bus.Subscribe(recorder)
	require.NoError(t, bus.Start(ctx))
	t.Cleanup(func() { _ = bus.Stop(ctx) })

	svc := newSettlementService(t, tdb)
	svc.SetEventPublisher(bus)

	resp, err := svc.RecordSale(ctx, saleRequest(customer.ID, 30, line(cola.ID, 2)))
	require.NoError(t, err)

	_, err = svc.RecordSale(ctx, saleRequest(customer.ID, 30, line(cola.ID, 100)))
	require.Error(t, err)

	testutil.RequireEventually(t, func() bool { return recorder.Count() >= 1 }, 5*time.Second, 10*time.Millisecond)
	require.Equal(t, 1, recorder.Count(), "failed sales publish nothing")

	recorded, ok := recorder.Handled()[0].(*sales.SaleRecordedEvent)
	require.True(t, ok)
	assert.Equal(t, resp.ID, recorded.SaleID)
	assert.Equal(t, 2, recorded.TotalQuantity)
	assert.True(t, decimal.NewFromInt(8).Equal(recorded.Profit))
}
