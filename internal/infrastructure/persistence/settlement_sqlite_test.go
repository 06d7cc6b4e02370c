package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	appsales "github.com/Honest-88/pos-sample/internal/application/sales"
	"github.com/Honest-88/pos-sample/internal/domain/catalog"
	"github.com/Honest-88/pos-sample/internal/domain/sales"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSettlementService(db *gorm.DB) *appsales.SettlementService {
	return appsales.NewSettlementService(NewGormTransactionScope(db), NewGormSaleRepository(db), nil)
}

func TestSettlement_SQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("records sale and deducts stock in one transaction", func(t *testing.T) {
		db := newSQLiteDB(t)
		category := seedCategory(t, db)
		cola := seedProduct(t, db, category.ID, "Cola", 10, 6, 5)
		chips := seedProduct(t, db, category.ID, "Chips", 5, 3, 4)
		customer := seedCustomer(t, db)
		svc := newSettlementService(db)

		resp, err := svc.RecordSale(ctx, appsales.RecordSaleRequest{
			CustomerID:    customer.ID,
			TaxPercentage: decimal.NewFromInt(10),
			AmountPayed:   decimal.NewFromInt(30),
			Lines: []appsales.SaleLineRequest{
				{ProductID: cola.ID, Quantity: 2},
				{ProductID: chips.ID, Quantity: 1},
			},
		})
		require.NoError(t, err)

		assert.True(t, decimal.NewFromInt(25).Equal(resp.SubTotal))
		assert.True(t, decimal.RequireFromString("27.5").Equal(resp.GrandTotal))
		assert.True(t, decimal.NewFromInt(10).Equal(resp.Profit))

		stored, err := NewGormSaleRepository(db).FindByID(ctx, resp.ID)
		require.NoError(t, err)
		require.Len(t, stored.Details, 2)
		assert.Equal(t, cola.ID, stored.Details[0].ProductID)
		assert.Equal(t, chips.ID, stored.Details[1].ProductID)
		assert.True(t, stored.GrandTotal.Equal(stored.SubTotal.Add(stored.TaxAmount)))
		assert.True(t, decimal.NewFromInt(10).Equal(stored.Profit), stored.Profit.String())
		assert.True(t, decimal.RequireFromString("2.5").Equal(stored.AmountChange), stored.AmountChange.String())

		products := NewGormProductRepository(db)
		gotCola, err := products.FindByID(ctx, cola.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, gotCola.Quantity)
		assert.True(t, decimal.NewFromInt(30).Equal(gotCola.TotalAmount))
		gotChips, err := products.FindByID(ctx, chips.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, gotChips.Quantity)
	})

	t.Run("missing product leaves no trace", func(t *testing.T) {
		db := newSQLiteDB(t)
		category := seedCategory(t, db)
		cola := seedProduct(t, db, category.ID, "Cola", 10, 6, 5)
		customer := seedCustomer(t, db)
		svc := newSettlementService(db)

		_, err := svc.RecordSale(ctx, appsales.RecordSaleRequest{
			CustomerID:  customer.ID,
			AmountPayed: decimal.NewFromInt(100),
			Lines: []appsales.SaleLineRequest{
				{ProductID: cola.ID, Quantity: 2},
				{ProductID: uuid.New(), Quantity: 1},
			},
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Zero(t, countRows(t, db, &sales.Sale{}))
		assert.Zero(t, countRows(t, db, &sales.SaleDetail{}))
		got, err := NewGormProductRepository(db).FindByID(ctx, cola.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Quantity)
	})

	t.Run("insufficient stock on a later line rolls back earlier decrements", func(t *testing.T) {
		db := newSQLiteDB(t)
		category := seedCategory(t, db)
		cola := seedProduct(t, db, category.ID, "Cola", 10, 6, 5)
		chips := seedProduct(t, db, category.ID, "Chips", 5, 3, 1)
		customer := seedCustomer(t, db)
		svc := newSettlementService(db)

		_, err := svc.RecordSale(ctx, appsales.RecordSaleRequest{
			CustomerID:  customer.ID,
			AmountPayed: decimal.NewFromInt(100),
			Lines: []appsales.SaleLineRequest{
				{ProductID: cola.ID, Quantity: 2},
				{ProductID: chips.ID, Quantity: 3},
			},
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Zero(t, countRows(t, db, &sales.Sale{}))
		assert.Zero(t, countRows(t, db, &sales.SaleDetail{}))
		got, err := NewGormProductRepository(db).FindByID(ctx, cola.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Quantity)
	})

	t.Run("missing customer is not found", func(t *testing.T) {
		db := newSQLiteDB(t)
		category := seedCategory(t, db)
		cola := seedProduct(t, db, category.ID, "Cola", 10, 6, 5)
		svc := newSettlementService(db)

		_, err := svc.RecordSale(ctx, appsales.RecordSaleRequest{
			CustomerID: uuid.New(),
			Lines:      []appsales.SaleLineRequest{{ProductID: cola.ID, Quantity: 1}},
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Zero(t, countRows(t, db, &sales.Sale{}))
	})

	t.Run("two concurrent sales of the last unit", func(t *testing.T) {
		db := newSQLiteDB(t)
		category := seedCategory(t, db)
		last := seedProduct(t, db, category.ID, "Last one", 10, 6, 1)
		customer := seedCustomer(t, db)
		svc := newSettlementService(db)

		req := appsales.RecordSaleRequest{
			CustomerID:  customer.ID,
			AmountPayed: decimal.NewFromInt(10),
			Lines:       []appsales.SaleLineRequest{{ProductID: last.ID, Quantity: 1}},
		}

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.RecordSale(ctx, req)
			}(i)
		}
		wg.Wait()

		failures := 0
		for _, err := range errs {
			if err != nil {
				failures++
				assert.ErrorIs(t, err, shared.ErrInsufficientStock)
			}
		}
		assert.Equal(t, 1, failures)
		assert.Equal(t, int64(1), countRows(t, db, &sales.Sale{}))

		got, err := NewGormProductRepository(db).FindByID(ctx, last.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Quantity)
	})

	t.Run("delete removes the sale and its details but keeps stock", func(t *testing.T) {
		db := newSQLiteDB(t)
		category := seedCategory(t, db)
		cola := seedProduct(t, db, category.ID, "Cola", 10, 6, 5)
		customer := seedCustomer(t, db)
		svc := newSettlementService(db)

		resp, err := svc.RecordSale(ctx, appsales.RecordSaleRequest{
			CustomerID:  customer.ID,
			AmountPayed: decimal.NewFromInt(10),
			Date:        ptrTime(time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)),
			Lines:       []appsales.SaleLineRequest{{ProductID: cola.ID, Quantity: 1}},
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteSale(ctx, resp.ID))
		assert.Zero(t, countRows(t, db, &sales.Sale{}))
		assert.Zero(t, countRows(t, db, &sales.SaleDetail{}))
		assert.ErrorIs(t, svc.DeleteSale(ctx, resp.ID), shared.ErrNotFound)

		got, err := NewGormProductRepository(db).FindByID(ctx, cola.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Quantity)
	})
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

// Product totals stay consistent with the catalog invariant across a round trip
func TestProductTotals_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	category := seedCategory(t, db)
	product := seedProduct(t, db, category.ID, "Cola", 10, 6, 5)

	got, err := NewGormProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)

	qty := decimal.NewFromInt(int64(got.Quantity))
	assert.True(t, got.Price.Mul(qty).Equal(got.TotalAmount))
	assert.True(t, got.Price.Sub(got.BuyingPrice).Mul(qty).Equal(got.ProfitAmount))
	assert.Equal(t, catalog.StatusActive, got.Status)
}
