//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/Honest-88/pos-sample/internal/domain/catalog"
	"github.com/Honest-88/pos-sample/internal/domain/partner"
	"github.com/Honest-88/pos-sample/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// seedProduct stores a category and a product with the given price, buying price and stock
func seedProduct(t *testing.T, tdb *TestDB, name string, price, buying int64, qty int) *catalog.Product {
	t.Helper()
	ctx := context.Background()

	category, err := catalog.NewCategory(name+" category", "", catalog.StatusActive)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCategoryRepository(tdb.DB).Save(ctx, category))

	product, err := catalog.NewProduct(catalog.ProductAttributes{
		Name:        name,
		Status:      catalog.StatusActive,
		CategoryID:  category.ID,
		BuyingPrice: decimal.NewFromInt(buying),
		Price:       decimal.NewFromInt(price),
		Quantity:    qty,
	})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormProductRepository(tdb.DB).Save(ctx, product))
	return product
}

func seedCustomer(t *testing.T, tdb *TestDB, first, last string) *partner.Customer {
	t.Helper()

	customer, err := partner.NewCustomer(partner.CustomerAttributes{FirstName: first, LastName: last})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCustomerRepository(tdb.DB).Save(context.Background(), customer))
	return customer
}

func productQuantity(t *testing.T, tdb *TestDB, product *catalog.Product) int {
	t.Helper()

	stored, err := persistence.NewGormProductRepository(tdb.DB).FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	return stored.Quantity
}
