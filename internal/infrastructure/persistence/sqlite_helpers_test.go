package persistence

import (
	"context"
	"testing"

	"github.com/Honest-88/pos-sample/internal/domain/catalog"
	"github.com/Honest-88/pos-sample/internal/domain/identity"
	"github.com/Honest-88/pos-sample/internal/domain/partner"
	"github.com/Honest-88/pos-sample/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens an in-memory database with the full schema.
// A single connection keeps the in-memory database alive and serializes transactions.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&partner.Customer{},
		&sales.Sale{},
		&sales.SaleDetail{},
		&identity.User{},
	))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB) *catalog.Category {
	t.Helper()
	category, err := catalog.NewCategory("Drinks-"+uuid.NewString()[:8], "", catalog.StatusActive)
	require.NoError(t, err)
	require.NoError(t, NewGormCategoryRepository(db).Save(context.Background(), category))
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID, name string, price, buying int64, qty int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(catalog.ProductAttributes{
		Name:        name,
		Status:      catalog.StatusActive,
		CategoryID:  categoryID,
		BuyingPrice: decimal.NewFromInt(buying),
		Price:       decimal.NewFromInt(price),
		Quantity:    qty,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), product))
	return product
}

func seedCustomer(t *testing.T, db *gorm.DB) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(partner.CustomerAttributes{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Save(context.Background(), customer))
	return customer
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
