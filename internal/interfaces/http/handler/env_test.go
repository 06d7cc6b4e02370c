package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	catalogapp "github.com/Honest-88/pos-sample/internal/application/catalog"
	identityapp "github.com/Honest-88/pos-sample/internal/application/identity"
	partnerapp "github.com/Honest-88/pos-sample/internal/application/partner"
	printingapp "github.com/Honest-88/pos-sample/internal/application/printing"
	reportapp "github.com/Honest-88/pos-sample/internal/application/report"
	salesapp "github.com/Honest-88/pos-sample/internal/application/sales"
	"github.com/Honest-88/pos-sample/internal/domain/catalog"
	"github.com/Honest-88/pos-sample/internal/domain/identity"
	"github.com/Honest-88/pos-sample/internal/domain/partner"
	"github.com/Honest-88/pos-sample/internal/domain/sales"
	"github.com/Honest-88/pos-sample/internal/infrastructure/auth"
	"github.com/Honest-88/pos-sample/internal/infrastructure/config"
	"github.com/Honest-88/pos-sample/internal/infrastructure/persistence"
	infraprinting "github.com/Honest-88/pos-sample/internal/infrastructure/printing"
	"github.com/Honest-88/pos-sample/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testUsername = "cashier"
	testPassword = "register-pass-1"
)

// testEnv wires real services over an in-memory SQLite database
type testEnv struct {
	t         *testing.T
	db        *gorm.DB
	router    *gin.Engine
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	token     string
	userID    uuid.UUID
}

type stubPDFRenderer struct{}

func (stubPDFRenderer) Render(_ context.Context, req *infraprinting.RenderRequest) (*infraprinting.RenderResult, error) {
	return &infraprinting.RenderResult{PDFData: []byte("%PDF-1.4 " + req.Title)}, nil
}

func (stubPDFRenderer) Close() error { return nil }

type envOption func(*envOptions)

type envOptions struct {
	renderer infraprinting.PDFRenderer
}

func withPDFRenderer(r infraprinting.PDFRenderer) envOption {
	return func(o *envOptions) { o.renderer = r }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	var o envOptions
	for _, opt := range opts {
		opt(&o)
	}

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

	categoryRepo := persistence.NewGormCategoryRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	saleRepo := persistence.NewGormSaleRepository(db)
	userRepo := persistence.NewGormUserRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-32-characters-long",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "pos-sample-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, nil)
	created, err := authService.Bootstrap(context.Background(), testUsername, testPassword)
	require.NoError(t, err)
	require.True(t, created)

	receiptService := printingapp.NewReceiptService(
		saleRepo, productRepo, customerRepo, nil, o.renderer,
		printingapp.ReceiptConfig{StoreName: "Corner Shop", PaperWidthMM: 80, Location: time.UTC}, nil,
	)

	authHandler := NewAuthHandler(authService)
	categoryHandler := NewCategoryHandler(catalogapp.NewCategoryService(categoryRepo))
	productHandler := NewProductHandler(catalogapp.NewProductService(productRepo, categoryRepo))
	customerHandler := NewCustomerHandler(partnerapp.NewCustomerService(customerRepo))
	salesHandler := NewSalesHandler(salesapp.NewSettlementService(persistence.NewGormTransactionScope(db), saleRepo, nil))
	receiptHandler := NewReceiptHandler(receiptService)
	reportHandler := NewReportHandler(reportapp.NewReportService(persistence.NewGormReportRepository(db), productRepo, time.UTC))

	r := gin.New()
	r.Use(middleware.RequestID())
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths:      []string{"/api/v1/auth/login"},
	}))

	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/logout", authHandler.Logout)
	v1.GET("/auth/me", authHandler.GetCurrentUser)

	v1.GET("/catalog/categories", categoryHandler.List)
	v1.POST("/catalog/categories", categoryHandler.Create)
	v1.GET("/catalog/categories/active", categoryHandler.ListActive)
	v1.GET("/catalog/categories/:id", categoryHandler.GetByID)
	v1.PUT("/catalog/categories/:id", categoryHandler.Update)
	v1.DELETE("/catalog/categories/:id", categoryHandler.Delete)

	v1.GET("/catalog/products", productHandler.List)
	v1.POST("/catalog/products", productHandler.Create)
	v1.GET("/catalog/products/search", productHandler.Search)
	v1.GET("/catalog/products/:id", productHandler.GetByID)
	v1.PUT("/catalog/products/:id", productHandler.Update)
	v1.DELETE("/catalog/products/:id", productHandler.Delete)

	v1.GET("/partner/customers", customerHandler.List)
	v1.POST("/partner/customers", customerHandler.Create)
	v1.GET("/partner/customers/:id", customerHandler.GetByID)
	v1.PUT("/partner/customers/:id", customerHandler.Update)
	v1.DELETE("/partner/customers/:id", customerHandler.Delete)

	v1.POST("/sales", salesHandler.RecordSale)
	v1.GET("/sales", salesHandler.List)
	v1.GET("/sales/:id", salesHandler.GetByID)
	v1.DELETE("/sales/:id", salesHandler.Delete)
	v1.GET("/sales/:id/receipt", receiptHandler.HTML)
	v1.GET("/sales/:id/receipt.pdf", receiptHandler.PDF)

	v1.GET("/reports/profit", reportHandler.GetProfit)
	v1.GET("/reports/profit/summary", reportHandler.GetProfitSummary)
	v1.GET("/reports/grand-totals", reportHandler.GetGrandTotals)
	v1.GET("/reports/sales/summary", reportHandler.GetSalesSummary)

	env := &testEnv{t: t, db: db, router: r, jwt: jwtService, blacklist: blacklist}
	env.login()
	return env
}

func (e *testEnv) login() {
	e.t.Helper()
	w := e.doAnonymous(http.MethodPost, "/api/v1/auth/login", identityapp.LoginInput{Username: testUsername, Password: testPassword})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeAs[identityapp.LoginResult](e.t, w)
	e.token = resp.Data.AccessToken
	e.userID = resp.Data.User.ID
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	return e.request(method, path, body, e.token)
}

func (e *testEnv) doAnonymous(method, path string, body any) *httptest.ResponseRecorder {
	return e.request(method, path, body, "")
}

func (e *testEnv) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(e.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeAs[T any](t *testing.T, w *httptest.ResponseRecorder) APIResponse[T] {
	t.Helper()
	resp, err := DecodeResponse[T](bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err, w.Body.String())
	return resp
}

func (e *testEnv) createCategory(name string) catalogapp.CategoryResponse {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/v1/catalog/categories", catalogapp.CreateCategoryRequest{Name: name})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return decodeAs[catalogapp.CategoryResponse](e.t, w).Data
}

func (e *testEnv) createProduct(categoryID uuid.UUID, name string, price, buying int64, qty int) catalogapp.ProductResponse {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/v1/catalog/products", catalogapp.CreateProductRequest{
		Name:        name,
		CategoryID:  categoryID,
		Price:       decimal.NewFromInt(price),
		BuyingPrice: decimal.NewFromInt(buying),
		Quantity:    qty,
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return decodeAs[catalogapp.ProductResponse](e.t, w).Data
}

func (e *testEnv) createCustomer(first, last string) partnerapp.CustomerResponse {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/v1/partner/customers", partnerapp.CreateCustomerRequest{FirstName: first, LastName: last})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	return decodeAs[partnerapp.CustomerResponse](e.t, w).Data
}
