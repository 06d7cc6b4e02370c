//go:build integration

package integration

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
	"github.com/Honest-88/pos-sample/internal/infrastructure/auth"
	"github.com/Honest-88/pos-sample/internal/infrastructure/cache"
	"github.com/Honest-88/pos-sample/internal/infrastructure/config"
	"github.com/Honest-88/pos-sample/internal/infrastructure/persistence"
	"github.com/Honest-88/pos-sample/internal/interfaces/http/handler"
	"github.com/Honest-88/pos-sample/internal/interfaces/http/middleware"
	"github.com/Honest-88/pos-sample/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	apiUser     = "cashier"
	apiPassword = "register-pass-1"
)

type apiServer struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

// newAPIServer assembles the HTTP stack the way the server binary does,
// minus telemetry, over the shared PostgreSQL database
func newAPIServer(t *testing.T, tdb *TestDB, loginLimit int) *apiServer {
	t.Helper()
	log := zaptest.NewLogger(t)
	middleware.SetupValidator()

	categoryRepo := persistence.NewGormCategoryRepository(tdb.DB)
	productRepo := persistence.NewGormProductRepository(tdb.DB)
	customerRepo := persistence.NewGormCustomerRepository(tdb.DB)
	saleRepo := persistence.NewGormSaleRepository(tdb.DB)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "integration-secret-key-32-chars!",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "pos-sample-integration",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	authService := identityapp.NewAuthService(persistence.NewGormUserRepository(tdb.DB), jwtService, blacklist, log)
	_, err := authService.Bootstrap(context.Background(), apiUser, apiPassword)
	require.NoError(t, err)

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	limiter := middleware.NewRateLimiter(loginLimit, time.Minute)
	t.Cleanup(limiter.Stop)

	engine := gin.New()
	engine.Use(middleware.RequestID())

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	r := router.NewRouter(engine).Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
	router.RegisterAPI(r, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Category: handler.NewCategoryHandler(catalogapp.NewCategoryService(categoryRepo)),
		Product:  handler.NewProductHandler(catalogapp.NewProductService(productRepo, categoryRepo)),
		Customer: handler.NewCustomerHandler(partnerapp.NewCustomerService(customerRepo)),
		Sales: handler.NewSalesHandler(salesapp.NewSettlementService(
			persistence.NewGormTransactionScope(tdb.DB), saleRepo, log)),
		Receipt: handler.NewReceiptHandler(printingapp.NewReceiptService(
			saleRepo, productRepo, customerRepo, nil, nil,
			printingapp.ReceiptConfig{StoreName: "Corner Shop", PaperWidthMM: 80, Location: time.UTC}, log)),
		Report: handler.NewReportHandler(reportapp.NewReportService(
			persistence.NewGormReportRepository(tdb.DB), productRepo, time.UTC)),
		System: handler.NewSystemHandler("pos-backend", "test", nil),
	}, router.RouteMiddleware{
		Login:      middleware.RateLimit(limiter),
		RecordSale: middleware.Idempotency(store, time.Hour),
	}).Setup()

	return &apiServer{t: t, engine: engine}
}

func (s *apiServer) request(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *apiServer) login() {
	s.t.Helper()
	w := s.request(http.MethodPost, "/api/v1/auth/login", identityapp.LoginInput{Username: apiUser, Password: apiPassword}, nil)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	s.token = decode[identityapp.LoginResult](s.t, w).Data.AccessToken
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse[T] {
	t.Helper()
	resp, err := handler.DecodeResponse[T](bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err, w.Body.String())
	return resp
}

func TestAPI_SaleWorkflow(t *testing.T) {
	tdb := NewSharedTestDB(t)
	api := newAPIServer(t, tdb, 10)
	api.login()

	w := api.request(http.MethodPost, "/api/v1/catalog/categories", catalogapp.CreateCategoryRequest{Name: "Drinks"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := decode[catalogapp.CategoryResponse](t, w).Data

	w = api.request(http.MethodPost, "/api/v1/catalog/products", catalogapp.CreateProductRequest{
		Name:        "Cola",
		CategoryID:  category.ID,
		Price:       decimal.NewFromInt(10),
		BuyingPrice: decimal.NewFromInt(6),
		Quantity:    10,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decode[catalogapp.ProductResponse](t, w).Data

	w = api.request(http.MethodPost, "/api/v1/partner/customers", partnerapp.CreateCustomerRequest{FirstName: "Ada", LastName: "Lovelace"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	customer := decode[partnerapp.CustomerResponse](t, w).Data

	sale := salesapp.RecordSaleRequest{
		CustomerID:  customer.ID,
		AmountPayed: decimal.NewFromInt(50),
		Lines:       []salesapp.SaleLineRequest{{ProductID: product.ID, Quantity: 4}},
	}
	key := map[string]string{middleware.IdempotencyKeyHeader: uuid.NewString()}

	w = api.request(http.MethodPost, "/api/v1/sales", sale, key)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	recorded := decode[salesapp.SaleResponse](t, w).Data
	assert.True(t, decimal.NewFromInt(40).Equal(recorded.GrandTotal))
	assert.True(t, decimal.NewFromInt(10).Equal(recorded.AmountChange))

	w = api.request(http.MethodPost, "/api/v1/sales", sale, key)
	require.Equal(t, http.StatusConflict, w.Code, "replayed submission must be rejected")
	assert.Equal(t, "ERR_DUPLICATE_REQUEST", decode[any](t, w).Error.Code)

	w = api.request(http.MethodGet, "/api/v1/catalog/products/"+product.ID.String(), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6, decode[catalogapp.ProductResponse](t, w).Data.Quantity, "stock decremented once")

	w = api.request(http.MethodGet, "/api/v1/sales/"+recorded.ID.String()+"/receipt", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Corner Shop")
	assert.Contains(t, w.Body.String(), "Cola")

	w = api.request(http.MethodGet, "/api/v1/reports/grand-totals", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	totals := decode[reportapp.GrandTotalsResponse](t, w).Data
	assert.Equal(t, int64(6), totals.TotalQuantity)
	assert.True(t, decimal.NewFromInt(60).Equal(totals.TotalRevenue))

	w = api.request(http.MethodGet, "/api/v1/reports/profit?period=all", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decimal.NewFromInt(16).Equal(decode[reportapp.ProfitResponse](t, w).Data.Profit))

	w = api.request(http.MethodDelete, "/api/v1/sales/"+recorded.ID.String(), nil, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = api.request(http.MethodGet, "/api/v1/sales/"+recorded.ID.String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_FailedSaleReleasesIdempotencyKey(t *testing.T) {
	tdb := NewSharedTestDB(t)
	api := newAPIServer(t, tdb, 10)
	api.login()

	product := seedProduct(t, tdb, "Cola", 10, 6, 3)
	customer := seedCustomer(t, tdb, "Ada", "Lovelace")
	key := map[string]string{middleware.IdempotencyKeyHeader: "register-1-ticket-42"}

	short := salesapp.RecordSaleRequest{
		CustomerID:  customer.ID,
		AmountPayed: decimal.NewFromInt(5),
		Lines:       []salesapp.SaleLineRequest{{ProductID: product.ID, Quantity: 1}},
	}
	w := api.request(http.MethodPost, "/api/v1/sales", short, key)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	short.AmountPayed = decimal.NewFromInt(10)
	w = api.request(http.MethodPost, "/api/v1/sales", short, key)
	assert.Equal(t, http.StatusCreated, w.Code, "the same key may be retried after a rejected sale")
	assert.Equal(t, 2, productQuantity(t, tdb, product))
}

func TestAPI_AuthenticationBoundary(t *testing.T) {
	tdb := NewSharedTestDB(t)
	api := newAPIServer(t, tdb, 2)

	w := api.request(http.MethodGet, "/api/v1/sales", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.request(http.MethodGet, "/api/v1/system/ping", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code, "ping is public")

	bad := identityapp.LoginInput{Username: apiUser, Password: "wrong-password"}
	assert.Equal(t, http.StatusUnauthorized, api.request(http.MethodPost, "/api/v1/auth/login", bad, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.request(http.MethodPost, "/api/v1/auth/login", bad, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, api.request(http.MethodPost, "/api/v1/auth/login", bad, nil).Code)
}

func TestAPI_LogoutRevokesToken(t *testing.T) {
	tdb := NewSharedTestDB(t)
	api := newAPIServer(t, tdb, 10)
	api.login()

	require.Equal(t, http.StatusOK, api.request(http.MethodGet, "/api/v1/auth/me", nil, nil).Code)
	require.Equal(t, http.StatusNoContent, api.request(http.MethodPost, "/api/v1/auth/logout", nil, nil).Code)

	w := api.request(http.MethodGet, "/api/v1/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
