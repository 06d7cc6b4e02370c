package printing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Honest-88/pos-sample/internal/domain/catalog"
	"github.com/Honest-88/pos-sample/internal/domain/partner"
	"github.com/Honest-88/pos-sample/internal/domain/sales"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	infra "github.com/Honest-88/pos-sample/internal/infrastructure/printing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) Render(ctx context.Context, req *infra.RenderRequest) (*infra.RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.RenderResult), args.Error(1)
}

func (m *MockPDFRenderer) Close() error {
	return m.Called().Error(0)
}

type receiptFixture struct {
	sales     *MockSaleRepository
	products  *MockProductRepository
	customers *MockCustomerRepository
	renderer  *MockPDFRenderer
	service   *ReceiptService
	sale      *sales.Sale
	product   *catalog.Product
}

func newReceiptFixture(t *testing.T) *receiptFixture {
	t.Helper()

	product, err := catalog.NewProduct(catalog.ProductAttributes{
		Name:        "Widget",
		Status:      catalog.StatusActive,
		CategoryID:  uuid.New(),
		BuyingPrice: decimal.NewFromInt(6),
		Price:       decimal.NewFromInt(10),
		Quantity:    5,
	})
	require.NoError(t, err)

	customer, err := partner.NewCustomer(partner.CustomerAttributes{FirstName: "ada", LastName: "lovelace"})
	require.NoError(t, err)

	sale, err := sales.NewSale(customer.ID, decimal.NewFromInt(10), decimal.NewFromInt(30),
		time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = sale.AddLine(product.ID, decimal.NewFromInt(10), 2, decimal.NewNullDecimal(product.BuyingPrice))
	require.NoError(t, err)
	_, err = sale.AddLine(product.ID, decimal.NewFromInt(5), 1, decimal.NewNullDecimal(product.BuyingPrice))
	require.NoError(t, err)
	require.NoError(t, sale.Settle())

	f := &receiptFixture{
		sales:     new(MockSaleRepository),
		products:  new(MockProductRepository),
		customers: new(MockCustomerRepository),
		renderer:  new(MockPDFRenderer),
		sale:      sale,
		product:   product,
	}
	f.service = NewReceiptService(f.sales, f.products, f.customers, infra.NewTemplateEngine(), f.renderer,
		ReceiptConfig{StoreName: "Corner Shop", PaperWidthMM: 80}, nil)

	f.sales.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
	f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	return f
}

func TestReceiptService_Render(t *testing.T) {
	f := newReceiptFixture(t)
	f.products.On("FindByID", mock.Anything, f.product.ID).Return(f.product, nil).Once()

	html, err := f.service.Render(context.Background(), f.sale.ID)

	require.NoError(t, err)
	assert.Contains(t, html, "Corner Shop")
	assert.Contains(t, html, "Customer: Ada Lovelace")
	assert.Contains(t, html, "Widget")
	assert.Contains(t, html, "Sub total</td><td class=\"num\">25.00")
	assert.Contains(t, html, "Tax (10%)")
	assert.Contains(t, html, "27.50")
	assert.Contains(t, html, "2.50")
	// the product is looked up once for both lines
	f.products.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestReceiptService_Render_UsesStoredTotals(t *testing.T) {
	f := newReceiptFixture(t)
	f.products.On("FindByID", mock.Anything, f.product.ID).Return(f.product, nil)
	f.sale.GrandTotal = decimal.RequireFromString("99.99")

	html, err := f.service.Render(context.Background(), f.sale.ID)

	require.NoError(t, err)
	assert.Contains(t, html, "99.99")
}

func TestReceiptService_Render_DeletedProduct(t *testing.T) {
	f := newReceiptFixture(t)
	f.products.On("FindByID", mock.Anything, f.product.ID).Return(nil, shared.ErrNotFound)

	html, err := f.service.Render(context.Background(), f.sale.ID)

	require.NoError(t, err)
	assert.Contains(t, html, unknownProductName)
}

func TestReceiptService_Render_SaleNotFound(t *testing.T) {
	f := newReceiptFixture(t)
	id := uuid.New()
	f.sales.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := f.service.Render(context.Background(), id)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestReceiptService_RenderPDF(t *testing.T) {
	f := newReceiptFixture(t)
	f.products.On("FindByID", mock.Anything, f.product.ID).Return(f.product, nil)
	f.renderer.On("Render", mock.Anything, mock.MatchedBy(func(req *infra.RenderRequest) bool {
		return req.PaperWidthMM == 80 && len(req.HTML) > 0
	})).Return(&infra.RenderResult{PDFData: []byte("%PDF-1.4")}, nil)

	pdf, err := f.service.RenderPDF(context.Background(), f.sale.ID)

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	f.renderer.AssertExpectations(t)
}

func TestReceiptService_RenderPDF_RendererError(t *testing.T) {
	f := newReceiptFixture(t)
	f.products.On("FindByID", mock.Anything, f.product.ID).Return(f.product, nil)
	renderErr := infra.NewRenderError(infra.ErrCodeRenderTimeout, "timed out", nil)
	f.renderer.On("Render", mock.Anything, mock.Anything).Return(nil, renderErr)

	_, err := f.service.RenderPDF(context.Background(), f.sale.ID)

	assert.ErrorIs(t, err, renderErr)
	assert.ErrorIs(t, err, ErrPDFUnavailable)
}

func TestReceiptService_RenderPDF_InvalidDocumentIsNotRetryable(t *testing.T) {
	f := newReceiptFixture(t)
	f.products.On("FindByID", mock.Anything, f.product.ID).Return(f.product, nil)
	f.renderer.On("Render", mock.Anything, mock.Anything).
		Return(nil, infra.NewRenderError(infra.ErrCodeInvalidHTML, "HTML content is empty", nil))

	_, err := f.service.RenderPDF(context.Background(), f.sale.ID)

	assert.ErrorIs(t, err, infra.ErrInvalidHTML)
	assert.NotErrorIs(t, err, ErrPDFUnavailable)
}

func TestReceiptService_RenderPDF_NoRenderer(t *testing.T) {
	svc := NewReceiptService(new(MockSaleRepository), new(MockProductRepository), new(MockCustomerRepository),
		nil, nil, ReceiptConfig{}, nil)

	_, err := svc.RenderPDF(context.Background(), uuid.New())

	assert.True(t, errors.Is(err, ErrPDFUnavailable))
}
