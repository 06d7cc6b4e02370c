package printing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Honest-88/pos-sample/internal/domain/catalog"
	"github.com/Honest-88/pos-sample/internal/domain/partner"
	"github.com/Honest-88/pos-sample/internal/domain/sales"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	infra "github.com/Honest-88/pos-sample/internal/infrastructure/printing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// unknownProductName is printed when a line's product no longer exists
const unknownProductName = "(deleted product)"

// ReceiptConfig controls receipt presentation
type ReceiptConfig struct {
	StoreName    string
	PaperWidthMM float64
	// Location is the timezone the sale date is printed in; nil keeps the stored zone
	Location *time.Location
}

// ReceiptService renders HTML and PDF receipts for recorded sales
type ReceiptService struct {
	saleRepo     sales.SaleRepository
	productRepo  catalog.ProductRepository
	customerRepo partner.CustomerRepository
	engine       *infra.TemplateEngine
	renderer     infra.PDFRenderer
	config       ReceiptConfig
	logger       *zap.Logger
}

// NewReceiptService creates a new ReceiptService.
// renderer may be nil, in which case RenderPDF is unavailable.
func NewReceiptService(
	saleRepo sales.SaleRepository,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	engine *infra.TemplateEngine,
	renderer infra.PDFRenderer,
	config ReceiptConfig,
	logger *zap.Logger,
) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = infra.NewTemplateEngine()
	}
	return &ReceiptService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		engine:       engine,
		renderer:     renderer,
		config:       config,
		logger:       logger,
	}
}

// ErrPDFUnavailable is returned when no PDF renderer is configured
var ErrPDFUnavailable = shared.NewDomainError("PDF_UNAVAILABLE", "PDF rendering is not configured")

// errPDFRetry shares ErrPDFUnavailable's code; the renderer timed out or crashed.
var errPDFRetry = shared.NewDomainError("PDF_UNAVAILABLE", "Receipt PDF could not be rendered, try again")

// Render returns the HTML receipt of a sale
func (s *ReceiptService) Render(ctx context.Context, saleID uuid.UUID) (string, error) {
	data, err := s.receiptData(ctx, saleID)
	if err != nil {
		return "", err
	}
	return s.engine.RenderReceipt(ctx, data)
}

// RenderPDF returns the receipt of a sale as a PDF document
func (s *ReceiptService) RenderPDF(ctx context.Context, saleID uuid.UUID) ([]byte, error) {
	if s.renderer == nil {
		return nil, ErrPDFUnavailable
	}

	html, err := s.Render(ctx, saleID)
	if err != nil {
		return nil, err
	}

	result, err := s.renderer.Render(ctx, &infra.RenderRequest{
		HTML:         html,
		Title:        "Receipt " + saleID.String(),
		PaperWidthMM: s.config.PaperWidthMM,
		MarginMM:     2,
	})
	if err != nil {
		var renderErr *infra.RenderError
		if errors.As(err, &renderErr) && renderErr.Transient() {
			return nil, fmt.Errorf("%w: %w", errPDFRetry, err)
		}
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}

	s.logger.Debug("Receipt PDF rendered",
		zap.String("sale_id", saleID.String()),
		zap.Int("bytes", len(result.PDFData)),
		zap.Duration("duration", result.RenderDuration))
	return result.PDFData, nil
}

// receiptData loads the sale, its customer and product names.
// Totals are copied from the stored sale as-is.
func (s *ReceiptService) receiptData(ctx context.Context, saleID uuid.UUID) (*infra.ReceiptData, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Sale")
		}
		return nil, err
	}

	customerName := ""
	customer, err := s.customerRepo.FindByID(ctx, sale.CustomerID)
	switch {
	case err == nil:
		customerName = customer.FullName()
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(sale.Details))
	lines := make([]infra.ReceiptLine, 0, len(sale.Details))
	for _, detail := range sale.Details {
		name, ok := names[detail.ProductID]
		if !ok {
			name, err = s.productName(ctx, detail.ProductID)
			if err != nil {
				return nil, err
			}
			names[detail.ProductID] = name
		}
		lines = append(lines, infra.ReceiptLine{
			ProductName: name,
			Quantity:    detail.Quantity,
			Price:       detail.Price,
			Total:       detail.TotalDetail,
		})
	}

	date := sale.Date
	if s.config.Location != nil {
		date = date.In(s.config.Location)
	}

	return &infra.ReceiptData{
		StoreName:     s.config.StoreName,
		SaleID:        sale.ID,
		Date:          date,
		CustomerName:  customerName,
		Lines:         lines,
		SubTotal:      sale.SubTotal,
		TaxPercentage: sale.TaxPercentage,
		TaxAmount:     sale.TaxAmount,
		GrandTotal:    sale.GrandTotal,
		AmountPayed:   sale.AmountPayed,
		AmountChange:  sale.AmountChange,
	}, nil
}

func (s *ReceiptService) productName(ctx context.Context, id uuid.UUID) (string, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return unknownProductName, nil
		}
		return "", err
	}
	return product.Name, nil
}
