package sales

import (
	"context"
	"errors"
	"time"

	"github.com/Honest-88/pos-sample/internal/domain/sales"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/Honest-88/pos-sample/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettlementObserver is notified of every settlement attempt
type SettlementObserver interface {
	ObserveSettlement(ctx context.Context, duration time.Duration, err error)
}

// SettlementService records sales and serves the sale history
type SettlementService struct {
	txScope        TransactionScope
	saleRepo       sales.SaleRepository
	eventPublisher shared.EventPublisher
	observer       SettlementObserver
	logger         *zap.Logger
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(txScope TransactionScope, saleRepo sales.SaleRepository, logger *zap.Logger) *SettlementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementService{
		txScope:  txScope,
		saleRepo: saleRepo,
		logger:   logger,
	}
}

// SetEventPublisher sets the publisher used for SaleRecorded events
func (s *SettlementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetObserver sets the settlement observer, typically the sales metrics
func (s *SettlementService) SetObserver(observer SettlementObserver) {
	s.observer = observer
}

// RecordSale settles a sale in a single transaction: the sale, its details and
// every stock decrement are committed together or not at all.
func (s *SettlementService) RecordSale(ctx context.Context, req RecordSaleRequest) (resp *SaleResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "record")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCustomerID, req.CustomerID.String(),
		telemetry.SpanAttrLineCount, len(req.Lines),
	)

	start := time.Now()
	defer func() {
		if err != nil {
			telemetry.RecordError(span, err)
			if code := telemetry.ErrorCode(err); code != "INTERNAL" {
				telemetry.SetAttributes(span, telemetry.SpanAttrErrorCode, code)
			}
		}
		if s.observer != nil {
			s.observer.ObserveSettlement(ctx, time.Since(start), err)
		}
	}()

	if err := validateRecordSale(req); err != nil {
		return nil, err
	}

	var sale *sales.Sale
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var txErr error
		sale, txErr = settle(ctx, repos, req)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrSaleID, sale.ID.String(),
		telemetry.SpanAttrQuantity, sale.TotalQuantity(),
		telemetry.SpanAttrGrandTotal, sale.GrandTotal.String(),
	)
	telemetry.SetOK(span)
	s.publishEvents(ctx, sale)

	response := ToSaleResponse(sale)
	return &response, nil
}

func validateRecordSale(req RecordSaleRequest) error {
	if req.CustomerID == uuid.Nil {
		return shared.NewValidationError("Customer is required")
	}
	if len(req.Lines) == 0 {
		return shared.NewValidationError("Sale must have at least one line")
	}
	if req.TaxPercentage.IsNegative() {
		return shared.NewValidationError("Tax percentage cannot be negative")
	}
	if req.AmountPayed.IsNegative() {
		return shared.NewValidationError("Amount payed cannot be negative")
	}
	for _, line := range req.Lines {
		if line.ProductID == uuid.Nil {
			return shared.NewValidationError("Product is required on every line")
		}
		if line.Quantity <= 0 {
			return shared.NewValidationError("Quantity must be positive")
		}
		if line.UnitPrice != nil && line.UnitPrice.IsNegative() {
			return shared.NewValidationError("Unit price cannot be negative")
		}
	}
	return nil
}

// settle runs inside the transaction
func settle(ctx context.Context, repos TransactionalRepositories, req RecordSaleRequest) (*sales.Sale, error) {
	if _, err := repos.CustomerRepo().FindByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Customer")
		}
		return nil, err
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	sale, err := sales.NewSale(req.CustomerID, req.TaxPercentage, req.AmountPayed, date)
	if err != nil {
		return nil, err
	}

	productRepo := repos.ProductRepo()
	for _, line := range req.Lines {
		product, err := productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewNotFoundError("Product")
			}
			return nil, err
		}

		price := product.Price
		if line.UnitPrice != nil {
			price = *line.UnitPrice
		}
		buying := decimal.NewNullDecimal(product.BuyingPrice)
		if _, err := sale.AddLine(product.ID, price, line.Quantity, buying); err != nil {
			return nil, err
		}
	}

	if err := sale.Settle(); err != nil {
		return nil, err
	}

	saleRepo := repos.SaleRepo()
	if err := saleRepo.Create(ctx, sale); err != nil {
		return nil, err
	}
	for i := range sale.Details {
		if err := saleRepo.CreateDetail(ctx, &sale.Details[i]); err != nil {
			return nil, err
		}
	}

	for _, detail := range sale.Details {
		if err := productRepo.DecrementStock(ctx, detail.ProductID, detail.Quantity, detail.TotalDetail); err != nil {
			return nil, err
		}
	}

	// Profit is taken from what was actually persisted
	persisted, err := saleRepo.FindDetails(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	if err := sale.Reconcile(persisted); err != nil {
		return nil, err
	}
	if err := saleRepo.UpdateTotals(ctx, sale); err != nil {
		return nil, err
	}

	sale.Raise(sales.NewSaleRecordedEvent(sale))
	return sale, nil
}

// publishEvents runs after commit; a failure is logged and never undoes the sale
func (s *SettlementService) publishEvents(ctx context.Context, sale *sales.Sale) {
	events := sale.TakeEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish sale events",
			zap.String("sale_id", sale.ID.String()),
			zap.Error(err))
	}
}

// GetSale retrieves a sale with its details
func (s *SettlementService) GetSale(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// ListSales lists sales, most recent first. To is an inclusive calendar day.
func (s *SettlementService) ListSales(ctx context.Context, filter SaleListFilter) ([]SaleResponse, int64, error) {
	domainFilter := sales.SaleFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		CustomerID: filter.CustomerID,
		From:       filter.From,
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if filter.To != nil {
		end := filter.To.AddDate(0, 0, 1)
		domainFilter.To = &end
	}
	if domainFilter.From != nil && domainFilter.To != nil && !domainFilter.From.Before(*domainFilter.To) {
		return nil, 0, shared.NewValidationError("from must not be after to")
	}

	list, total, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, len(list))
	for i := range list {
		responses[i] = ToSaleResponse(&list[i])
	}
	return responses, total, nil
}

// DeleteSale removes a sale and its details. Stock is not restored.
func (s *SettlementService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	return s.saleRepo.Delete(ctx, id)
}
