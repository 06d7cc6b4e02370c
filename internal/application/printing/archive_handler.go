package printing

import (
	"context"
	"fmt"

	"github.com/Honest-88/pos-sample/internal/domain/sales"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/Honest-88/pos-sample/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// ReceiptArchiveHandler stores a PDF receipt for every recorded sale
type ReceiptArchiveHandler struct {
	receipts *ReceiptService
	storage  storage.FileStorage
	logger   *zap.Logger
}

// NewReceiptArchiveHandler creates a new ReceiptArchiveHandler
func NewReceiptArchiveHandler(receipts *ReceiptService, fs storage.FileStorage, logger *zap.Logger) *ReceiptArchiveHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptArchiveHandler{
		receipts: receipts,
		storage:  fs,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ReceiptArchiveHandler) EventTypes() []string {
	return []string{sales.EventTypeSaleRecorded}
}

// Handle renders the sale's receipt and writes it to receipts/YYYY/MM/<sale-id>.pdf
func (h *ReceiptArchiveHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	recorded, ok := event.(*sales.SaleRecordedEvent)
	if !ok {
		return nil
	}

	pdf, err := h.receipts.RenderPDF(ctx, recorded.SaleID)
	if err != nil {
		return fmt.Errorf("archive receipt for sale %s: %w", recorded.SaleID, err)
	}

	key := storage.ReceiptKey(recorded.SaleID, recorded.Date)
	if err := h.storage.Put(ctx, key, pdf, "application/pdf"); err != nil {
		return fmt.Errorf("archive receipt for sale %s: %w", recorded.SaleID, err)
	}

	h.logger.Info("Receipt archived",
		zap.String("sale_id", recorded.SaleID.String()),
		zap.String("key", key))
	return nil
}

var _ shared.EventHandler = (*ReceiptArchiveHandler)(nil)
