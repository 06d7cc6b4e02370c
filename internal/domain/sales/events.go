package sales

import (
	"time"

	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeSale is the aggregate type name for sales
const AggregateTypeSale = "Sale"

// EventTypeSaleRecorded is published once a sale has been committed
const EventTypeSaleRecorded = "SaleRecorded"

// SaleRecordedEvent carries the settled totals of a committed sale
type SaleRecordedEvent struct {
	shared.EventHeader
	SaleID        uuid.UUID       `json:"sale_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Date          time.Time       `json:"date"`
	LineCount     int             `json:"line_count"`
	TotalQuantity int             `json:"total_quantity"`
	SubTotal      decimal.Decimal `json:"sub_total"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	Profit        decimal.Decimal `json:"profit"`
}

// NewSaleRecordedEvent creates a SaleRecordedEvent from a settled sale
func NewSaleRecordedEvent(sale *Sale) *SaleRecordedEvent {
	return &SaleRecordedEvent{
		EventHeader:   shared.NewEventHeader(EventTypeSaleRecorded, AggregateTypeSale, sale.ID),
		SaleID:        sale.ID,
		CustomerID:    sale.CustomerID,
		Date:          sale.Date,
		LineCount:     len(sale.Details),
		TotalQuantity: sale.TotalQuantity(),
		SubTotal:      sale.SubTotal,
		TaxAmount:     sale.TaxAmount,
		GrandTotal:    sale.GrandTotal,
		Profit:        sale.Profit,
	}
}
