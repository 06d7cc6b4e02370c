package sales

import (
	"time"

	"github.com/Honest-88/pos-sample/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLineRequest is one product line of a sale submission
type SaleLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	// UnitPrice overrides the product's list price; nil sells at list price
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
}

// RecordSaleRequest represents a sale submission from the register
type RecordSaleRequest struct {
	CustomerID    uuid.UUID         `json:"customer_id" binding:"required"`
	TaxPercentage decimal.Decimal   `json:"tax_percentage"`
	AmountPayed   decimal.Decimal   `json:"amount_payed"`
	Date          *time.Time        `json:"date"`
	Lines         []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// SaleDetailResponse represents one sale line in API responses
type SaleDetailResponse struct {
	ID          uuid.UUID        `json:"id"`
	LineNo      int              `json:"line_no"`
	ProductID   uuid.UUID        `json:"product_id"`
	Price       decimal.Decimal  `json:"price"`
	Quantity    int              `json:"quantity"`
	TotalDetail decimal.Decimal  `json:"total_detail"`
	BuyingPrice *decimal.Decimal `json:"buying_price"`
	Profit      decimal.Decimal  `json:"profit"`
}

// SaleResponse represents a sale with its details in API responses
type SaleResponse struct {
	ID            uuid.UUID            `json:"id"`
	Date          time.Time            `json:"date"`
	CustomerID    uuid.UUID            `json:"customer_id"`
	SubTotal      decimal.Decimal      `json:"sub_total"`
	TaxPercentage decimal.Decimal      `json:"tax_percentage"`
	TaxAmount     decimal.Decimal      `json:"tax_amount"`
	GrandTotal    decimal.Decimal      `json:"grand_total"`
	AmountPayed   decimal.Decimal      `json:"amount_payed"`
	AmountChange  decimal.Decimal      `json:"amount_change"`
	Profit        decimal.Decimal      `json:"profit"`
	Details       []SaleDetailResponse `json:"details"`
	CreatedAt     time.Time            `json:"created_at"`
}

// SaleListFilter represents filter options for sale list
type SaleListFilter struct {
	CustomerID *uuid.UUID `form:"-"` // set from the customer_id query parameter
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToSaleResponse converts a domain Sale to SaleResponse
func ToSaleResponse(s *sales.Sale) SaleResponse {
	details := make([]SaleDetailResponse, len(s.Details))
	for i, d := range s.Details {
		details[i] = SaleDetailResponse{
			ID:          d.ID,
			LineNo:      d.LineNo,
			ProductID:   d.ProductID,
			Price:       d.Price,
			Quantity:    d.Quantity,
			TotalDetail: d.TotalDetail,
			Profit:      d.Profit,
		}
		if d.BuyingPrice.Valid {
			buying := d.BuyingPrice.Decimal
			details[i].BuyingPrice = &buying
		}
	}

	return SaleResponse{
		ID:            s.ID,
		Date:          s.Date,
		CustomerID:    s.CustomerID,
		SubTotal:      s.SubTotal,
		TaxPercentage: s.TaxPercentage,
		TaxAmount:     s.TaxAmount,
		GrandTotal:    s.GrandTotal,
		AmountPayed:   s.AmountPayed,
		AmountChange:  s.AmountChange,
		Profit:        s.Profit,
		Details:       details,
		CreatedAt:     s.CreatedAt,
	}
}
