package sales

import (
	"time"

	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Sale is a settled point-of-sale transaction.
// Everything but TaxPercentage and AmountPayed is derived from its details.
type Sale struct {
	shared.BaseAggregateRoot
	Date          time.Time       `gorm:"not null;index"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SubTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxPercentage decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AmountPayed   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AmountChange  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Profit        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Details       []SaleDetail    `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates an unsettled sale for a customer.
// A zero date means now; the date is kept in UTC.
func NewSale(customerID uuid.UUID, taxPercentage, amountPayed decimal.Decimal, date time.Time) (*Sale, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer is required")
	}
	if taxPercentage.IsNegative() {
		return nil, shared.NewValidationError("Tax percentage cannot be negative")
	}
	if amountPayed.IsNegative() {
		return nil, shared.NewValidationError("Amount payed cannot be negative")
	}
	if date.IsZero() {
		date = time.Now()
	}
	// Stored as UTC so report windows compare instants, not wall clocks
	date = date.UTC()

	return &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Date:              date,
		CustomerID:        customerID,
		SubTotal:          decimal.Zero,
		GrandTotal:        decimal.Zero,
		TaxAmount:         decimal.Zero,
		TaxPercentage:     taxPercentage,
		AmountPayed:       amountPayed,
		AmountChange:      decimal.Zero,
		Profit:            decimal.Zero,
	}, nil
}

// AddLine appends a detail for the given product snapshot in input order
func (s *Sale) AddLine(productID uuid.UUID, price decimal.Decimal, quantity int, buyingPrice decimal.NullDecimal) (*SaleDetail, error) {
	detail, err := NewSaleDetail(s.ID, productID, price, quantity, buyingPrice)
	if err != nil {
		return nil, err
	}
	detail.LineNo = len(s.Details) + 1
	s.Details = append(s.Details, *detail)
	return &s.Details[len(s.Details)-1], nil
}

// Settle derives the totals from the sale's details.
// Returns shared.ErrInsufficientPayment when the amount payed does not cover the grand total.
func (s *Sale) Settle() error {
	if len(s.Details) == 0 {
		return shared.NewValidationError("Sale must have at least one line")
	}
	s.applyTotals(s.Details)
	if s.AmountChange.IsNegative() {
		return shared.ErrInsufficientPayment
	}
	return nil
}

// Reconcile refolds sub_total and profit from the persisted details and
// recomputes tax, grand total and change from them.
func (s *Sale) Reconcile(persisted []SaleDetail) error {
	s.applyTotals(persisted)
	s.Details = persisted
	s.UpdatedAt = time.Now()
	if s.AmountChange.IsNegative() {
		return shared.ErrInsufficientPayment
	}
	return nil
}

// TotalQuantity returns the number of units sold across all details
func (s *Sale) TotalQuantity() int {
	total := 0
	for _, d := range s.Details {
		total += d.Quantity
	}
	return total
}

func (s *Sale) applyTotals(details []SaleDetail) {
	subTotal := decimal.Zero
	profit := decimal.Zero
	for _, d := range details {
		subTotal = subTotal.Add(d.TotalDetail)
		profit = profit.Add(d.Profit)
	}

	s.SubTotal = subTotal
	s.Profit = profit
	s.TaxAmount = TaxOn(subTotal, s.TaxPercentage)
	s.GrandTotal = s.SubTotal.Add(s.TaxAmount)
	s.AmountChange = s.AmountPayed.Sub(s.GrandTotal)
}

// TaxOn returns subTotal * percentage / 100 rounded to the stored precision
func TaxOn(subTotal, percentage decimal.Decimal) decimal.Decimal {
	return subTotal.Mul(percentage).Div(hundred).Round(4)
}
