package sales

import (
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleDetail is one line of a sale with price and cost snapshotted at sale time
type SaleDetail struct {
	shared.BaseEntity
	SaleID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	LineNo      int                 `gorm:"not null;default:0"`
	Price       decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Quantity    int                 `gorm:"not null"`
	TotalDetail decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	BuyingPrice decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	Profit      decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (SaleDetail) TableName() string {
	return "sale_details"
}

// NewSaleDetail creates a detail line with derived total and profit
func NewSaleDetail(saleID, productID uuid.UUID, price decimal.Decimal, quantity int, buyingPrice decimal.NullDecimal) (*SaleDetail, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product is required")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("Unit price cannot be negative")
	}

	detail := &SaleDetail{
		BaseEntity:  shared.NewBaseEntity(),
		SaleID:      saleID,
		ProductID:   productID,
		Price:       price,
		Quantity:    quantity,
		BuyingPrice: buyingPrice,
	}
	detail.Recompute()
	return detail, nil
}

// Recompute derives TotalDetail and Profit.
// Profit is zero when the buying price is unknown.
func (d *SaleDetail) Recompute() {
	qty := decimal.NewFromInt(int64(d.Quantity))
	d.TotalDetail = d.Price.Mul(qty)
	if !d.BuyingPrice.Valid {
		d.Profit = decimal.Zero
		return
	}
	d.Profit = d.TotalDetail.Sub(d.BuyingPrice.Decimal.Mul(qty))
}
