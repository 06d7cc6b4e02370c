package catalog

import (
	"strings"

	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item held in stock.
// TotalAmount and ProfitAmount are derived and recomputed whenever the
// product's price, buying price or quantity are set through the domain.
type Product struct {
	shared.BaseAggregateRoot
	Name         string          `gorm:"type:varchar(256);not null;index"`
	Description  string          `gorm:"type:varchar(256);not null;default:''"`
	Status       Status          `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	CategoryID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	BuyingPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Price        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Quantity     int             `gorm:"not null;default:0"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ProfitAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductAttributes carries the caller-settable fields of a product
type ProductAttributes struct {
	Name        string
	Description string
	Status      Status
	CategoryID  uuid.UUID
	BuyingPrice decimal.Decimal
	Price       decimal.Decimal
	Quantity    int
}

// NewProduct creates a new product with derived totals computed
func NewProduct(attrs ProductAttributes) (*Product, error) {
	attrs.Name = strings.TrimSpace(attrs.Name)
	if err := attrs.validate(); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
	}
	product.apply(attrs)
	return product, nil
}

// Update replaces the product's attributes and recomputes its totals
func (p *Product) Update(attrs ProductAttributes) error {
	attrs.Name = strings.TrimSpace(attrs.Name)
	if err := attrs.validate(); err != nil {
		return err
	}

	p.apply(attrs)
	p.MarkModified()
	return nil
}

// Attributes returns the caller-settable fields of the product
func (p *Product) Attributes() ProductAttributes {
	return ProductAttributes{
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		CategoryID:  p.CategoryID,
		BuyingPrice: p.BuyingPrice,
		Price:       p.Price,
		Quantity:    p.Quantity,
	}
}

// RecomputeTotals derives TotalAmount and ProfitAmount from price, buying price and quantity
func (p *Product) RecomputeTotals() {
	qty := decimal.NewFromInt(int64(p.Quantity))
	p.TotalAmount = p.Price.Mul(qty)
	p.ProfitAmount = p.Price.Sub(p.BuyingPrice).Mul(qty)
}

// Profit returns the per-unit margin, price minus buying price
func (p *Product) Profit() decimal.Decimal {
	return p.Price.Sub(p.BuyingPrice)
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == StatusActive
}

func (p *Product) apply(attrs ProductAttributes) {
	p.Name = attrs.Name
	p.Description = attrs.Description
	p.Status = attrs.Status
	p.CategoryID = attrs.CategoryID
	p.BuyingPrice = attrs.BuyingPrice
	p.Price = attrs.Price
	p.Quantity = attrs.Quantity
	p.RecomputeTotals()
}

func (a ProductAttributes) validate() error {
	if err := validateName("Product", a.Name); err != nil {
		return err
	}
	if err := validateDescription(a.Description); err != nil {
		return err
	}
	if !a.Status.IsValid() {
		return shared.NewValidationError("Product status must be ACTIVE or INACTIVE")
	}
	if a.CategoryID == uuid.Nil {
		return shared.NewValidationError("Product category is required")
	}
	if a.BuyingPrice.IsNegative() {
		return shared.NewValidationError("Buying price cannot be negative")
	}
	if a.Price.IsNegative() {
		return shared.NewValidationError("Price cannot be negative")
	}
	if a.Quantity < 0 {
		return shared.NewValidationError("Quantity cannot be negative")
	}
	return nil
}
