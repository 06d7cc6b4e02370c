package catalog

import (
	"time"

	"github.com/Honest-88/pos-sample/internal/domain/catalog"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest represents a request to create a new category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=256"`
	Description string `json:"description" binding:"max=256"`
	Status      string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE active inactive"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=256"`
	Description string `json:"description" binding:"max=256"`
	Status      string `json:"status" binding:"required,oneof=ACTIVE INACTIVE active inactive"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// CategoryListFilter represents filter options for category list
type CategoryListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=256"`
	Description string          `json:"description" binding:"max=256"`
	Status      string          `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE active inactive"`
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	BuyingPrice decimal.Decimal `json:"buying_price"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" binding:"min=0"`
}

// UpdateProductRequest represents a request to update a product.
// All fields are replaced, matching the edit form. Version, when sent, is the
// version the form was loaded at; a newer stored version rejects the edit.
type UpdateProductRequest struct {
	Version     *int            `json:"version" binding:"omitempty,min=1"`
	Name        string          `json:"name" binding:"required,min=1,max=256"`
	Description string          `json:"description" binding:"max=256"`
	Status      string          `json:"status" binding:"required,oneof=ACTIVE INACTIVE active inactive"`
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	BuyingPrice decimal.Decimal `json:"buying_price"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" binding:"min=0"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
	CategoryID   uuid.UUID       `json:"category_id"`
	BuyingPrice  decimal.Decimal `json:"buying_price"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ProfitAmount decimal.Decimal `json:"profit_amount"`
	UnitProfit   decimal.Decimal `json:"unit_profit"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ProductSearchResult is the compact form returned by the sale screen lookup
type ProductSearchResult struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE active inactive"`
	CategoryID *uuid.UUID `form:"-"` // set from the category_id query parameter
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
	}
}

// ToCategoryResponses converts a slice of categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Status:       string(p.Status),
		CategoryID:   p.CategoryID,
		BuyingPrice:  p.BuyingPrice,
		Price:        p.Price,
		Quantity:     p.Quantity,
		TotalAmount:  p.TotalAmount,
		ProfitAmount: p.ProfitAmount,
		UnitProfit:   p.Profit(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// toDomainFilter maps list paging and sorting onto the repository filter
func toDomainFilter(search string, page, pageSize int, orderBy, orderDir string) shared.Filter {
	filter := shared.Filter{
		Search:   search,
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = shared.DefaultPageSize
	}
	return filter
}

// parseStatusOrDefault parses s, falling back to ACTIVE when empty
func parseStatusOrDefault(s string) (catalog.Status, error) {
	if s == "" {
		return catalog.StatusActive, nil
	}
	return catalog.ParseStatus(s)
}
