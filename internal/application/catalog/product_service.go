package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/Honest-88/pos-sample/internal/domain/catalog"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// Create creates a new product. Totals are derived, never taken from the request.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	status, err := parseStatusOrDefault(req.Status)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(catalog.ProductAttributes{
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		CategoryID:  req.CategoryID,
		BuyingPrice: req.BuyingPrice,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, product, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves products matching the filter
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := toDomainFilter(filter.Search, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	if filter.CategoryID != nil {
		domainFilter = domainFilter.Where("category_id", *filter.CategoryID)
	}

	var (
		products []catalog.Product
		total    int64
		err      error
	)
	if filter.Status != "" {
		status, perr := catalog.ParseStatus(filter.Status)
		if perr != nil {
			return nil, 0, perr
		}
		products, total, err = s.productRepo.FindByStatus(ctx, status, domainFilter)
	} else {
		products, total, err = s.productRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Search returns the first products whose name contains term
func (s *ProductService) Search(ctx context.Context, term string) ([]ProductSearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []ProductSearchResult{}, nil
	}

	products, err := s.productRepo.SearchByName(ctx, term, catalog.SearchLimit)
	if err != nil {
		return nil, err
	}

	results := make([]ProductSearchResult, len(products))
	for i, p := range products {
		results[i] = ProductSearchResult{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: p.Quantity,
		}
	}
	return results, nil
}

// Update replaces a product's attributes and recomputes its totals.
// The write is version-checked, so an edit loaded before a sale took stock
// fails with shared.ErrConcurrencyConflict instead of restoring the units.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != nil {
		if err := product.ExpectVersion(*req.Version); err != nil {
			return nil, err
		}
	}

	status, err := catalog.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != product.CategoryID {
		if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := product.Update(catalog.ProductAttributes{
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		CategoryID:  req.CategoryID,
		BuyingPrice: req.BuyingPrice,
		Price:       req.Price,
		Quantity:    req.Quantity,
	}); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, product, product.ID); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *ProductService) ensureCategory(ctx context.Context, categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewValidationError("Product category is required")
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Category")
		}
		return err
	}
	return nil
}

func (s *ProductService) ensureUnique(ctx context.Context, product *catalog.Product, excludeID uuid.UUID) error {
	exists, err := s.productRepo.ExistsWithAttributes(ctx, product.Attributes(), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDuplicateError("Product")
	}
	return nil
}
