package catalog

import (
	"context"

	"github.com/Honest-88/pos-sample/internal/domain/catalog"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	status, err := parseStatusOrDefault(req.Status)
	if err != nil {
		return nil, err
	}

	category, err := catalog.NewCategory(req.Name, req.Description, status)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, category, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List retrieves categories matching the filter
func (s *CategoryService) List(ctx context.Context, filter CategoryListFilter) ([]CategoryResponse, int64, error) {
	domainFilter := toDomainFilter(filter.Search, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)

	var (
		categories []catalog.Category
		total      int64
		err        error
	)
	if filter.Status != "" {
		status, perr := catalog.ParseStatus(filter.Status)
		if perr != nil {
			return nil, 0, perr
		}
		categories, total, err = s.categoryRepo.FindByStatus(ctx, status, domainFilter)
	} else {
		categories, total, err = s.categoryRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	return ToCategoryResponses(categories), total, nil
}

// ListActive returns every ACTIVE category ordered by name, as offered by the product form
func (s *CategoryService) ListActive(ctx context.Context) ([]CategoryResponse, error) {
	filter := shared.Filter{OrderBy: "name", OrderDir: "asc"}
	categories, _, err := s.categoryRepo.FindByStatus(ctx, catalog.StatusActive, filter)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// Update replaces a category's attributes
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := catalog.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	if err := category.Update(req.Name, req.Description, status); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, category, category.ID); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete deletes a category together with its products
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

func (s *CategoryService) ensureUnique(ctx context.Context, category *catalog.Category, excludeID uuid.UUID) error {
	exists, err := s.categoryRepo.ExistsWithAttributes(ctx, category.Name, category.Description, category.Status, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDuplicateError("Category")
	}
	return nil
}
