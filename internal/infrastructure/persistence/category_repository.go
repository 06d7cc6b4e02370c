package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/Honest-88/pos-sample/internal/domain/catalog"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAll finds all categories matching the filter
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, int64, error) {
	return r.find(r.db.WithContext(ctx).Model(&catalog.Category{}), filter)
}

// FindByStatus finds categories with the given status
func (r *GormCategoryRepository) FindByStatus(ctx context.Context, status catalog.Status, filter shared.Filter) ([]catalog.Category, int64, error) {
	return r.find(r.db.WithContext(ctx).Model(&catalog.Category{}).Where("status = ?", status), filter)
}

func (r *GormCategoryRepository) find(query *gorm.DB, filter shared.Filter) ([]catalog.Category, int64, error) {
	return findPage[catalog.Category](query, categoryListing, filter)
}

// Count counts categories matching the filter
func (r *GormCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return countMatching(r.db.WithContext(ctx).Model(&catalog.Category{}), categoryListing, filter)
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete deletes a category. Its products go with it through the foreign key cascade.
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsWithAttributes checks if another category carries the same name, description and status
func (r *GormCategoryRepository) ExistsWithAttributes(ctx context.Context, name, description string, status catalog.Status, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Where("name = ? AND description = ? AND status = ?", strings.TrimSpace(name), description, status)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
