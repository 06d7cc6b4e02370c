package catalog

import (
	"context"
	"testing"

	"github.com/Honest-88/pos-sample/internal/domain/catalog"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCategory(t *testing.T, name string) *catalog.Category {
	t.Helper()
	category, err := catalog.NewCategory(name, "desc", catalog.StatusActive)
	require.NoError(t, err)
	return category
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active category by default", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		svc := NewCategoryService(repo)

		repo.On("ExistsWithAttributes", ctx, "Drinks", "Cold ones", catalog.StatusActive, uuid.Nil).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

		resp, err := svc.Create(ctx, CreateCategoryRequest{Name: "  Drinks ", Description: "Cold ones"})

		require.NoError(t, err)
		assert.Equal(t, "Drinks", resp.Name)
		assert.Equal(t, "ACTIVE", resp.Status)
		assert.NotEqual(t, uuid.Nil, resp.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects exact duplicate", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		svc := NewCategoryService(repo)

		repo.On("ExistsWithAttributes", ctx, "Drinks", "", catalog.StatusInactive, uuid.Nil).Return(true, nil)

		_, err := svc.Create(ctx, CreateCategoryRequest{Name: "Drinks", Status: "inactive"})

		assert.ErrorIs(t, err, shared.ErrDuplicateEntity)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc := NewCategoryService(new(MockCategoryRepository))

		_, err := svc.Create(ctx, CreateCategoryRequest{Name: "Drinks", Status: "ARCHIVED"})

		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestCategoryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("updates and excludes itself from the duplicate check", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		svc := NewCategoryService(repo)
		category := newTestCategory(t, "Drinks")

		repo.On("FindByID", ctx, category.ID).Return(category, nil)
		repo.On("ExistsWithAttributes", ctx, "Snacks", "Salty", catalog.StatusInactive, category.ID).Return(false, nil)
		repo.On("Save", ctx, category).Return(nil)

		resp, err := svc.Update(ctx, category.ID, UpdateCategoryRequest{Name: "Snacks", Description: "Salty", Status: "INACTIVE"})

		require.NoError(t, err)
		assert.Equal(t, "Snacks", resp.Name)
		assert.Equal(t, "INACTIVE", resp.Status)
		assert.Equal(t, 2, resp.Version)
		repo.AssertExpectations(t)
	})

	t.Run("returns not found", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		svc := NewCategoryService(repo)
		id := uuid.New()

		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(ctx, id, UpdateCategoryRequest{Name: "Snacks", Status: "ACTIVE"})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCategoryService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by status", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		svc := NewCategoryService(repo)
		categories := []catalog.Category{*newTestCategory(t, "A"), *newTestCategory(t, "B")}

		repo.On("FindByStatus", ctx, catalog.StatusActive, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 20
		})).Return(categories, int64(2), nil)

		items, total, err := svc.List(ctx, CategoryListFilter{Status: "active"})

		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, int64(2), total)
	})

	t.Run("lists all without status", func(t *testing.T) {
		repo := new(MockCategoryRepository)
		svc := NewCategoryService(repo)

		repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Search == "dr" && f.Page == 2 && f.PageSize == 5
		})).Return([]catalog.Category{}, int64(0), nil)

		items, total, err := svc.List(ctx, CategoryListFilter{Search: "dr", Page: 2, PageSize: 5})

		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Zero(t, total)
	})
}

func TestCategoryService_ListActive(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)

	repo.On("FindByStatus", ctx, catalog.StatusActive, mock.MatchedBy(func(f shared.Filter) bool {
		return f.OrderBy == "name" && f.PageSize == 0
	})).Return([]catalog.Category{*newTestCategory(t, "Drinks")}, int64(1), nil)

	items, err := svc.ListActive(ctx)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Drinks", items[0].Name)
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	id := uuid.New()

	repo.On("Delete", ctx, id).Return(shared.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, id), shared.ErrNotFound)
}
