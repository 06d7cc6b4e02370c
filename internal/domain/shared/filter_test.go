package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterOffset(t *testing.T) {
	f := DefaultFilter()
	assert.Equal(t, 0, f.Offset())
	f.Page = 3
	assert.Equal(t, 40, f.Offset())
	f.Page = 0
	assert.Equal(t, 0, f.Offset())
}

func TestFilterWhere(t *testing.T) {
	base := DefaultFilter().Where("status", "active")
	narrowed := base.Where("category_id", "drinks")

	assert.Equal(t, map[string]any{"status": "active"}, base.Filters)
	assert.Equal(t, map[string]any{"status": "active", "category_id": "drinks"}, narrowed.Filters)
	assert.Equal(t, DefaultPageSize, narrowed.PageSize)
}
