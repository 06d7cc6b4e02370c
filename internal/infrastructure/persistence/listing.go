package persistence

import (
	"maps"
	"slices"
	"strings"

	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"gorm.io/gorm"
)

// listing describes how one table is searched, narrowed and ordered by list endpoints
type listing struct {
	search      []string          // columns matched case-insensitively by Filter.Search
	equals      map[string]string // Filter.Filters key to column; other keys are ignored
	sortable    map[string]bool
	defaultSort string
	defaultDir  string // used when the caller gives no OrderBy
}

var (
	categoryListing = listing{
		search:      []string{"name", "description"},
		equals:      map[string]string{"status": "status"},
		sortable:    CategorySortFields,
		defaultSort: "name",
		defaultDir:  "ASC",
	}
	productListing = listing{
		search:      []string{"name"},
		equals:      map[string]string{"status": "status", "category_id": "category_id"},
		sortable:    ProductSortFields,
		defaultSort: "name",
		defaultDir:  "ASC",
	}
	customerListing = listing{
		search:      []string{"first_name", "last_name", "email"},
		equals:      map[string]string{"email": "email", "phone": "phone"},
		sortable:    CustomerSortFields,
		defaultSort: "last_name",
		defaultDir:  "ASC",
	}
	saleListing = listing{
		sortable:    SaleSortFields,
		defaultSort: "date",
		defaultDir:  "DESC",
	}
)

// narrow applies the search term and the known equality filters
func (l listing) narrow(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if term := strings.TrimSpace(filter.Search); term != "" && len(l.search) > 0 {
		pattern := "%" + strings.ToLower(term) + "%"
		conds := make([]string, len(l.search))
		args := make([]any, len(l.search))
		for i, column := range l.search {
			conds[i] = "LOWER(" + column + ") LIKE ?"
			args[i] = pattern
		}
		query = query.Where(strings.Join(conds, " OR "), args...)
	}

	// sorted so the generated SQL is stable
	for _, key := range slices.Sorted(maps.Keys(filter.Filters)) {
		if column, ok := l.equals[key]; ok {
			query = query.Where(column+" = ?", filter.Filters[key])
		}
	}
	return query
}

// page applies the whitelisted ordering and the page window
func (l listing) page(query *gorm.DB, filter shared.Filter) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, l.sortable, l.defaultSort)
	dir := l.defaultDir
	if filter.OrderBy != "" {
		dir = ValidateSortOrder(filter.OrderDir)
	}
	query = query.Order(field + " " + dir)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// findPage counts every row the filter matches, then loads one page of them
func findPage[T any](query *gorm.DB, l listing, filter shared.Filter) ([]T, int64, error) {
	query = l.narrow(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []T
	if err := l.page(query, filter).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// countMatching counts rows matching the filter's search and equality conditions
func countMatching(query *gorm.DB, l listing, filter shared.Filter) (int64, error) {
	var count int64
	if err := l.narrow(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
