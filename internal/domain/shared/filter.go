package shared

import "maps"

// DefaultPageSize applies when a list request asks for none
const DefaultPageSize = 20

// Filter is the list query services hand to repositories.
// Filters holds equality conditions by field name; a repository ignores fields it cannot filter on.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter returns the first page in each repository's default order
func DefaultFilter() Filter {
	return Filter{Page: 1, PageSize: DefaultPageSize}
}

// Where returns a copy of f that also requires field to equal value
func (f Filter) Where(field string, value any) Filter {
	filters := make(map[string]any, len(f.Filters)+1)
	maps.Copy(filters, f.Filters)
	filters[field] = value
	f.Filters = filters
	return f
}

// Offset returns the row offset for the filter's page
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
