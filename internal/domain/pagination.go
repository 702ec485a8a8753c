package domain

import (
	"slices"
	"strings"
)

type Pagination struct {
	Page         int
	PageSize     int
	Term         string
	Sort         string
	SortSafelist []string
}

// SortColumn falls back to the first safelisted value when Sort is not one
// of them, so the result is always safe to interpolate into a query.
func (f Pagination) SortColumn() string {
	if slices.Contains(f.SortSafelist, f.Sort) {
		return strings.TrimPrefix(f.Sort, "-")
	}

	if len(f.SortSafelist) > 0 {
		return strings.TrimPrefix(f.SortSafelist[0], "-")
	}

	return "created_at"
}

func (f Pagination) SortDirection() string {
	sort := f.Sort
	if !slices.Contains(f.SortSafelist, sort) && len(f.SortSafelist) > 0 {
		sort = f.SortSafelist[0]
	}

	if strings.HasPrefix(sort, "-") {
		return "DESC"
	}

	return "ASC"
}

func (f Pagination) Limit() int {
	return f.PageSize
}

func (f Pagination) Offset() int {
	return (f.Page - 1) * f.PageSize
}
