package common

import "github.com/m77ag/backend/internal/domain/shared"

// PageQuery carries the paging and sorting query parameters shared by list endpoints
type PageQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy  string `form:"order_by" binding:"max=50"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search   string `form:"search" binding:"max=100"`
}

// Filter converts the query into a repository filter. The repository
// whitelists OrderBy and falls back to its own default column.
func (q PageQuery) Filter(defaultOrderBy string) shared.Filter {
	f := shared.DefaultFilter()
	if defaultOrderBy != "" {
		f.OrderBy = defaultOrderBy
	}
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.PageSize > 0 {
		f.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		f.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		f.OrderDir = q.OrderDir
	}
	f.Search = q.Search
	return f
}
