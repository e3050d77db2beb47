package dto

// PaginationMeta captures pagination metadata for list responses.
// Pages is always ceil(Total / Limit).
type PaginationMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPaginationMeta computes the pagination block for a list response.
func NewPaginationMeta(page, limit int, total int64) PaginationMeta {
	if page <= 0 {
		page = 1
	}

	meta := PaginationMeta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.Pages = int((total + int64(limit) - 1) / int64(limit))
	} else {
		meta.Pages = 1
	}

	return meta
}
