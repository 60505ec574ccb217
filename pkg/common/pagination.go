package common

import (
	"net/http"
	"strconv"
)

// MaxPageSize caps page_size
const MaxPageSize = 100

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// DefaultPaginationParams returns default pagination parameters
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Page:     1,
		PageSize: 20,
	}
}

// ExtractPaginationParams extracts pagination parameters from request.
// Invalid values fall back to defaults; oversized pages are capped.
func ExtractPaginationParams(r *http.Request) PaginationParams {
	params := DefaultPaginationParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if pageSize := r.URL.Query().Get("page_size"); pageSize != "" {
		if ps, err := strconv.Atoi(pageSize); err == nil && ps > 0 {
			params.PageSize = min(ps, MaxPageSize)
		}
	}

	return params
}

// Offset returns the number of items before the page
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// CalculateTotalPages calculates total number of pages
func CalculateTotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize > 0 {
		pages++
	}
	return pages
}

// BuildPaginationMeta builds pagination metadata
func BuildPaginationMeta(page, pageSize, total int) *PaginationInfo {
	totalPages := CalculateTotalPages(total, pageSize)

	return &PaginationInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
