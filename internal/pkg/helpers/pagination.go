package helpers

import (
	"github.com/yigit/alumniconnect/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1
	// MaxPage bounds page so offsets cannot overflow
	MaxPage = 1_000_000
)

// NormalizePage clamps a 1-based page and a page size into the accepted range
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return page, size
}

// CalculateOffsetLimit converts a 1-based page into SQL offset and limit
func CalculateOffsetLimit(page, size int) (offset uint64, limit uint64) {
	page, size = NormalizePage(page, size)
	return uint64((page - 1) * size), uint64(size)
}

// NewPaginationInfo builds the pagination block of a list response
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	page, size = NormalizePage(page, size)

	totalPages := int((totalItems + int64(size) - 1) / int64(size))
	if totalPages == 0 {
		totalPages = 1
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// Paginate slices an in-memory result set and returns the page together with its pagination info
func Paginate[T any](items []T, page, size int) ([]T, dto.PaginationInfo) {
	page, size = NormalizePage(page, size)
	info := NewPaginationInfo(int64(len(items)), page, size)

	if page > info.TotalPages {
		return []T{}, info
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}, info
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], info
}

// NewListResponse pairs a page of items with pagination info
func NewListResponse[T any](items []T, totalItems int64, page, size int) dto.ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return dto.ListResponse[T]{Items: items, Pagination: NewPaginationInfo(totalItems, page, size)}
}
