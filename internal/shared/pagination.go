package shared

import "math"

const (
	// DefaultPage is the first page for 1-based listings.
	DefaultPage = 1
	// DefaultLimit applies when a caller sends no or a non-positive limit.
	DefaultLimit = 10
)

// PageRequest carries the page number and size requested by a caller.
type PageRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize fills defaults for a 1-based listing.
func (p PageRequest) Normalize() PageRequest {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	return p
}

// NormalizeZeroBased fills defaults for a listing whose first page is 0.
func (p PageRequest) NormalizeZeroBased() PageRequest {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Page < 0 {
		p.Page = 0
	}
	return p
}

// Offset returns (page-1)*limit.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ZeroBasedOffset returns page*limit.
func (p PageRequest) ZeroBasedOffset() int {
	return p.Page * p.Limit
}

// Page is a single page of a filtered listing.
type Page[T any] struct {
	Data       []T `json:"data"`
	Count      int `json:"count"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

// NewPage builds a page from the fetched rows and the total number of matching rows.
func NewPage[T any](data []T, page, limit, total int) Page[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Page[T]{Data: data, Count: len(data), Page: page, TotalPages: totalPages}
}
