package services

import "zelr-valuation/models"

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 40

// Paginate returns the 1-based page of scored. Pages outside 1..TotalPages
// yield an empty slice.
func Paginate(scored []models.ScoredListing, page, pageSize int) []models.ScoredListing {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 || page > TotalPages(len(scored), pageSize) {
		return []models.ScoredListing{}
	}

	start := (page - 1) * pageSize
	end := start + min(pageSize, len(scored)-start)
	return scored[start:end]
}

// TotalPages is the number of non-empty pages for n items.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if n <= 0 {
		return 0
	}
	pages := n / pageSize
	if n%pageSize != 0 {
		pages++
	}
	return pages
}
