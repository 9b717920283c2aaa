package services

import (
	"sort"
	"strings"

	"zelr-valuation/models"
)

// SortOrder selects how search results are ordered.
type SortOrder string

const (
	SortHomesForYou SortOrder = "homes_for_you"
	SortPriceAsc    SortOrder = "price_asc"
	SortPriceDesc   SortOrder = "price_desc"
	SortNewest      SortOrder = "newest"
)

// ParseSortOrder falls back to SortHomesForYou for unknown values.
func ParseSortOrder(s string) SortOrder {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortPriceAsc, SortPriceDesc, SortNewest:
		return o
	default:
		return SortHomesForYou
	}
}

// SearchQuery filters a scored snapshot. Zero values disable a filter.
type SearchQuery struct {
	Text     string
	MinPrice int64
	MaxPrice int64
	MinBeds  int
	MinBaths int
	HomeType string
	Sort     SortOrder
}

// Search returns the listings matching q in q.Sort order. Ties are broken by
// ID so the order is total. The input slice is not modified.
func Search(scored []models.ScoredListing, q SearchQuery) []models.ScoredListing {
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	homeType := strings.TrimSpace(q.HomeType)

	out := make([]models.ScoredListing, 0, len(scored))
	for _, l := range scored {
		if needle != "" && !matchesText(l.Listing, needle) {
			continue
		}
		if q.MinPrice > 0 && l.Price < q.MinPrice {
			continue
		}
		if q.MaxPrice > 0 && l.Price > q.MaxPrice {
			continue
		}
		if l.Beds < q.MinBeds || l.Baths < q.MinBaths {
			continue
		}
		if homeType != "" && !strings.EqualFold(l.HomeType, homeType) {
			continue
		}
		out = append(out, l)
	}

	sort.SliceStable(out, lessFor(out, q.Sort))
	return out
}

func matchesText(l models.Listing, needle string) bool {
	for _, field := range []string{l.Address, l.City, l.Province} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func lessFor(out []models.ScoredListing, order SortOrder) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := out[i], out[j]
		switch order {
		case SortPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case SortPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
		case SortNewest:
			if a.YearBuilt != b.YearBuilt {
				return a.YearBuilt > b.YearBuilt
			}
		default:
			if a.Score != b.Score {
				return a.Score > b.Score
			}
		}
		return a.ID < b.ID
	}
}
