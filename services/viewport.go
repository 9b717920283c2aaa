package services

import "zelr-valuation/models"

// FilterByBounds keeps the listings whose coordinates fall inside bounds,
// edges included. Input order is preserved.
func FilterByBounds(scored []models.ScoredListing, bounds models.Bounds) []models.ScoredListing {
	out := make([]models.ScoredListing, 0, len(scored))
	for _, l := range scored {
		if bounds.Contains(l.Location) {
			out = append(out, l)
		}
	}
	return out
}
