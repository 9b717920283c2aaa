package services

import (
	"sort"

	"zelr-valuation/models"
)

// PricePerBed normalises a listing's price by its bedroom count. Negative
// prices count as zero and fewer than one bed counts as one.
func PricePerBed(l models.Listing) float64 {
	price := l.Price
	if price < 0 {
		price = 0
	}
	beds := l.Beds
	if beds < 1 {
		beds = 1
	}
	return float64(price) / float64(beds)
}

// ComputeBaselines derives the per-city median price-per-bed and the global
// median for a snapshot. The result is always rebuilt from the full input.
func ComputeBaselines(listings []models.Listing) models.MarketBaseline {
	baseline := models.MarketBaseline{ByCity: make(map[string]float64)}
	if len(listings) == 0 {
		return baseline
	}

	byCity := make(map[string][]float64)
	all := make([]float64, 0, len(listings))
	for _, l := range listings {
		ppb := PricePerBed(l)
		byCity[l.City] = append(byCity[l.City], ppb)
		all = append(all, ppb)
	}

	for city, values := range byCity {
		baseline.ByCity[city] = median(values)
	}
	baseline.GlobalMedian = median(all)
	return baseline
}

// median sorts values in place and returns the middle value, averaging the
// two middle values for even lengths. Empty input yields 0.
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sort.Float64s(values)
	mid := n / 2
	if n%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}
