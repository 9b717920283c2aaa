package services

import (
	"fmt"
	"reflect"
	"testing"

	"zelr-valuation/models"
)

func TestValuationMatchesSequentialScoring(t *testing.T) {
	cities := []string{"Toronto", "Hamilton", "Mississauga", "Barrie"}
	var listings []models.Listing
	for i := 0; i < 57; i++ {
		listings = append(listings, models.Listing{
			ID:    fmt.Sprintf("v%02d", i),
			City:  cities[i%len(cities)],
			Price: int64(450_000 + (i*7919)%900_000),
			Beds:  1 + i%4,
			Baths: 1 + i%3,
			Tag:   []models.Tag{models.TagNone, models.TagHot, models.TagNew}[i%3],
		})
	}

	for _, workers := range []int{0, 1, 4, 100} {
		svc := NewValuationService(newTestLogger(), DefaultLocationTable(), workers)
		baseline, got := svc.Run(listings)

		want := ScoreListings(listings, ComputeBaselines(listings))
		if !reflect.DeepEqual(got, want) {
			t.Errorf("workers=%d: parallel scoring differs from sequential", workers)
		}
		if baseline.GlobalMedian <= 0 || len(baseline.ByCity) != len(cities) {
			t.Errorf("workers=%d: unexpected baseline %+v", workers, baseline)
		}
	}
}

func TestValuationEmpty(t *testing.T) {
	svc := NewValuationService(newTestLogger(), DefaultLocationTable(), 4)
	_, scored := svc.Run(nil)
	if len(scored) != 0 {
		t.Errorf("expected no scored listings, got %d", len(scored))
	}
}
