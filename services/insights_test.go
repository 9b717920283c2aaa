package services

import (
	"testing"
	"unicode/utf8"

	"zelr-valuation/models"
)

func sampleScored() ([]models.ScoredListing, models.MarketBaseline) {
	mk := func(id, city string, price int64, score int, tag models.Tag, safety int) models.ScoredListing {
		return models.ScoredListing{
			Listing: models.Listing{ID: id, Address: id + " Main St", City: city, Price: price, Beds: 2, Tag: tag,
				Signals: models.Signals{Safety: safety}},
			Score: score,
		}
	}
	scored := []models.ScoredListing{
		mk("a", "Toronto", 900_000, 88, models.TagHot, 80),
		mk("b", "Toronto", 700_000, 92, models.TagNone, 70),
		mk("c", "Hamilton", 500_000, 71, models.TagNew, 60),
		mk("d", "Oakville", 2_000_000, 45, models.TagHot, 90),
		mk("e", "Toronto", 0, 98, models.TagReduced, 50),
		mk("f", "Hamilton", 600_000, 64, models.TagNone, 40),
	}
	baseline := models.MarketBaseline{
		ByCity:       map[string]float64{"Toronto": 350_000, "Hamilton": 275_000, "Oakville": 1_000_000},
		GlobalMedian: 337_500,
	}
	return scored, baseline
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleScored())
	if r.TotalListings != 6 {
		t.Errorf("TotalListings: got %d, want 6", r.TotalListings)
	}
	if r.ListingsByTag[models.TagHot] != 2 || r.ListingsByTag[models.TagNew] != 1 || r.ListingsByTag[models.TagReduced] != 1 {
		t.Errorf("ListingsByTag: got %v", r.ListingsByTag)
	}
	if _, ok := r.ListingsByTag[models.TagNone]; ok {
		t.Error("untagged listings should not be counted")
	}
	if r.GlobalPerBed != 337_500 {
		t.Errorf("GlobalPerBed: got %.2f", r.GlobalPerBed)
	}
}

func TestInsightPrices(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleScored())
	if r.AveragePrice != 940_000 {
		t.Errorf("AveragePrice: got %.2f, want 940000", r.AveragePrice)
	}
	if r.MinPrice != 500_000 {
		t.Errorf("MinPrice: got %.2f, want 500000", r.MinPrice)
	}
	if r.MaxPrice != 2_000_000 {
		t.Errorf("MaxPrice: got %.2f, want 2000000", r.MaxPrice)
	}
	if r.AverageScore != 76.33 {
		t.Errorf("AverageScore: got %.2f, want 76.33", r.AverageScore)
	}
}

func TestInsightMostExpensive(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleScored())
	if r.MostExpensive == nil {
		t.Fatal("MostExpensive should not be nil")
	}
	if r.MostExpensive.ID != "d" {
		t.Errorf("MostExpensive: got %q, want %q", r.MostExpensive.ID, "d")
	}
}

func TestInsightTopScored(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleScored())
	if len(r.TopScored) != 5 {
		t.Fatalf("TopScored: got %d, want 5", len(r.TopScored))
	}
	want := []string{"e", "b", "a", "c", "f"}
	for i, l := range r.TopScored {
		if l.ID != want[i] {
			t.Errorf("TopScored[%d]: got %s, want %s", i, l.ID, want[i])
		}
	}
}

func TestInsightCities(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleScored())
	if len(r.Cities) != 3 {
		t.Fatalf("Cities: got %d, want 3", len(r.Cities))
	}
	toronto := r.Cities[0]
	if toronto.City != "Toronto" || toronto.Listings != 3 {
		t.Fatalf("first city: got %+v", toronto)
	}
	if toronto.MedianPerBed != 350_000 || toronto.AverageScore != 92.67 || toronto.AverageSignals.Safety != 66.67 {
		t.Errorf("Toronto market: got %+v", toronto)
	}
	if r.Cities[1].City != "Hamilton" || r.Cities[2].City != "Oakville" {
		t.Errorf("city order: got %s, %s", r.Cities[1].City, r.Cities[2].City)
	}
}

func TestInsightEmpty(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(nil, models.MarketBaseline{})
	if r.TotalListings != 0 || r.MostExpensive != nil || len(r.TopScored) != 0 {
		t.Errorf("empty input should give an empty report, got %+v", r)
	}
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"12 Rue Sainte-Catherine", 42, "12 Rue Sainte-Catherine"},
		{"Montréal", 8, "Montréal"},
		{"Montréal-Est", 8, "Montr..."},
		{"Trois-Rivières", 11, "Trois-Ri..."},
		{"Île-Perrot", 10, "Île-Perrot"},
		{"Île-Perrot", 3, "Île"},
		{"Ste-Thérèse-de-Blainville", 14, "Ste-Thérèse..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.max)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q; want %q", tt.in, tt.max, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.max)
		}
		if n := utf8.RuneCountInString(got); n > tt.max {
			t.Errorf("truncate(%q, %d) is %d runes long", tt.in, tt.max, n)
		}
	}
}
