package services

import (
	"reflect"
	"testing"

	"zelr-valuation/models"
)

func searchFixture() []models.ScoredListing {
	mk := func(id, addr, city string, price int64, beds, baths, year int, homeType string, score int) models.ScoredListing {
		return models.ScoredListing{
			Listing: models.Listing{
				ID: id, Address: addr, City: city, Province: "ON",
				Price: price, Beds: beds, Baths: baths, YearBuilt: year, HomeType: homeType,
			},
			Score: score,
		}
	}
	return []models.ScoredListing{
		mk("d", "12 Queen St W", "Toronto", 1_100_000, 3, 2, 2005, "Condo", 80),
		mk("a", "88 King St E", "Hamilton", 650_000, 2, 1, 1998, "Townhouse", 80),
		mk("c", "5 Lakeshore Rd", "Oakville", 2_400_000, 5, 4, 2019, "Detached", 55),
		mk("b", "301 Bloor St", "Toronto", 720_000, 1, 1, 2019, "Condo", 91),
	}
}

func ids(list []models.ScoredListing) []string {
	out := make([]string, len(list))
	for i, l := range list {
		out[i] = l.ID
	}
	return out
}

func TestSearchSortOrders(t *testing.T) {
	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortHomesForYou, []string{"b", "a", "d", "c"}},
		{SortPriceAsc, []string{"a", "b", "d", "c"}},
		{SortPriceDesc, []string{"c", "d", "b", "a"}},
		{SortNewest, []string{"b", "c", "d", "a"}},
	}
	for _, tt := range tests {
		got := ids(Search(searchFixture(), SearchQuery{Sort: tt.order}))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("sort %s: got %v, want %v", tt.order, got, tt.want)
		}
	}
}

func TestSearchFilters(t *testing.T) {
	tests := []struct {
		name string
		q    SearchQuery
		want []string
	}{
		{"text city", SearchQuery{Text: "toronto"}, []string{"b", "d"}},
		{"text address", SearchQuery{Text: " LAKESHORE "}, []string{"c"}},
		{"price range", SearchQuery{MinPrice: 700_000, MaxPrice: 1_200_000}, []string{"b", "d"}},
		{"min beds", SearchQuery{MinBeds: 3}, []string{"d", "c"}},
		{"min baths", SearchQuery{MinBaths: 2, Sort: SortPriceAsc}, []string{"d", "c"}},
		{"home type", SearchQuery{HomeType: "condo"}, []string{"b", "d"}},
		{"no match", SearchQuery{Text: "vancouver"}, []string{}},
	}
	for _, tt := range tests {
		got := ids(Search(searchFixture(), tt.q))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSearchDoesNotReorderInput(t *testing.T) {
	in := searchFixture()
	before := ids(in)
	Search(in, SearchQuery{Sort: SortPriceAsc})
	if !reflect.DeepEqual(ids(in), before) {
		t.Error("Search must not reorder its input")
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := map[string]SortOrder{
		"price_asc":  SortPriceAsc,
		"PRICE_DESC": SortPriceDesc,
		" newest ":   SortNewest,
		"":           SortHomesForYou,
		"bogus":      SortHomesForYou,
	}
	for in, want := range tests {
		if got := ParseSortOrder(in); got != want {
			t.Errorf("ParseSortOrder(%q) = %q; want %q", in, got, want)
		}
	}
}
