package services

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"zelr-valuation/models"
)

func numbered(n int) []models.ScoredListing {
	out := make([]models.ScoredListing, n)
	for i := range out {
		out[i] = scoredAt(fmt.Sprintf("id-%02d", i), 43.6+float64(i)*0.001, -79.4)
	}
	return out
}

func TestPaginateRoundTrip(t *testing.T) {
	tests := []struct {
		n, size  int
		lastPage int
	}{
		{0, 40, 0},
		{1, 40, 1},
		{40, 40, 40},
		{41, 40, 1},
		{95, 10, 5},
		{7, 3, 1},
	}
	for _, tt := range tests {
		seq := numbered(tt.n)
		pages := TotalPages(tt.n, tt.size)

		var joined []models.ScoredListing
		for p := 1; p <= pages; p++ {
			joined = append(joined, Paginate(seq, p, tt.size)...)
		}
		if len(seq) > 0 && !reflect.DeepEqual(joined, seq) {
			t.Errorf("n=%d size=%d: pages do not reconstruct the sequence", tt.n, tt.size)
		}
		if pages > 0 {
			if got := len(Paginate(seq, pages, tt.size)); got != tt.lastPage {
				t.Errorf("n=%d size=%d: last page has %d items, want %d", tt.n, tt.size, got, tt.lastPage)
			}
		}
	}
}

func TestPaginateOutOfRange(t *testing.T) {
	seq := numbered(5)
	for _, page := range []int{-1, 0, 2, 100} {
		if got := Paginate(seq, page, 5); got == nil || len(got) != 0 {
			t.Errorf("page %d: got %v, want empty slice", page, got)
		}
	}
}

func TestPaginateHugePageNumbers(t *testing.T) {
	seq := numbered(5)
	for _, page := range []int{math.MaxInt/40 + 2, math.MaxInt} {
		if got := Paginate(seq, page, 40); len(got) != 0 {
			t.Errorf("page %d: got %d items, want none", page, len(got))
		}
	}
	if got := Paginate(seq, 1, math.MaxInt); len(got) != 5 {
		t.Errorf("page size MaxInt: got %d items, want 5", len(got))
	}
	if got := Paginate(seq, 2, math.MaxInt); len(got) != 0 {
		t.Errorf("page 2 with page size MaxInt: got %d items, want none", len(got))
	}

	tests := []struct {
		n, size, want int
	}{
		{2, math.MaxInt, 1},
		{math.MaxInt, 1, math.MaxInt},
		{math.MaxInt, 2, math.MaxInt/2 + 1},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.n, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d; want %d", tt.n, tt.size, got, tt.want)
		}
	}
}

func TestPaginateDefaultSize(t *testing.T) {
	seq := numbered(50)
	if got := len(Paginate(seq, 1, 0)); got != DefaultPageSize {
		t.Errorf("page size 0: got %d items, want %d", got, DefaultPageSize)
	}
	if got := TotalPages(50, -3); got != 2 {
		t.Errorf("TotalPages(50, -3) = %d; want 2", got)
	}
}

func TestFilterByBoundsIdentity(t *testing.T) {
	seq := numbered(12)
	all := models.Bounds{North: 90, South: -90, East: 180, West: -180}
	if got := FilterByBounds(seq, all); !reflect.DeepEqual(got, seq) {
		t.Error("bounds covering every listing should return the input unchanged")
	}
}

func TestFilterByBoundsInclusiveEdges(t *testing.T) {
	seq := []models.ScoredListing{
		scoredAt("south-west", 43.5, -79.7),
		scoredAt("north-east", 43.9, -79.1),
		scoredAt("inside", 43.7, -79.4),
		scoredAt("north-of", 43.91, -79.4),
		scoredAt("west-of", 43.7, -79.71),
	}
	b := models.Bounds{North: 43.9, South: 43.5, East: -79.1, West: -79.7}

	var ids []string
	for _, l := range FilterByBounds(seq, b) {
		ids = append(ids, l.ID)
	}
	want := []string{"south-west", "north-east", "inside"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("got %v, want %v", ids, want)
	}
}

func TestFilterByBoundsEmpty(t *testing.T) {
	got := FilterByBounds(nil, models.Bounds{North: 1, South: 0, East: 1, West: 0})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
