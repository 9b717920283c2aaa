package services

import (
	"math"
	"strings"

	"zelr-valuation/models"
)

// Component weights of the combined score.
const (
	weightValue        = 0.70
	weightFundamentals = 0.15
	weightLocation     = 0.10
	weightMomentum     = 0.05
)

// LocationTable is the static per-city location score lookup. City names
// are matched case-insensitively after trimming.
type LocationTable struct {
	scores   map[string]int
	fallback int
}

// DefaultLocationScore applies to cities missing from the table.
const DefaultLocationScore = 75

// DefaultLocationTable returns the built-in table: the primary metro, its
// adjacent suburbs and the secondary cities of the GTA market.
func DefaultLocationTable() LocationTable {
	return NewLocationTable(map[string]int{
		"Toronto": 90,

		"Mississauga":   85,
		"Oakville":      85,
		"Burlington":    85,
		"Markham":       85,
		"Vaughan":       85,
		"Richmond Hill": 85,

		"Hamilton":  80,
		"Ottawa":    80,
		"Kitchener": 80,
		"London":    80,
	}, DefaultLocationScore)
}

// NewLocationTable builds a table from scores. A fallback of 0 or less means
// DefaultLocationScore.
func NewLocationTable(scores map[string]int, fallback int) LocationTable {
	if fallback <= 0 {
		fallback = DefaultLocationScore
	}
	t := LocationTable{scores: make(map[string]int, len(scores)), fallback: fallback}
	for city, score := range scores {
		t.scores[normaliseCity(city)] = score
	}
	return t
}

// WithOverrides returns a copy of t with the given cities replaced or added.
func (t LocationTable) WithOverrides(overrides map[string]int, fallback int) LocationTable {
	merged := make(map[string]int, len(t.scores)+len(overrides))
	for city, score := range t.scores {
		merged[city] = score
	}
	for city, score := range overrides {
		merged[normaliseCity(city)] = score
	}
	if fallback <= 0 {
		fallback = t.fallback
	}
	return LocationTable{scores: merged, fallback: fallback}
}

// Score returns the location score for city.
func (t LocationTable) Score(city string) int {
	if s, ok := t.scores[normaliseCity(city)]; ok {
		return s
	}
	if t.fallback <= 0 {
		return DefaultLocationScore
	}
	return t.fallback
}

func normaliseCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// ValueScore maps a price-per-bed ratio onto the tiered value curve. The
// curve is non-increasing in ratio.
func ValueScore(ratio float64) float64 {
	switch {
	case ratio <= 0.85:
		return 98
	case ratio <= 0.95:
		return 95 - ((ratio-0.85)/0.10)*5
	case ratio <= 1.05:
		return 90 - ((ratio-0.95)/0.10)*20
	case ratio <= 1.20:
		return 70 - ((ratio-1.05)/0.15)*20
	default:
		return 45
	}
}

// isMicro reports whether a unit has at most one bed and one bath.
func isMicro(beds, baths int) bool {
	return beds <= 1 && baths <= 1
}

// FundamentalsScore rewards bedrooms and bathrooms, capped at 100, and at 70
// for micro units.
func FundamentalsScore(beds, baths int) float64 {
	beds, baths = atLeastOne(beds), atLeastOne(baths)
	score := math.Min(float64(beds*15+baths*10), 100)
	if isMicro(beds, baths) {
		score = math.Min(score, 70)
	}
	return score
}

// MomentumScore is the constant contribution of a listing's tag.
func MomentumScore(tag models.Tag) float64 {
	switch tag {
	case models.TagHot:
		return 95
	case models.TagNew:
		return 85
	default:
		return 60
	}
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// ScoreListing computes the Zelr Score of one listing against a baseline.
// It is a pure function and safe to call concurrently.
//
// A zero price gives ratio 0 and therefore lands in the top value tier.
// Placeholder listings without a price score as elite value; callers that
// want to exclude them must filter before scoring.
func ScoreListing(l models.Listing, baseline models.MarketBaseline, locations LocationTable) models.ScoredListing {
	ppb := PricePerBed(l)
	ref := baseline.Reference(l.City)
	ratio := ppb / ref

	beds, baths := atLeastOne(l.Beds), atLeastOne(l.Baths)
	micro := isMicro(beds, baths)

	breakdown := models.ScoreBreakdown{
		PricePerBed:  ppb,
		Baseline:     ref,
		Ratio:        ratio,
		Value:        ValueScore(ratio),
		Fundamentals: FundamentalsScore(beds, baths),
		Location:     float64(locations.Score(l.City)),
		Momentum:     MomentumScore(l.Tag),
		Micro:        micro,
	}

	combined := weightValue*breakdown.Value +
		weightFundamentals*breakdown.Fundamentals +
		weightLocation*breakdown.Location +
		weightMomentum*breakdown.Momentum

	return models.ScoredListing{
		Listing:   l,
		Score:     clampScore(math.Round(capScore(combined, ratio, micro))),
		Breakdown: breakdown,
	}
}

// capScore limits overpriced and micro units: ratio > 1.25 to 60, ratio > 1.15
// to 70 and micro units to 85.
func capScore(combined, ratio float64, micro bool) float64 {
	if ratio > 1.25 {
		combined = math.Min(combined, 60)
	}
	if ratio > 1.15 {
		combined = math.Min(combined, 70)
	}
	if micro {
		combined = math.Min(combined, 85)
	}
	return combined
}

// ScoreListings scores every listing sequentially against baseline using the
// default location table. Output order matches input order.
func ScoreListings(listings []models.Listing, baseline models.MarketBaseline) []models.ScoredListing {
	locations := DefaultLocationTable()
	out := make([]models.ScoredListing, len(listings))
	for i, l := range listings {
		out[i] = ScoreListing(l, baseline, locations)
	}
	return out
}

func clampScore(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
