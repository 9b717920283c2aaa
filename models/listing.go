package models

import "strings"

// RawListing holds an unprocessed snapshot row exactly as it was read from
// the source (CSV or database text columns). Every field is a string so the
// cleaner can apply one set of defaulting rules regardless of origin.
type RawListing struct {
	ID             string
	Address        string
	City           string
	Province       string
	RawPrice       string
	Beds           string
	Baths          string
	Sqft           string
	YearBuilt      string
	HomeType       string
	Lat            string
	Lng            string
	Safety         string
	School         string
	Transit        string
	Renovation     string
	MarketVelocity string
	Tag            string
	ImageURLs      string
}

// Tag is a listing's marketing label.
type Tag string

const (
	TagNone    Tag = ""
	TagHot     Tag = "HOT"
	TagNew     Tag = "NEW"
	TagPrime   Tag = "PRIME"
	TagReduced Tag = "REDUCED"
)

// ParseTag maps free text onto the closed tag set. Unknown labels become TagNone.
func ParseTag(s string) Tag {
	switch Tag(strings.ToUpper(strings.TrimSpace(s))) {
	case TagHot:
		return TagHot
	case TagNew:
		return TagNew
	case TagPrime:
		return TagPrime
	case TagReduced:
		return TagReduced
	default:
		return TagNone
	}
}

// Coordinates is a WGS84 point in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Signals are the auxiliary 0–100 inputs attached to a listing (higher is better).
type Signals struct {
	Safety         int `json:"safety"`
	School         int `json:"school"`
	Transit        int `json:"transit"`
	Renovation     int `json:"renovation"`
	MarketVelocity int `json:"market_velocity"`
}

// Listing is the cleaned, strongly typed record the engine operates on.
type Listing struct {
	ID        string      `json:"id"`
	Address   string      `json:"address"`
	City      string      `json:"city"`
	Province  string      `json:"province"`
	Price     int64       `json:"price"`
	Beds      int         `json:"beds"`
	Baths     int         `json:"baths"`
	Sqft      int         `json:"sqft"`
	YearBuilt int         `json:"year_built"`
	HomeType  string      `json:"home_type"`
	Location  Coordinates `json:"location"`
	Signals   Signals     `json:"signals"`
	Tag       Tag         `json:"tag,omitempty"`
	ImageURLs []string    `json:"image_urls,omitempty"`
}

// ScoreBreakdown explains how a listing's score was produced.
type ScoreBreakdown struct {
	PricePerBed  float64 `json:"price_per_bed"`
	Baseline     float64 `json:"baseline"`
	Ratio        float64 `json:"ratio"`
	Value        float64 `json:"value"`
	Fundamentals float64 `json:"fundamentals"`
	Location     float64 `json:"location"`
	Momentum     float64 `json:"momentum"`
	Micro        bool    `json:"micro"`
}

// ScoredListing is a Listing annotated with its 0–100 Zelr Score.
type ScoredListing struct {
	Listing
	Score     int            `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// MarketBaseline holds the reference price-per-bed statistics for one snapshot.
type MarketBaseline struct {
	ByCity       map[string]float64
	GlobalMedian float64
}

// BaselineFallback is used when neither a city nor the global median is usable.
const BaselineFallback = 1.0

// Reference returns the baseline price-per-bed for city: the city median when
// it is positive, then the global median, then BaselineFallback.
func (b MarketBaseline) Reference(city string) float64 {
	if m, ok := b.ByCity[city]; ok && m > 0 {
		return m
	}
	if b.GlobalMedian > 0 {
		return b.GlobalMedian
	}
	return BaselineFallback
}
