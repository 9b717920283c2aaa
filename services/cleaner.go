package services

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"zelr-valuation/models"
	"zelr-valuation/utils"
)

// priceRegexp captures the first numeric amount in a price string.
var priceRegexp = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// Cleaner transforms RawListings into clean, validated Listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean processes raw listings and returns cleaned records. Rows without an
// ID are dropped and the first row wins for a repeated ID. Malformed fields
// fall back to safe defaults instead of rejecting the row.
func (c *Cleaner) Clean(raw []*models.RawListing) []models.Listing {
	seen := utils.NewIDSet()
	result := make([]models.Listing, 0, len(raw))

	for _, r := range raw {
		if r == nil {
			continue
		}
		id := strings.TrimSpace(r.ID)
		if id == "" {
			c.logger.Warn("[cleaner] Dropping listing with empty ID: %s", r.Address)
			continue
		}
		if !seen.Add(id) {
			c.logger.Debug("[cleaner] Duplicate ID skipped: %s", id)
			continue
		}

		listing := models.Listing{
			ID:        id,
			Address:   normaliseText(r.Address),
			City:      normaliseText(r.City),
			Province:  normaliseText(r.Province),
			Price:     parsePrice(r.RawPrice),
			Beds:      parseRooms(r.Beds),
			Baths:     parseRooms(r.Baths),
			Sqft:      parseNonNegative(r.Sqft),
			YearBuilt: parseNonNegative(r.YearBuilt),
			HomeType:  normaliseText(r.HomeType),
			Location:  c.parseCoordinates(id, r.Lat, r.Lng),
			Signals: models.Signals{
				Safety:         parseSignal(r.Safety),
				School:         parseSignal(r.School),
				Transit:        parseSignal(r.Transit),
				Renovation:     parseSignal(r.Renovation),
				MarketVelocity: parseSignal(r.MarketVelocity),
			},
			Tag:       models.ParseTag(r.Tag),
			ImageURLs: splitImages(r.ImageURLs),
		}

		result = append(result, listing)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// parsePrice extracts a whole-dollar price. Examples:
//
//	"$1,249,000" → 1249000
//	"CA$ 899,900.50" → 899900
//	"-5" → 0
//	"call for price" → 0
//
// Amounts beyond the int64 range saturate at math.MaxInt64.
func parsePrice(raw string) int64 {
	cleaned := strings.ReplaceAll(raw, ",", "")
	match := priceRegexp.FindString(cleaned)
	if match == "" {
		return 0
	}
	val, err := strconv.ParseFloat(match, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	if val < 0 {
		return 0
	}
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
	if val >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(val)
}

// parseRooms reads a bed or bath count; blank, malformed or negative values
// become 1.
func parseRooms(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 1
	}
	return n
}

func parseNonNegative(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseSignal clamps a 0–100 signal; blank or malformed values become 0.
func parseSignal(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func (c *Cleaner) parseCoordinates(id, rawLat, rawLng string) models.Coordinates {
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(rawLng), 64)
	if latErr != nil || lngErr != nil {
		c.logger.Warn("[cleaner] Listing %s has unparseable coordinates (%q, %q)", id, rawLat, rawLng)
		return models.Coordinates{}
	}
	return models.Coordinates{Lat: lat, Lng: lng}
}

func splitImages(raw string) []string {
	var urls []string
	for _, u := range strings.Split(raw, "|") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
