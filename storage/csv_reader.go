package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"zelr-valuation/models"
)

// snapshotColumns maps header names onto RawListing fields. Headers are
// matched case-insensitively; unknown columns are ignored and missing ones
// stay blank so the cleaner's defaults apply.
var snapshotColumns = map[string]func(r *models.RawListing, v string){
	"id":              func(r *models.RawListing, v string) { r.ID = v },
	"address":         func(r *models.RawListing, v string) { r.Address = v },
	"city":            func(r *models.RawListing, v string) { r.City = v },
	"province":        func(r *models.RawListing, v string) { r.Province = v },
	"price":           func(r *models.RawListing, v string) { r.RawPrice = v },
	"beds":            func(r *models.RawListing, v string) { r.Beds = v },
	"baths":           func(r *models.RawListing, v string) { r.Baths = v },
	"sqft":            func(r *models.RawListing, v string) { r.Sqft = v },
	"year_built":      func(r *models.RawListing, v string) { r.YearBuilt = v },
	"home_type":       func(r *models.RawListing, v string) { r.HomeType = v },
	"lat":             func(r *models.RawListing, v string) { r.Lat = v },
	"lng":             func(r *models.RawListing, v string) { r.Lng = v },
	"safety":          func(r *models.RawListing, v string) { r.Safety = v },
	"school":          func(r *models.RawListing, v string) { r.School = v },
	"transit":         func(r *models.RawListing, v string) { r.Transit = v },
	"renovation":      func(r *models.RawListing, v string) { r.Renovation = v },
	"market_velocity": func(r *models.RawListing, v string) { r.MarketVelocity = v },
	"tag":             func(r *models.RawListing, v string) { r.Tag = v },
	"image_urls":      func(r *models.RawListing, v string) { r.ImageURLs = v },
}

// CSVReader loads a listing snapshot from a CSV file with a header row.
type CSVReader struct {
	path string
}

// NewCSVReader checks that path exists and returns a reader for it.
func NewCSVReader(path string) (*CSVReader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("csv: snapshot %q: %w", path, err)
	}
	return &CSVReader{path: path}, nil
}

// LoadSnapshot reads every data row of the file.
func (c *CSVReader) LoadSnapshot() ([]*models.RawListing, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", c.path, err)
	}
	defer f.Close()

	return readSnapshot(f)
}

func readSnapshot(src io.Reader) ([]*models.RawListing, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	setters := make([]func(*models.RawListing, string), len(header))
	for i, name := range header {
		setters[i] = snapshotColumns[strings.ToLower(strings.TrimSpace(name))]
	}

	var listings []*models.RawListing
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read line %d: %w", line, err)
		}

		raw := &models.RawListing{}
		for i, v := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](raw, v)
			}
		}
		listings = append(listings, raw)
	}
	return listings, nil
}

// Close is a no-op; the file is closed after each load.
func (c *CSVReader) Close() error {
	return nil
}
