package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"zelr-valuation/models"
)

var scoreHeader = []string{
	"run_id", "id", "address", "city", "price", "beds", "baths", "lat", "lng", "tag",
	"score", "price_per_bed", "baseline", "ratio", "value", "fundamentals", "location", "momentum", "micro",
}

// CSVWriter writes scored listings and their breakdown to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(scoreHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteScores appends one row per scored listing.
func (c *CSVWriter) WriteScores(runID string, scored []models.ScoredListing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range scored {
		b := s.Breakdown
		row := []string{
			runID,
			s.ID,
			s.Address,
			s.City,
			strconv.FormatInt(s.Price, 10),
			strconv.Itoa(s.Beds),
			strconv.Itoa(s.Baths),
			formatFloat(s.Location.Lat, 6),
			formatFloat(s.Location.Lng, 6),
			string(s.Tag),
			strconv.Itoa(s.Score),
			formatFloat(b.PricePerBed, 2),
			formatFloat(b.Baseline, 2),
			formatFloat(b.Ratio, 4),
			formatFloat(b.Value, 2),
			formatFloat(b.Fundamentals, 2),
			formatFloat(b.Location, 2),
			formatFloat(b.Momentum, 2),
			strconv.FormatBool(b.Micro),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func formatFloat(f float64, prec int) string {
	return strconv.FormatFloat(f, 'f', prec, 64)
}
