package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"zelr-valuation/models"
	"zelr-valuation/utils"
)

const batchSize = 50

// PostgresStore reads listing snapshots from PostgreSQL and persists scoring
// runs next to them.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, retrying the initial
// ping with back-off, runs schema migrations, and returns a ready-to-use store.
func NewPostgresStore(dsn string, retry utils.RetryConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id              TEXT PRIMARY KEY,
			address         TEXT         NOT NULL DEFAULT '',
			city            TEXT         NOT NULL DEFAULT '',
			province        TEXT         NOT NULL DEFAULT '',
			price           BIGINT,
			beds            INTEGER,
			baths           INTEGER,
			sqft            INTEGER,
			year_built      INTEGER,
			home_type       TEXT         NOT NULL DEFAULT '',
			lat             DOUBLE PRECISION,
			lng             DOUBLE PRECISION,
			safety          SMALLINT,
			school          SMALLINT,
			transit         SMALLINT,
			renovation      SMALLINT,
			market_velocity SMALLINT,
			tag             TEXT         NOT NULL DEFAULT '',
			image_urls      TEXT         NOT NULL DEFAULT '',
			updated_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_city  ON listings(city);
		CREATE INDEX IF NOT EXISTS idx_listings_price ON listings(price);

		CREATE TABLE IF NOT EXISTS listing_scores (
			run_id        UUID             NOT NULL,
			listing_id    TEXT             NOT NULL,
			score         SMALLINT         NOT NULL,
			price_per_bed DOUBLE PRECISION NOT NULL,
			baseline      DOUBLE PRECISION NOT NULL,
			ratio         DOUBLE PRECISION NOT NULL,
			micro         BOOLEAN          NOT NULL DEFAULT FALSE,
			scored_at     TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
			PRIMARY KEY (run_id, listing_id)
		);

		CREATE INDEX IF NOT EXISTS idx_listing_scores_score ON listing_scores(score);
	`)
	return err
}

// LoadSnapshot returns every stored listing as raw text. NULL columns come
// back blank so the cleaner applies the same defaults as for CSV input.
func (ps *PostgresStore) LoadSnapshot() ([]*models.RawListing, error) {
	rows, err := ps.db.Query(`
		SELECT id, address, city, province,
		       COALESCE(price::text, ''), COALESCE(beds::text, ''), COALESCE(baths::text, ''),
		       COALESCE(sqft::text, ''), COALESCE(year_built::text, ''), home_type,
		       COALESCE(lat::text, ''), COALESCE(lng::text, ''),
		       COALESCE(safety::text, ''), COALESCE(school::text, ''), COALESCE(transit::text, ''),
		       COALESCE(renovation::text, ''), COALESCE(market_velocity::text, ''),
		       tag, image_urls
		FROM listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: load snapshot: %w", err)
	}
	defer rows.Close()

	var listings []*models.RawListing
	for rows.Next() {
		r := &models.RawListing{}
		if err := rows.Scan(
			&r.ID, &r.Address, &r.City, &r.Province,
			&r.RawPrice, &r.Beds, &r.Baths,
			&r.Sqft, &r.YearBuilt, &r.HomeType,
			&r.Lat, &r.Lng,
			&r.Safety, &r.School, &r.Transit,
			&r.Renovation, &r.MarketVelocity,
			&r.Tag, &r.ImageURLs,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		listings = append(listings, r)
	}
	return listings, rows.Err()
}

// ReplaceSnapshot swaps the stored snapshot for listings in one transaction.
func (ps *PostgresStore) ReplaceSnapshot(listings []models.Listing) error {
	tx, err := ps.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM listings"); err != nil {
		return fmt.Errorf("postgres: clear listings: %w", err)
	}

	for i := 0; i < len(listings); i += batchSize {
		end := min(i+batchSize, len(listings))
		query, args := listingInsert(listings[i:end])
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert listings: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// WriteScores batch-inserts the scores of one run. runID must be a UUID.
func (ps *PostgresStore) WriteScores(runID string, scored []models.ScoredListing) error {
	if len(scored) == 0 {
		return nil
	}
	id, err := uuid.Parse(runID)
	if err != nil {
		return fmt.Errorf("postgres: run id %q: %w", runID, err)
	}

	for i := 0; i < len(scored); i += batchSize {
		end := min(i+batchSize, len(scored))
		query, args := scoreInsert(id, scored[i:end])
		if _, err := ps.db.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert scores: %w", err)
		}
	}
	return nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

// placeholders renders "($1,$2,...),($n+1,...)" for rows of width columns.
func placeholders(rows, width int) string {
	groups := make([]string, rows)
	for r := 0; r < rows; r++ {
		cols := make([]string, width)
		for c := 0; c < width; c++ {
			cols[c] = fmt.Sprintf("$%d", r*width+c+1)
		}
		groups[r] = "(" + strings.Join(cols, ",") + ")"
	}
	return strings.Join(groups, ",")
}

func listingInsert(batch []models.Listing) (string, []any) {
	const width = 19
	args := make([]any, 0, len(batch)*width)
	for _, l := range batch {
		args = append(args,
			l.ID, l.Address, l.City, l.Province,
			l.Price, l.Beds, l.Baths, l.Sqft, l.YearBuilt, l.HomeType,
			l.Location.Lat, l.Location.Lng,
			l.Signals.Safety, l.Signals.School, l.Signals.Transit, l.Signals.Renovation, l.Signals.MarketVelocity,
			string(l.Tag), strings.Join(l.ImageURLs, "|"),
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (id, address, city, province, price, beds, baths, sqft, year_built, home_type,
			lat, lng, safety, school, transit, renovation, market_velocity, tag, image_urls)
		VALUES %s
		ON CONFLICT (id) DO NOTHING
	`, placeholders(len(batch), width))
	return query, args
}

func scoreInsert(runID uuid.UUID, batch []models.ScoredListing) (string, []any) {
	const width = 7
	args := make([]any, 0, len(batch)*width)
	for _, s := range batch {
		args = append(args,
			runID.String(), s.ID, s.Score,
			s.Breakdown.PricePerBed, s.Breakdown.Baseline, s.Breakdown.Ratio, s.Breakdown.Micro,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO listing_scores (run_id, listing_id, score, price_per_bed, baseline, ratio, micro)
		VALUES %s
		ON CONFLICT (run_id, listing_id) DO NOTHING
	`, placeholders(len(batch), width))
	return query, args
}
