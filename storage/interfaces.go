package storage

import "zelr-valuation/models"

// SnapshotSource supplies the raw listing snapshot a valuation run starts from.
type SnapshotSource interface {
	LoadSnapshot() ([]*models.RawListing, error)
	Close() error
}

// ScoreWriter is the interface any score sink must satisfy.
type ScoreWriter interface {
	WriteScores(runID string, scored []models.ScoredListing) error
	Close() error
}
