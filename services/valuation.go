package services

import (
	"time"

	"zelr-valuation/models"
	"zelr-valuation/utils"
)

// ValuationService scores a full snapshot: baselines first, then every
// listing in parallel against the finished baseline.
type ValuationService struct {
	logger    *utils.Logger
	locations LocationTable
	workers   int
}

// NewValuationService creates a service scoring with at most workers
// goroutines.
func NewValuationService(logger *utils.Logger, locations LocationTable, workers int) *ValuationService {
	return &ValuationService{logger: logger, locations: locations, workers: workers}
}

// Run computes the baseline for listings and returns it with the scored
// listings, in input order.
func (s *ValuationService) Run(listings []models.Listing) (models.MarketBaseline, []models.ScoredListing) {
	start := time.Now()

	baseline := ComputeBaselines(listings)
	s.logger.Info("[valuation] Baseline over %d listings: %d cities, global median $%.0f/bed",
		len(listings), len(baseline.ByCity), baseline.GlobalMedian)

	scored := make([]models.ScoredListing, len(listings))
	pool := utils.NewWorkerPool(s.workers)
	for _, chunk := range utils.Chunks(len(listings), pool.Size()) {
		lo, hi := chunk[0], chunk[1]
		pool.Submit(func() {
			for i := lo; i < hi; i++ {
				scored[i] = ScoreListing(listings[i], baseline, s.locations)
			}
		})
	}
	pool.Wait()

	s.logger.Info("[valuation] Scored %d listings with %d workers in %v",
		len(scored), pool.Size(), time.Since(start).Round(time.Millisecond))
	return baseline, scored
}
