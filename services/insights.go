package services

import (
	"fmt"
	"sort"
	"strings"

	"zelr-valuation/models"
	"zelr-valuation/utils"
)

const topScoredLimit = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate summarises a scored snapshot. Price statistics only consider
// listings with a positive price.
func (s *InsightService) Generate(scored []models.ScoredListing, baseline models.MarketBaseline) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByTag: make(map[models.Tag]int),
		GlobalPerBed:  round2(baseline.GlobalMedian),
	}

	if len(scored) == 0 {
		return report
	}

	report.TotalListings = len(scored)

	var (
		priced     []models.ScoredListing
		totalPrice float64
		totalScore int
	)
	byCity := make(map[string][]models.ScoredListing)

	for _, l := range scored {
		totalScore += l.Score
		if l.Tag != models.TagNone {
			report.ListingsByTag[l.Tag]++
		}
		if l.City != "" {
			byCity[l.City] = append(byCity[l.City], l)
		}
		if l.Price > 0 {
			priced = append(priced, l)
		}
	}
	report.AverageScore = round2(float64(totalScore) / float64(len(scored)))

	if len(priced) > 0 {
		report.MinPrice = float64(priced[0].Price)
		report.MaxPrice = float64(priced[0].Price)
		report.MostExpensive = &priced[0]
		for i := range priced {
			p := float64(priced[i].Price)
			totalPrice += p
			if p < report.MinPrice {
				report.MinPrice = p
			}
			if p > report.MaxPrice {
				report.MaxPrice = p
				report.MostExpensive = &priced[i]
			}
		}
		report.AveragePrice = round2(totalPrice / float64(len(priced)))
	}

	top := make([]models.ScoredListing, len(scored))
	copy(top, scored)
	sort.SliceStable(top, lessFor(top, SortHomesForYou))
	if len(top) > topScoredLimit {
		top = top[:topScoredLimit]
	}
	report.TopScored = top

	for city, members := range byCity {
		report.Cities = append(report.Cities, cityMarket(city, members, baseline))
	}
	sort.Slice(report.Cities, func(i, j int) bool {
		if report.Cities[i].Listings != report.Cities[j].Listings {
			return report.Cities[i].Listings > report.Cities[j].Listings
		}
		return report.Cities[i].City < report.Cities[j].City
	})

	s.logger.Debug("[insights] %d listings across %d cities", report.TotalListings, len(report.Cities))
	return report
}

func cityMarket(city string, members []models.ScoredListing, baseline models.MarketBaseline) models.CityMarket {
	n := float64(len(members))
	var score float64
	var sig models.SignalAverages
	for _, m := range members {
		score += float64(m.Score)
		sig.Safety += float64(m.Signals.Safety)
		sig.School += float64(m.Signals.School)
		sig.Transit += float64(m.Signals.Transit)
		sig.Renovation += float64(m.Signals.Renovation)
		sig.MarketVelocity += float64(m.Signals.MarketVelocity)
	}
	return models.CityMarket{
		City:         city,
		Listings:     len(members),
		MedianPerBed: round2(baseline.ByCity[city]),
		AverageScore: round2(score / n),
		AverageSignals: models.SignalAverages{
			Safety:         round2(sig.Safety / n),
			School:         round2(sig.School / n),
			Transit:        round2(sig.Transit / n),
			Renovation:     round2(sig.Renovation / n),
			MarketVelocity: round2(sig.MarketVelocity / n),
		},
	}
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 62)
	thin := strings.Repeat("─", 62)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 ZELR MARKET INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total listings scored  : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  Average Zelr Score     : \033[1m%.1f\033[0m\n", r.AverageScore)
	fmt.Printf("  Global median $/bed    : \033[1m$%.0f\033[0m\n", r.GlobalPerBed)
	fmt.Println()

	fmt.Printf("\033[1;33m  Price Statistics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.AveragePrice > 0 {
		fmt.Printf("  Average price : \033[1;32m$%.0f\033[0m\n", r.AveragePrice)
		fmt.Printf("  Minimum price : \033[1;32m$%.0f\033[0m\n", r.MinPrice)
		fmt.Printf("  Maximum price : \033[1;32m$%.0f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	if r.MostExpensive != nil {
		fmt.Printf("\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.MostExpensive.Address, 58))
		fmt.Printf("  City  : %s\n", r.MostExpensive.City)
		fmt.Printf("  Price : \033[1;31m$%d\033[0m\n", r.MostExpensive.Price)
		fmt.Println()
	}

	fmt.Printf("\033[1;33m  Top %d Homes For You\033[0m\n", topScoredLimit)
	fmt.Printf("  %s\n", thin)
	if len(r.TopScored) == 0 {
		fmt.Printf("  No scored listings\n")
	} else {
		for i, l := range r.TopScored {
			fmt.Printf("  \033[1m%d.\033[0m %-44s \033[1;32m%3d\033[0m\n",
				i+1, truncate(l.Address, 42), l.Score)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Markets\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.Cities) == 0 {
		fmt.Printf("  No city data\n")
	} else {
		for _, c := range r.Cities {
			fmt.Printf("  %-16s %3d listings  median $%-9.0f/bed  avg score %5.1f\n",
				truncate(c.City, 16), c.Listings, c.MedianPerBed, c.AverageScore)
		}
	}
	fmt.Println()

	if len(r.ListingsByTag) > 0 {
		fmt.Printf("\033[1;33m  Listings by Tag\033[0m\n")
		fmt.Printf("  %s\n", thin)
		tags := make([]models.Tag, 0, len(r.ListingsByTag))
		for tag := range r.ListingsByTag {
			tags = append(tags, tag)
		}
		sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
		for _, tag := range tags {
			n := r.ListingsByTag[tag]
			fmt.Printf("  %-10s %s (%d)\n", tag, strings.Repeat("█", n), n)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
