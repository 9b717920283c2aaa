package models

// CityMarket summarises one city of a scored snapshot.
type CityMarket struct {
	City           string
	Listings       int
	MedianPerBed   float64
	AverageScore   float64
	AverageSignals SignalAverages
}

// SignalAverages are the mean auxiliary signals across a group of listings.
type SignalAverages struct {
	Safety         float64
	School         float64
	Transit        float64
	Renovation     float64
	MarketVelocity float64
}

// InsightReport holds the computed analytics over a scored snapshot.
type InsightReport struct {
	TotalListings int
	AveragePrice  float64
	MinPrice      float64
	MaxPrice      float64
	AverageScore  float64
	GlobalPerBed  float64
	MostExpensive *ScoredListing
	TopScored     []ScoredListing
	ListingsByTag map[Tag]int
	Cities        []CityMarket
}
