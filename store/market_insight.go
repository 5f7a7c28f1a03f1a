package store

// MarketInsight is a reserved per-niche namespace for trend and performance
// data gathered outside the memory engine. The schema and read path exist so
// external collaborators can populate it later; nothing in the current
// engine writes to it.
type MarketInsight struct {
	ID              int64
	Niche           string
	TrendData       string // JSON document
	PerformanceData string // JSON document
	OptimalPricing  string
	BestTimes       string
	UpdatedTs       int64
}

// UpsertMarketInsight specifies the data for upserting a market insight row.
type UpsertMarketInsight struct {
	Niche           string
	TrendData       string
	PerformanceData string
	OptimalPricing  string
	BestTimes       string
	UpdatedTs       int64
}

// FindMarketInsight specifies the conditions for finding market insights.
type FindMarketInsight struct {
	Niche *string
	Limit int
}
