package recipe

import "github.com/google/uuid"

// EngagementStats aggregates a recipe's engagement signals over a
// rolling window. Counters are lifetime totals except RecentActivity,
// which counts events inside the requested window.
type EngagementStats struct {
	RecipeID          uuid.UUID
	TotalViews        int
	TotalFavorites    int
	TotalShares       int
	AverageRating     float64 // 0..5
	RatingCount       int
	RecentActivity    int
	ShareDepth        float64 // average forwarding chain length
	AvgEngagementTime float64 // seconds
}

// Normalized returns a copy with every field forced onto its defined
// range. Upstream stores may report missing counters as negative or
// out-of-range values; score formulas must stay total functions.
func (s EngagementStats) Normalized() EngagementStats {
	if s.TotalViews < 0 {
		s.TotalViews = 0
	}
	if s.TotalFavorites < 0 {
		s.TotalFavorites = 0
	}
	if s.TotalShares < 0 {
		s.TotalShares = 0
	}
	if s.RatingCount < 0 {
		s.RatingCount = 0
	}
	if s.RecentActivity < 0 {
		s.RecentActivity = 0
	}
	if s.AverageRating < 0 {
		s.AverageRating = 0
	}
	if s.AverageRating > 5 {
		s.AverageRating = 5
	}
	if s.ShareDepth < 0 {
		s.ShareDepth = 0
	}
	if s.AvgEngagementTime < 0 {
		s.AvgEngagementTime = 0
	}
	return s
}
