package service

import "math"

const (
	popularityRatingWeight = 0.7
	popularityWatchWeight  = 0.3

	trendingRatingWeight = 0.6
	trendingWatchWeight  = 0.4

	minTrendingDays     = 7
	maxTrendingDays     = 30
	defaultTrendingDays = 30
)

// PopularityScore blends the lifetime average rating and watch count
// of a movie into a single ranking score. Missing data is 0, not an
// error: a movie with no ratings scores on its watch count alone.
func PopularityScore(averageRating float64, watchCount int) float64 {
	return averageRating*popularityRatingWeight + float64(watchCount)*popularityWatchWeight
}

// TrendingScore blends rating and watch activity within a recent time
// window only.
func TrendingScore(recentAvgRating float64, recentWatchCount int) float64 {
	return recentAvgRating*trendingRatingWeight + float64(recentWatchCount)*trendingWatchWeight
}

// ClampTrendingDays bounds the trending window to [7, 30] days; values
// outside the range fall back to 30.
func ClampTrendingDays(days int) int {
	if days < minTrendingDays || days > maxTrendingDays {
		return defaultTrendingDays
	}
	return days
}

// round2 rounds to 2 decimal places. Scores are rounded exactly once,
// when they are surfaced; ranking always happens on the raw value.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
