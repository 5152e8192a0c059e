package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopularityScore(t *testing.T) {
	assert.InDelta(t, 5.975, PopularityScore(4.25, 10), 1e-9)
	assert.Equal(t, 0.0, PopularityScore(0, 0))
}

func TestPopularityScoreRoundsOnceAtOutput(t *testing.T) {
	// [5,5,4,3] averages to 4.25; with 10 watches the raw score is
	// 5.975 and only the surfaced value is rounded, to 5.98.
	raw := PopularityScore(4.25, 10)
	assert.InDelta(t, 5.975, raw, 1e-9)
	assert.Equal(t, 5.98, round2(raw))
}

func TestPopularityScoreMonotonic(t *testing.T) {
	base := PopularityScore(3.0, 5)
	assert.GreaterOrEqual(t, PopularityScore(3.5, 5), base)
	assert.GreaterOrEqual(t, PopularityScore(3.0, 6), base)
	assert.GreaterOrEqual(t, PopularityScore(5.0, 100), base)
}

func TestTrendingScore(t *testing.T) {
	assert.InDelta(t, 3.2, TrendingScore(4.0, 2), 1e-9)
	assert.Equal(t, 0.0, TrendingScore(0, 0))
}

func TestClampTrendingDays(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"above range falls back", 45, 30},
		{"below range falls back", 3, 30},
		{"zero falls back", 0, 30},
		{"negative falls back", -1, 30},
		{"in range kept", 10, 10},
		{"lower bound kept", 7, 7},
		{"upper bound kept", 30, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampTrendingDays(tt.in))
		})
	}
}
