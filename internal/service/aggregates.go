package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// AggregateMaintainer recomputes a movie's stored aggregates whenever
// a rating or watch event changes. Recomputation always reads the full
// current event set rather than applying deltas, so re-running on the
// same state yields the same stored value and concurrent writers
// converge on the correct aggregate regardless of interleaving.
type AggregateMaintainer struct {
	movies  MovieStore
	ratings RatingStore
	watches WatchStore
}

// NewAggregateMaintainer creates a new AggregateMaintainer.
func NewAggregateMaintainer(movies MovieStore, ratings RatingStore, watches WatchStore) *AggregateMaintainer {
	return &AggregateMaintainer{movies: movies, ratings: ratings, watches: watches}
}

// OnRatingChanged recomputes the movie's average rating as the mean of
// all current rating scores (0 when none), rounded to 2 decimal
// places, and persists it. Out-of-range scores are skipped so a
// corrupt record cannot propagate into the aggregate.
func (m *AggregateMaintainer) OnRatingChanged(ctx context.Context, movieID uuid.UUID) error {
	scores, err := m.ratings.ScoresForMovie(ctx, movieID)
	if err != nil {
		return fmt.Errorf("fetch scores for movie %s: %w", movieID, err)
	}

	sum, count := 0, 0
	for _, score := range scores {
		if score < 1 || score > 5 {
			continue
		}
		sum += score
		count++
	}

	avg := 0.0
	if count > 0 {
		avg = round2(float64(sum) / float64(count))
	}

	if err := m.movies.UpdateAverageRating(ctx, movieID, avg); err != nil {
		return fmt.Errorf("persist average rating for movie %s: %w", movieID, err)
	}
	return nil
}

// OnWatchChanged recomputes the movie's watch count as the number of
// current watch history entries and persists it.
func (m *AggregateMaintainer) OnWatchChanged(ctx context.Context, movieID uuid.UUID) error {
	count, err := m.watches.CountByMovie(ctx, movieID)
	if err != nil {
		return fmt.Errorf("count watches for movie %s: %w", movieID, err)
	}

	if err := m.movies.UpdateWatchCount(ctx, movieID, count); err != nil {
		return fmt.Errorf("persist watch count for movie %s: %w", movieID, err)
	}
	return nil
}
