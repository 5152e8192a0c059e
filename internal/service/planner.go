package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/youssefelghamour/movie-recommendation-system/internal/models"
)

// RecommendationBudget is the maximum number of recommended movies
// returned for a user.
const RecommendationBudget = 20

// planRecommendations turns a genre affinity distribution into a
// bounded, deduplicated, ranked list of unwatched movies.
//
// With no affinity data the plan falls back to the top movies by
// popularity score among movies the user has not watched. Otherwise
// each genre gets a share of the budget proportional to its liked
// count (at least 1), its candidates are materialized eagerly, and the
// union is deduplicated by movie ID, re-scored, sorted and truncated.
// Per-genre shares can sum above the budget because multi-genre movies
// are counted once per genre; truncation is the backstop.
func (s *RankingService) planRecommendations(ctx context.Context, userID uuid.UUID, affinities []models.GenreAffinity) ([]models.RankedMovie, error) {
	if len(affinities) == 0 {
		picks, err := s.movies.TopUnwatched(ctx, userID, RecommendationBudget)
		if err != nil {
			return nil, fmt.Errorf("fallback candidates: %w", err)
		}
		return picks, nil
	}

	totalLiked := 0
	for _, a := range affinities {
		totalLiked += a.LikedCount
	}

	best := make(map[uuid.UUID]models.RankedMovie)
	for _, a := range affinities {
		proportion := float64(a.LikedCount) / float64(totalLiked)
		numToPick := int(math.Floor(proportion * RecommendationBudget))
		if numToPick < 1 {
			numToPick = 1
		}

		picks, err := s.movies.TopUnwatchedByGenre(ctx, userID, a.GenreID, numToPick)
		if err != nil {
			return nil, fmt.Errorf("candidates for genre %s: %w", a.GenreID, err)
		}
		for _, pick := range picks {
			if current, ok := best[pick.MovieID]; !ok || pick.Score > current.Score {
				best[pick.MovieID] = pick
			}
		}
	}

	union := make([]models.RankedMovie, 0, len(best))
	for _, movie := range best {
		// Pure re-evaluation from the movie's own aggregates; the
		// genre that selected the movie does not influence its score.
		movie.Score = PopularityScore(movie.AverageRating, movie.WatchCount)
		union = append(union, movie)
	}

	sort.Slice(union, func(i, j int) bool {
		if union[i].Score != union[j].Score {
			return union[i].Score > union[j].Score
		}
		return union[i].MovieID.String() < union[j].MovieID.String()
	})

	if len(union) > RecommendationBudget {
		union = union[:RecommendationBudget]
	}
	return union, nil
}
