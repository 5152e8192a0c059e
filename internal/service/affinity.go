package service

import (
	"sort"

	"github.com/google/uuid"

	"github.com/youssefelghamour/movie-recommendation-system/internal/models"
)

// likedScoreThreshold is the minimum rating for a movie to count as liked.
const likedScoreThreshold = 3

// BuildGenreAffinities turns a user's liked movies into an ordered
// genre affinity distribution: for each genre with at least one liked
// movie, the number of liked movies in it, descending, ties broken by
// genre ID so the output is reproducible across runs.
//
// A movie with multiple genres is counted once per genre, so the sum
// of counts can exceed the number of liked movies. The planner's final
// truncation bounds the effect.
func BuildGenreAffinities(liked []models.LikedMovie) []models.GenreAffinity {
	if len(liked) == 0 {
		return nil
	}

	counts := make(map[uuid.UUID]int)
	for _, movie := range liked {
		for _, genreID := range movie.GenreIDs {
			counts[genreID]++
		}
	}

	affinities := make([]models.GenreAffinity, 0, len(counts))
	for genreID, count := range counts {
		affinities = append(affinities, models.GenreAffinity{GenreID: genreID, LikedCount: count})
	}

	sort.Slice(affinities, func(i, j int) bool {
		if affinities[i].LikedCount != affinities[j].LikedCount {
			return affinities[i].LikedCount > affinities[j].LikedCount
		}
		return affinities[i].GenreID.String() < affinities[j].GenreID.String()
	})
	return affinities
}
