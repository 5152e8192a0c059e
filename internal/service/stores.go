package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/youssefelghamour/movie-recommendation-system/internal/models"
)

// MovieStore is the movie storage collaborator the engine depends on.
// Ranked queries order by score descending with movie ID as the
// tie-break, and limit/offset server-side.
type MovieStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Movie, error)
	CountAll(ctx context.Context) (int, error)
	TopByPopularity(ctx context.Context, limit, offset int) ([]models.RankedMovie, error)
	TopByAverageRating(ctx context.Context, limit, offset int) ([]models.RankedMovie, error)
	TopUnwatched(ctx context.Context, userID uuid.UUID, limit int) ([]models.RankedMovie, error)
	TopUnwatchedByGenre(ctx context.Context, userID, genreID uuid.UUID, limit int) ([]models.RankedMovie, error)
	TitlesByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	UpdateAverageRating(ctx context.Context, movieID uuid.UUID, avg float64) error
	UpdateWatchCount(ctx context.Context, movieID uuid.UUID, count int) error
}

// RatingStore is the rating storage collaborator.
type RatingStore interface {
	GetByUserAndMovie(ctx context.Context, userID, movieID uuid.UUID) (*models.Rating, error)
	ScoresForMovie(ctx context.Context, movieID uuid.UUID) ([]int, error)
	LikedMovies(ctx context.Context, userID uuid.UUID, minScore int) ([]models.LikedMovie, error)
	Create(ctx context.Context, rating *models.Rating) error
	Update(ctx context.Context, userID, movieID uuid.UUID, score int, reviewText string) error
	Delete(ctx context.Context, userID, movieID uuid.UUID) error
	WindowedAverages(ctx context.Context, since time.Time) (map[uuid.UUID]float64, error)
}

// WatchStore is the watch history storage collaborator.
type WatchStore interface {
	Exists(ctx context.Context, userID, movieID uuid.UUID) (bool, error)
	Create(ctx context.Context, entry *models.WatchHistory) error
	Delete(ctx context.Context, userID, movieID uuid.UUID) error
	CountByMovie(ctx context.Context, movieID uuid.UUID) (int, error)
	WindowedCounts(ctx context.Context, since time.Time) (map[uuid.UUID]int, error)
}

// RecommendationCache is the volatile key-value collaborator holding
// per-user recommendation results. Get returns (nil, nil) on a miss.
type RecommendationCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.CachedRecommendation, error)
	Set(ctx context.Context, userID uuid.UUID, result *models.CachedRecommendation, ttl time.Duration) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
