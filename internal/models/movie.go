package models

import (
	"time"

	"github.com/google/uuid"
)

// Movie represents a movie in the catalog. average_rating and
// watch_count are stored aggregates maintained by the ranking engine,
// never computed lazily at read time.
type Movie struct {
	ID            uuid.UUID   `json:"movie_id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	ReleaseDate   string      `json:"release_date"`
	Duration      int         `json:"duration"`
	Language      string      `json:"language"`
	AverageRating float64     `json:"average_rating"`
	WatchCount    int         `json:"watch_count"`
	GenreIDs      []uuid.UUID `json:"genres"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Genre represents a movie genre.
type Genre struct {
	ID        uuid.UUID `json:"genre_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RankedMovie is a movie identifier plus the score that ranked it.
// AverageRating and WatchCount carry the aggregates the score was
// derived from (lifetime for popularity, windowed for trending).
type RankedMovie struct {
	MovieID       uuid.UUID `json:"movie_id"`
	Title         string    `json:"title"`
	AverageRating float64   `json:"average_rating"`
	WatchCount    int       `json:"watch_count"`
	Score         float64   `json:"score"`
}

// RankedPage is the paginated response shape for all ranking reads.
type RankedPage struct {
	Page         int           `json:"page"`
	PageSize     int           `json:"page_size"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
	Data         []RankedMovie `json:"data"`
}

// GenreAffinity is one entry of a user's genre affinity distribution:
// how many of the user's liked movies belong to this genre.
type GenreAffinity struct {
	GenreID    uuid.UUID `json:"genre_id"`
	LikedCount int       `json:"liked_count"`
}

// LikedMovie is a movie a user rated at or above the liked threshold,
// with the genres it belongs to.
type LikedMovie struct {
	MovieID  uuid.UUID
	GenreIDs []uuid.UUID
}

// CachedRecommendation is the per-user cached recommendation result.
type CachedRecommendation struct {
	UserID      uuid.UUID     `json:"user_id"`
	Movies      []RankedMovie `json:"movies"`
	GeneratedAt time.Time     `json:"generated_at"`
}
