package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/youssefelghamour/movie-recommendation-system/internal/models"
)

// RatingRepository handles database operations for ratings.
type RatingRepository struct {
	db *sql.DB
}

// NewRatingRepository creates a new RatingRepository.
func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// GetByUserAndMovie returns the user's rating for a movie, or
// sql.ErrNoRows if none exists.
func (r *RatingRepository) GetByUserAndMovie(ctx context.Context, userID, movieID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, movie_id, score, review_text, created_at, updated_at
		FROM ratings
		WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID).Scan(
		&rating.ID, &rating.UserID, &rating.MovieID, &rating.Score,
		&rating.ReviewText, &rating.CreatedAt, &rating.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// ScoresForMovie returns all current rating scores for a movie.
func (r *RatingRepository) ScoresForMovie(ctx context.Context, movieID uuid.UUID) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT score FROM ratings WHERE movie_id = $1
	`, movieID)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	scores := make([]int, 0)
	for rows.Next() {
		var score int
		if err := rows.Scan(&score); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

// LikedMovies returns the movies the user rated at or above minScore,
// each with the genres it belongs to. Movies without genres carry no
// affinity signal and are omitted.
func (r *RatingRepository) LikedMovies(ctx context.Context, userID uuid.UUID, minScore int) ([]models.LikedMovie, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.movie_id, mg.genre_id
		FROM ratings r
		INNER JOIN movie_genres mg ON mg.movie_id = r.movie_id
		WHERE r.user_id = $1 AND r.score >= $2
		ORDER BY r.movie_id
	`, userID, minScore)
	if err != nil {
		return nil, fmt.Errorf("query liked movies: %w", err)
	}
	defer rows.Close()

	byMovie := make(map[uuid.UUID]int)
	liked := make([]models.LikedMovie, 0)
	for rows.Next() {
		var movieID, genreID uuid.UUID
		if err := rows.Scan(&movieID, &genreID); err != nil {
			return nil, fmt.Errorf("scan liked movie: %w", err)
		}
		idx, ok := byMovie[movieID]
		if !ok {
			liked = append(liked, models.LikedMovie{MovieID: movieID})
			idx = len(liked) - 1
			byMovie[movieID] = idx
		}
		liked[idx].GenreIDs = append(liked[idx].GenreIDs, genreID)
	}
	return liked, rows.Err()
}

// Create inserts a new rating.
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ratings (id, user_id, movie_id, score, review_text)
		VALUES ($1, $2, $3, $4, $5)
	`, rating.ID, rating.UserID, rating.MovieID, rating.Score, rating.ReviewText)
	if err != nil {
		return fmt.Errorf("insert rating: %w", err)
	}
	return nil
}

// Update overwrites the user's rating for a movie in place.
func (r *RatingRepository) Update(ctx context.Context, userID, movieID uuid.UUID, score int, reviewText string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ratings SET score = $1, review_text = $2, updated_at = NOW()
		WHERE user_id = $3 AND movie_id = $4
	`, score, reviewText, userID, movieID)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the user's rating for a movie.
func (r *RatingRepository) Delete(ctx context.Context, userID, movieID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM ratings WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// WindowedAverages returns the per-movie average rating over ratings
// created at or after the given instant.
func (r *RatingRepository) WindowedAverages(ctx context.Context, since time.Time) (map[uuid.UUID]float64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT movie_id, AVG(score)::float
		FROM ratings
		WHERE created_at >= $1
		GROUP BY movie_id
	`, since)
	if err != nil {
		return nil, fmt.Errorf("query windowed averages: %w", err)
	}
	defer rows.Close()

	averages := make(map[uuid.UUID]float64)
	for rows.Next() {
		var movieID uuid.UUID
		var avg float64
		if err := rows.Scan(&movieID, &avg); err != nil {
			return nil, fmt.Errorf("scan windowed average: %w", err)
		}
		averages[movieID] = avg
	}
	return averages, rows.Err()
}
