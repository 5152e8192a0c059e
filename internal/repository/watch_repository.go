package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/youssefelghamour/movie-recommendation-system/internal/models"
)

// WatchHistoryRepository handles database operations for watch history.
type WatchHistoryRepository struct {
	db *sql.DB
}

// NewWatchHistoryRepository creates a new WatchHistoryRepository.
func NewWatchHistoryRepository(db *sql.DB) *WatchHistoryRepository {
	return &WatchHistoryRepository{db: db}
}

// Exists reports whether the user has a watch history entry for the movie.
func (r *WatchHistoryRepository) Exists(ctx context.Context, userID, movieID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM watch_history WHERE user_id = $1 AND movie_id = $2
		)
	`, userID, movieID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check watch history: %w", err)
	}
	return exists, nil
}

// Create inserts a new watch history entry.
func (r *WatchHistoryRepository) Create(ctx context.Context, entry *models.WatchHistory) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO watch_history (id, user_id, movie_id, watched_on)
		VALUES ($1, $2, $3, $4)
	`, entry.ID, entry.UserID, entry.MovieID, entry.WatchedOn)
	if err != nil {
		return fmt.Errorf("insert watch history: %w", err)
	}
	return nil
}

// Delete removes the user's watch history entry for a movie.
func (r *WatchHistoryRepository) Delete(ctx context.Context, userID, movieID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM watch_history WHERE user_id = $1 AND movie_id = $2
	`, userID, movieID)
	if err != nil {
		return fmt.Errorf("delete watch history: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByMovie returns the number of watch history entries for a movie.
func (r *WatchHistoryRepository) CountByMovie(ctx context.Context, movieID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM watch_history WHERE movie_id = $1
	`, movieID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count watch history: %w", err)
	}
	return count, nil
}

// WindowedCounts returns the per-movie watch count over entries
// recorded at or after the given instant.
func (r *WatchHistoryRepository) WindowedCounts(ctx context.Context, since time.Time) (map[uuid.UUID]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT movie_id, COUNT(*)
		FROM watch_history
		WHERE watched_on >= $1
		GROUP BY movie_id
	`, since)
	if err != nil {
		return nil, fmt.Errorf("query windowed counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var movieID uuid.UUID
		var count int
		if err := rows.Scan(&movieID, &count); err != nil {
			return nil, fmt.Errorf("scan windowed count: %w", err)
		}
		counts[movieID] = count
	}
	return counts, rows.Err()
}
