package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/youssefelghamour/movie-recommendation-system/internal/models"
)

// popularityExpr mirrors the stored-aggregate blend used everywhere a
// lifetime ranking is needed. Ordering ties are broken by movie id so
// results are reproducible across runs.
const popularityExpr = `(m.average_rating * 0.7 + m.watch_count * 0.3)`

// MovieRepository handles database operations for movies.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new MovieRepository.
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// GetByID returns a movie with its stored aggregates and genre IDs.
func (r *MovieRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	var m models.Movie
	err := r.db.QueryRowContext(ctx, `
		SELECT m.id, m.title, COALESCE(m.description, ''),
			COALESCE(TO_CHAR(m.release_date, 'YYYY-MM-DD'), ''),
			COALESCE(m.duration, 0), m.language,
			m.average_rating, m.watch_count, m.created_at, m.updated_at
		FROM movies m
		WHERE m.id = $1
	`, id).Scan(
		&m.ID, &m.Title, &m.Description, &m.ReleaseDate,
		&m.Duration, &m.Language, &m.AverageRating, &m.WatchCount,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT genre_id FROM movie_genres WHERE movie_id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query movie genres: %w", err)
	}
	defer rows.Close()

	m.GenreIDs = make([]uuid.UUID, 0)
	for rows.Next() {
		var gid uuid.UUID
		if err := rows.Scan(&gid); err != nil {
			return nil, fmt.Errorf("scan genre id: %w", err)
		}
		m.GenreIDs = append(m.GenreIDs, gid)
	}
	return &m, rows.Err()
}

// CountAll returns the total number of movies in the catalog.
func (r *MovieRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return count, nil
}

// TopByPopularity returns a page of movies ordered by popularity score.
func (r *MovieRepository) TopByPopularity(ctx context.Context, limit, offset int) ([]models.RankedMovie, error) {
	query := fmt.Sprintf(`
		SELECT m.id, m.title, m.average_rating, m.watch_count, %s AS popularity_score
		FROM movies m
		ORDER BY popularity_score DESC, m.id
		LIMIT $1 OFFSET $2
	`, popularityExpr)
	return r.queryRanked(ctx, query, limit, offset)
}

// TopByAverageRating returns a page of movies ordered by their stored
// average rating; the rating itself is the score.
func (r *MovieRepository) TopByAverageRating(ctx context.Context, limit, offset int) ([]models.RankedMovie, error) {
	return r.queryRanked(ctx, `
		SELECT m.id, m.title, m.average_rating, m.watch_count, m.average_rating AS score
		FROM movies m
		ORDER BY m.average_rating DESC, m.id
		LIMIT $1 OFFSET $2
	`, limit, offset)
}

// TopUnwatched returns the most popular movies the user has not watched.
func (r *MovieRepository) TopUnwatched(ctx context.Context, userID uuid.UUID, limit int) ([]models.RankedMovie, error) {
	query := fmt.Sprintf(`
		SELECT m.id, m.title, m.average_rating, m.watch_count, %s AS popularity_score
		FROM movies m
		WHERE NOT EXISTS (
			SELECT 1 FROM watch_history w
			WHERE w.movie_id = m.id AND w.user_id = $1
		)
		ORDER BY popularity_score DESC, m.id
		LIMIT $2
	`, popularityExpr)
	return r.queryRanked(ctx, query, userID, limit)
}

// TopUnwatchedByGenre returns the most popular movies in a genre the
// user has not watched.
func (r *MovieRepository) TopUnwatchedByGenre(ctx context.Context, userID, genreID uuid.UUID, limit int) ([]models.RankedMovie, error) {
	query := fmt.Sprintf(`
		SELECT m.id, m.title, m.average_rating, m.watch_count, %s AS popularity_score
		FROM movies m
		INNER JOIN movie_genres mg ON mg.movie_id = m.id
		WHERE mg.genre_id = $2
		AND NOT EXISTS (
			SELECT 1 FROM watch_history w
			WHERE w.movie_id = m.id AND w.user_id = $1
		)
		ORDER BY popularity_score DESC, m.id
		LIMIT $3
	`, popularityExpr)
	return r.queryRanked(ctx, query, userID, genreID, limit)
}

// TitlesByID returns the titles of the given movies.
func (r *MovieRepository) TitlesByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	titles := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title FROM movies WHERE id = ANY($1::uuid[])
	`, pq.Array(idStrs))
	if err != nil {
		return nil, fmt.Errorf("query titles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles[id] = title
	}
	return titles, rows.Err()
}

// UpdateAverageRating persists the recomputed average rating.
func (r *MovieRepository) UpdateAverageRating(ctx context.Context, movieID uuid.UUID, avg float64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE movies SET average_rating = $1, updated_at = NOW() WHERE id = $2
	`, avg, movieID)
	if err != nil {
		return fmt.Errorf("update average rating: %w", err)
	}
	return nil
}

// UpdateWatchCount persists the recomputed watch count.
func (r *MovieRepository) UpdateWatchCount(ctx context.Context, movieID uuid.UUID, count int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE movies SET watch_count = $1, updated_at = NOW() WHERE id = $2
	`, count, movieID)
	if err != nil {
		return fmt.Errorf("update watch count: %w", err)
	}
	return nil
}

func (r *MovieRepository) queryRanked(ctx context.Context, query string, args ...interface{}) ([]models.RankedMovie, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ranked query failed: %w", err)
	}
	defer rows.Close()

	items := make([]models.RankedMovie, 0)
	for rows.Next() {
		var item models.RankedMovie
		if err := rows.Scan(&item.MovieID, &item.Title, &item.AverageRating, &item.WatchCount, &item.Score); err != nil {
			slog.Error("failed to scan ranked movie row", "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
