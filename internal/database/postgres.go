package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/youssefelghamour/movie-recommendation-system/internal/config"
)

func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS genres (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(100) NOT NULL UNIQUE,
			created_at TIMESTAMP DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS movies (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			release_date DATE,
			duration INTEGER,
			language VARCHAR(100) NOT NULL DEFAULT '',
			average_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			watch_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS movie_genres (
			movie_id UUID NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
			genre_id UUID NOT NULL REFERENCES genres(id) ON DELETE CASCADE,
			PRIMARY KEY (movie_id, genre_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			movie_id UUID NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
			score INTEGER NOT NULL,
			review_text TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			UNIQUE (user_id, movie_id)
		)`,
		`CREATE TABLE IF NOT EXISTS watch_history (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL,
			movie_id UUID NOT NULL REFERENCES movies(id) ON DELETE CASCADE,
			watched_on TIMESTAMP DEFAULT NOW(),
			UNIQUE (user_id, movie_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_movie_id ON ratings(movie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_user_id ON ratings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_created_at ON ratings(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_history_movie_id ON watch_history(movie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_history_user_id ON watch_history(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_history_watched_on ON watch_history(watched_on)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_average_rating ON movies(average_rating DESC)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
