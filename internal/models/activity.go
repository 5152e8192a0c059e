package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating is a user's rating of a movie. At most one row exists per
// (user, movie) pair; updates overwrite in place.
type Rating struct {
	ID         uuid.UUID `json:"rating_id"`
	UserID     uuid.UUID `json:"user_id"`
	MovieID    uuid.UUID `json:"movie_id"`
	Score      int       `json:"score"`
	ReviewText string    `json:"review_text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// WatchHistory marks a movie as watched by a user. At most one row
// exists per (user, movie) pair. Every rated movie is also a watched
// movie: rating a movie creates this row if it does not exist.
type WatchHistory struct {
	ID        uuid.UUID `json:"history_id"`
	UserID    uuid.UUID `json:"user_id"`
	MovieID   uuid.UUID `json:"movie_id"`
	WatchedOn time.Time `json:"watched_on"`
}

// RateRequest is the body for creating or updating a rating.
type RateRequest struct {
	UserID     uuid.UUID `json:"user_id" validate:"required"`
	Score      int       `json:"score" validate:"required,min=1,max=5"`
	ReviewText string    `json:"review_text"`
}

// WatchRequest is the body for marking a movie as watched.
type WatchRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}
