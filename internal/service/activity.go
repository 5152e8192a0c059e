package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/youssefelghamour/movie-recommendation-system/internal/models"
)

var (
	// ErrNotFound signals a missing movie, rating or watch entry.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyRated signals a second rating for the same (user, movie);
	// updates must go through UpdateRating instead.
	ErrAlreadyRated = errors.New("movie already rated by this user")
	// ErrAlreadyWatched signals a duplicate watch entry.
	ErrAlreadyWatched = errors.New("movie already watched by this user")
	// ErrRatingExists blocks deleting a watch entry while a rating for
	// the same (user, movie) exists: a rated movie is always watched.
	ErrRatingExists = errors.New("cannot delete watch history while a rating exists")
	// ErrInvalidScore signals a rating score outside 1..5.
	ErrInvalidScore = errors.New("score must be between 1 and 5")
)

// ActivityService carries the rating and watch mutations that feed the
// ranking engine. Every mutation re-aggregates the affected movie
// synchronously before returning, so stored aggregates are never
// stale within the engine's own view.
type ActivityService struct {
	movies  MovieStore
	ratings RatingStore
	watches WatchStore
	ranking *RankingService
}

// NewActivityService creates a new ActivityService.
func NewActivityService(movies MovieStore, ratings RatingStore, watches WatchStore, ranking *RankingService) *ActivityService {
	return &ActivityService{movies: movies, ratings: ratings, watches: watches, ranking: ranking}
}

// RateMovie records a first rating for (user, movie). Rating a movie
// marks it as watched: a watch history entry is created if absent.
func (s *ActivityService) RateMovie(ctx context.Context, userID, movieID uuid.UUID, score int, reviewText string) (*models.Rating, error) {
	if score < 1 || score > 5 {
		return nil, ErrInvalidScore
	}
	if err := s.ensureMovie(ctx, movieID); err != nil {
		return nil, err
	}

	if _, err := s.ratings.GetByUserAndMovie(ctx, userID, movieID); err == nil {
		return nil, ErrAlreadyRated
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check existing rating: %w", err)
	}

	rating := &models.Rating{
		ID:         uuid.New(),
		UserID:     userID,
		MovieID:    movieID,
		Score:      score,
		ReviewText: reviewText,
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	watched, err := s.watches.Exists(ctx, userID, movieID)
	if err != nil {
		return nil, fmt.Errorf("check watch history: %w", err)
	}
	watchCreated := false
	if !watched {
		entry := &models.WatchHistory{
			ID:        uuid.New(),
			UserID:    userID,
			MovieID:   movieID,
			WatchedOn: s.ranking.now(),
		}
		if err := s.watches.Create(ctx, entry); err != nil {
			return nil, err
		}
		watchCreated = true
	}

	if err := s.ranking.OnRatingMutated(ctx, movieID, userID); err != nil {
		return nil, err
	}
	if watchCreated {
		if err := s.ranking.OnWatchMutated(ctx, movieID, userID); err != nil {
			return nil, err
		}
	}
	return rating, nil
}

// UpdateRating overwrites the user's rating for a movie in place.
func (s *ActivityService) UpdateRating(ctx context.Context, userID, movieID uuid.UUID, score int, reviewText string) (*models.Rating, error) {
	if score < 1 || score > 5 {
		return nil, ErrInvalidScore
	}

	if err := s.ratings.Update(ctx, userID, movieID, score, reviewText); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.ranking.OnRatingMutated(ctx, movieID, userID); err != nil {
		return nil, err
	}
	return s.ratings.GetByUserAndMovie(ctx, userID, movieID)
}

// DeleteRating removes the user's rating for a movie. The watch
// history entry created alongside the rating is left untouched.
func (s *ActivityService) DeleteRating(ctx context.Context, userID, movieID uuid.UUID) error {
	if err := s.ratings.Delete(ctx, userID, movieID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.ranking.OnRatingMutated(ctx, movieID, userID)
}

// WatchMovie marks a movie as watched by the user.
func (s *ActivityService) WatchMovie(ctx context.Context, userID, movieID uuid.UUID) (*models.WatchHistory, error) {
	if err := s.ensureMovie(ctx, movieID); err != nil {
		return nil, err
	}

	watched, err := s.watches.Exists(ctx, userID, movieID)
	if err != nil {
		return nil, fmt.Errorf("check watch history: %w", err)
	}
	if watched {
		return nil, ErrAlreadyWatched
	}

	entry := &models.WatchHistory{
		ID:        uuid.New(),
		UserID:    userID,
		MovieID:   movieID,
		WatchedOn: s.ranking.now(),
	}
	if err := s.watches.Create(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.ranking.OnWatchMutated(ctx, movieID, userID); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteWatch removes the user's watch history entry for a movie. It
// is rejected while a rating for the same (user, movie) exists; the
// rating must be deleted first.
func (s *ActivityService) DeleteWatch(ctx context.Context, userID, movieID uuid.UUID) error {
	if _, err := s.ratings.GetByUserAndMovie(ctx, userID, movieID); err == nil {
		return ErrRatingExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check existing rating: %w", err)
	}

	if err := s.watches.Delete(ctx, userID, movieID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.ranking.OnWatchMutated(ctx, movieID, userID)
}

func (s *ActivityService) ensureMovie(ctx context.Context, movieID uuid.UUID) error {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("fetch movie: %w", err)
	}
	return nil
}
