package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/youssefelghamour/movie-recommendation-system/internal/models"
)

const (
	rankingPageSize   = 20
	recommendationTTL = 10 * time.Minute
)

// RankingService is the recommendation and popularity engine. Reads
// for popular/top-rated/trending query the stored aggregates directly;
// recommended results are memoized per user in the cache collaborator
// and invalidated eagerly when that user rates or watches a movie.
type RankingService struct {
	movies     MovieStore
	ratings    RatingStore
	watches    WatchStore
	cache      RecommendationCache
	maintainer *AggregateMaintainer
	now        func() time.Time
}

// NewRankingService creates a new RankingService.
func NewRankingService(movies MovieStore, ratings RatingStore, watches WatchStore, cache RecommendationCache) *RankingService {
	return &RankingService{
		movies:     movies,
		ratings:    ratings,
		watches:    watches,
		cache:      cache,
		maintainer: NewAggregateMaintainer(movies, ratings, watches),
		now:        time.Now,
	}
}

// ComputePopular returns a page of movies ranked by popularity score.
func (s *RankingService) ComputePopular(ctx context.Context, page int) (*models.RankedPage, error) {
	return s.storedRankingPage(ctx, page, s.movies.TopByPopularity)
}

// ComputeTopRated returns a page of movies ranked by average rating.
func (s *RankingService) ComputeTopRated(ctx context.Context, page int) (*models.RankedPage, error) {
	return s.storedRankingPage(ctx, page, s.movies.TopByAverageRating)
}

func (s *RankingService) storedRankingPage(
	ctx context.Context,
	page int,
	query func(ctx context.Context, limit, offset int) ([]models.RankedMovie, error),
) (*models.RankedPage, error) {
	if page < 1 {
		page = 1
	}

	totalResults, err := s.movies.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}

	items, err := query(ctx, rankingPageSize, (page-1)*rankingPageSize)
	if err != nil {
		return nil, fmt.Errorf("ranked query: %w", err)
	}
	for i := range items {
		items[i].Score = round2(items[i].Score)
	}

	return &models.RankedPage{
		Page:         page,
		PageSize:     rankingPageSize,
		TotalPages:   totalPages(totalResults),
		TotalResults: totalResults,
		Data:         items,
	}, nil
}

// ComputeTrending returns a page of movies ranked by activity within
// the last `days` days. Windows outside [7, 30] fall back to 30. Only
// movies with any rating or watch activity in the window qualify.
// Windowed aggregates are computed at read time; they are never stored.
func (s *RankingService) ComputeTrending(ctx context.Context, days, page int) (*models.RankedPage, error) {
	if page < 1 {
		page = 1
	}
	days = ClampTrendingDays(days)
	since := s.now().AddDate(0, 0, -days)

	averages, err := s.ratings.WindowedAverages(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("windowed averages: %w", err)
	}
	counts, err := s.watches.WindowedCounts(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("windowed counts: %w", err)
	}

	seen := make(map[uuid.UUID]bool, len(averages)+len(counts))
	candidates := make([]models.RankedMovie, 0, len(averages)+len(counts))
	collect := func(movieID uuid.UUID) {
		if seen[movieID] {
			return
		}
		seen[movieID] = true
		avg := averages[movieID]
		count := counts[movieID]
		if avg <= 0 && count <= 0 {
			return
		}
		candidates = append(candidates, models.RankedMovie{
			MovieID:       movieID,
			AverageRating: avg,
			WatchCount:    count,
			Score:         TrendingScore(avg, count),
		})
	}
	for movieID := range averages {
		collect(movieID)
	}
	for movieID := range counts {
		collect(movieID)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].MovieID.String() < candidates[j].MovieID.String()
	})

	ids := make([]uuid.UUID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.MovieID
	}
	titles, err := s.movies.TitlesByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve titles: %w", err)
	}
	for i := range candidates {
		candidates[i].Title = titles[candidates[i].MovieID]
		candidates[i].AverageRating = round2(candidates[i].AverageRating)
		candidates[i].Score = round2(candidates[i].Score)
	}

	return pageOf(candidates, page), nil
}

// GetRecommended returns a page of the user's personalized
// recommendations, serving from the cache when a valid entry exists.
// Cache failures degrade to recomputation; they never fail the request.
func (s *RankingService) GetRecommended(ctx context.Context, userID uuid.UUID, page int) (*models.RankedPage, error) {
	if page < 1 {
		page = 1
	}

	cached, err := s.cache.Get(ctx, userID)
	if err != nil {
		slog.Warn("recommendation cache unavailable, recomputing", "user_id", userID, "error", err)
	}
	if cached != nil {
		slog.Debug("recommendation cache hit", "user_id", userID)
		return pageOf(cached.Movies, page), nil
	}

	liked, err := s.ratings.LikedMovies(ctx, userID, likedScoreThreshold)
	if err != nil {
		return nil, fmt.Errorf("liked movies: %w", err)
	}
	affinities := BuildGenreAffinities(liked)

	recommended, err := s.planRecommendations(ctx, userID, affinities)
	if err != nil {
		return nil, err
	}
	for i := range recommended {
		recommended[i].Score = round2(recommended[i].Score)
	}

	result := &models.CachedRecommendation{
		UserID:      userID,
		Movies:      recommended,
		GeneratedAt: s.now().UTC(),
	}
	if err := s.cache.Set(ctx, userID, result, recommendationTTL); err != nil {
		slog.Warn("failed to cache recommendations", "user_id", userID, "error", err)
	}

	return pageOf(recommended, page), nil
}

// OnRatingMutated re-aggregates the movie's average rating after a
// rating create/update/delete and invalidates the mutating user's
// cached recommendations. Other users' cache entries are left to age
// out within the TTL.
func (s *RankingService) OnRatingMutated(ctx context.Context, movieID, userID uuid.UUID) error {
	if err := s.maintainer.OnRatingChanged(ctx, movieID); err != nil {
		return err
	}
	s.invalidateUser(ctx, userID)
	return nil
}

// OnWatchMutated re-aggregates the movie's watch count after a watch
// history create/delete and invalidates the mutating user's cached
// recommendations.
func (s *RankingService) OnWatchMutated(ctx context.Context, movieID, userID uuid.UUID) error {
	if err := s.maintainer.OnWatchChanged(ctx, movieID); err != nil {
		return err
	}
	s.invalidateUser(ctx, userID)
	return nil
}

func (s *RankingService) invalidateUser(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		slog.Warn("failed to invalidate recommendation cache", "user_id", userID, "error", err)
	}
}

func pageOf(items []models.RankedMovie, page int) *models.RankedPage {
	totalResults := len(items)

	start := (page - 1) * rankingPageSize
	if start > totalResults {
		start = totalResults
	}
	end := start + rankingPageSize
	if end > totalResults {
		end = totalResults
	}

	return &models.RankedPage{
		Page:         page,
		PageSize:     rankingPageSize,
		TotalPages:   totalPages(totalResults),
		TotalResults: totalResults,
		Data:         items[start:end],
	}
}

func totalPages(totalResults int) int {
	if totalResults == 0 {
		return 0
	}
	return (totalResults + rankingPageSize - 1) / rankingPageSize
}
