package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/youssefelghamour/movie-recommendation-system/internal/models"
)

// memStore is an in-memory dataset backing the store fakes, with the
// same ordering semantics as the SQL repositories (score descending,
// movie ID ascending as tie-break). It implements MovieStore directly;
// ratingView and watchView expose the other two collaborator
// interfaces over the same data.
type memStore struct {
	movies  map[uuid.UUID]*models.Movie
	ratings map[string]*models.Rating
	watches map[string]*models.WatchHistory

	likedMoviesCalls int
	genreQueryLimits map[uuid.UUID]int
}

func newMemStore() *memStore {
	return &memStore{
		movies:           make(map[uuid.UUID]*models.Movie),
		ratings:          make(map[string]*models.Rating),
		watches:          make(map[string]*models.WatchHistory),
		genreQueryLimits: make(map[uuid.UUID]int),
	}
}

func (m *memStore) ratingStore() *ratingView { return &ratingView{m} }
func (m *memStore) watchStore() *watchView   { return &watchView{m} }

func pairKey(userID, movieID uuid.UUID) string {
	return userID.String() + "|" + movieID.String()
}

func (m *memStore) addMovie(id uuid.UUID, title string, avg float64, watchCount int, genres ...uuid.UUID) {
	m.movies[id] = &models.Movie{
		ID:            id,
		Title:         title,
		AverageRating: avg,
		WatchCount:    watchCount,
		GenreIDs:      genres,
	}
}

func (m *memStore) addRating(userID, movieID uuid.UUID, score int, createdAt time.Time) {
	m.ratings[pairKey(userID, movieID)] = &models.Rating{
		ID:        uuid.New(),
		UserID:    userID,
		MovieID:   movieID,
		Score:     score,
		CreatedAt: createdAt,
	}
}

func (m *memStore) addWatch(userID, movieID uuid.UUID, watchedOn time.Time) {
	m.watches[pairKey(userID, movieID)] = &models.WatchHistory{
		ID:        uuid.New(),
		UserID:    userID,
		MovieID:   movieID,
		WatchedOn: watchedOn,
	}
}

func (m *memStore) watchedBy(userID, movieID uuid.UUID) bool {
	_, ok := m.watches[pairKey(userID, movieID)]
	return ok
}

// ---- MovieStore ----

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*models.Movie, error) {
	movie, ok := m.movies[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *movie
	return &copied, nil
}

func (m *memStore) CountAll(_ context.Context) (int, error) {
	return len(m.movies), nil
}

func (m *memStore) TopByPopularity(_ context.Context, limit, offset int) ([]models.RankedMovie, error) {
	ranked := m.rankWhere(all, func(movie *models.Movie) float64 {
		return PopularityScore(movie.AverageRating, movie.WatchCount)
	})
	return slicePage(ranked, limit, offset), nil
}

func (m *memStore) TopByAverageRating(_ context.Context, limit, offset int) ([]models.RankedMovie, error) {
	ranked := m.rankWhere(all, func(movie *models.Movie) float64 {
		return movie.AverageRating
	})
	return slicePage(ranked, limit, offset), nil
}

func (m *memStore) TopUnwatched(_ context.Context, userID uuid.UUID, limit int) ([]models.RankedMovie, error) {
	ranked := m.rankWhere(func(movie *models.Movie) bool {
		return !m.watchedBy(userID, movie.ID)
	}, popularity)
	return slicePage(ranked, limit, 0), nil
}

func (m *memStore) TopUnwatchedByGenre(_ context.Context, userID, genreID uuid.UUID, limit int) ([]models.RankedMovie, error) {
	m.genreQueryLimits[genreID] = limit
	ranked := m.rankWhere(func(movie *models.Movie) bool {
		if m.watchedBy(userID, movie.ID) {
			return false
		}
		for _, gid := range movie.GenreIDs {
			if gid == genreID {
				return true
			}
		}
		return false
	}, popularity)
	return slicePage(ranked, limit, 0), nil
}

func (m *memStore) TitlesByID(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	titles := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if movie, ok := m.movies[id]; ok {
			titles[id] = movie.Title
		}
	}
	return titles, nil
}

func (m *memStore) UpdateAverageRating(_ context.Context, movieID uuid.UUID, avg float64) error {
	movie, ok := m.movies[movieID]
	if !ok {
		return sql.ErrNoRows
	}
	movie.AverageRating = avg
	return nil
}

func (m *memStore) UpdateWatchCount(_ context.Context, movieID uuid.UUID, count int) error {
	movie, ok := m.movies[movieID]
	if !ok {
		return sql.ErrNoRows
	}
	movie.WatchCount = count
	return nil
}

func all(*models.Movie) bool { return true }

func popularity(movie *models.Movie) float64 {
	return PopularityScore(movie.AverageRating, movie.WatchCount)
}

func (m *memStore) rankWhere(keep func(*models.Movie) bool, score func(*models.Movie) float64) []models.RankedMovie {
	ranked := make([]models.RankedMovie, 0, len(m.movies))
	for _, movie := range m.movies {
		if !keep(movie) {
			continue
		}
		ranked = append(ranked, models.RankedMovie{
			MovieID:       movie.ID,
			Title:         movie.Title,
			AverageRating: movie.AverageRating,
			WatchCount:    movie.WatchCount,
			Score:         score(movie),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].MovieID.String() < ranked[j].MovieID.String()
	})
	return ranked
}

func slicePage(items []models.RankedMovie, limit, offset int) []models.RankedMovie {
	if offset >= len(items) {
		return []models.RankedMovie{}
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// ---- RatingStore ----

type ratingView struct{ m *memStore }

func (v *ratingView) GetByUserAndMovie(_ context.Context, userID, movieID uuid.UUID) (*models.Rating, error) {
	rating, ok := v.m.ratings[pairKey(userID, movieID)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *rating
	return &copied, nil
}

func (v *ratingView) ScoresForMovie(_ context.Context, movieID uuid.UUID) ([]int, error) {
	scores := make([]int, 0)
	for _, rating := range v.m.ratings {
		if rating.MovieID == movieID {
			scores = append(scores, rating.Score)
		}
	}
	return scores, nil
}

func (v *ratingView) LikedMovies(_ context.Context, userID uuid.UUID, minScore int) ([]models.LikedMovie, error) {
	v.m.likedMoviesCalls++
	liked := make([]models.LikedMovie, 0)
	for _, rating := range v.m.ratings {
		if rating.UserID != userID || rating.Score < minScore {
			continue
		}
		movie, ok := v.m.movies[rating.MovieID]
		if !ok || len(movie.GenreIDs) == 0 {
			continue
		}
		liked = append(liked, models.LikedMovie{MovieID: movie.ID, GenreIDs: movie.GenreIDs})
	}
	return liked, nil
}

func (v *ratingView) Create(_ context.Context, rating *models.Rating) error {
	key := pairKey(rating.UserID, rating.MovieID)
	if _, ok := v.m.ratings[key]; ok {
		return errors.New("duplicate rating")
	}
	copied := *rating
	v.m.ratings[key] = &copied
	return nil
}

func (v *ratingView) Update(_ context.Context, userID, movieID uuid.UUID, score int, reviewText string) error {
	rating, ok := v.m.ratings[pairKey(userID, movieID)]
	if !ok {
		return sql.ErrNoRows
	}
	rating.Score = score
	rating.ReviewText = reviewText
	return nil
}

func (v *ratingView) Delete(_ context.Context, userID, movieID uuid.UUID) error {
	key := pairKey(userID, movieID)
	if _, ok := v.m.ratings[key]; !ok {
		return sql.ErrNoRows
	}
	delete(v.m.ratings, key)
	return nil
}

func (v *ratingView) WindowedAverages(_ context.Context, since time.Time) (map[uuid.UUID]float64, error) {
	sums := make(map[uuid.UUID]int)
	counts := make(map[uuid.UUID]int)
	for _, rating := range v.m.ratings {
		if rating.CreatedAt.Before(since) {
			continue
		}
		sums[rating.MovieID] += rating.Score
		counts[rating.MovieID]++
	}
	averages := make(map[uuid.UUID]float64, len(sums))
	for movieID, sum := range sums {
		averages[movieID] = float64(sum) / float64(counts[movieID])
	}
	return averages, nil
}

// ---- WatchStore ----

type watchView struct{ m *memStore }

func (v *watchView) Exists(_ context.Context, userID, movieID uuid.UUID) (bool, error) {
	return v.m.watchedBy(userID, movieID), nil
}

func (v *watchView) Create(_ context.Context, entry *models.WatchHistory) error {
	key := pairKey(entry.UserID, entry.MovieID)
	if _, ok := v.m.watches[key]; ok {
		return errors.New("duplicate watch entry")
	}
	copied := *entry
	v.m.watches[key] = &copied
	return nil
}

func (v *watchView) Delete(_ context.Context, userID, movieID uuid.UUID) error {
	key := pairKey(userID, movieID)
	if _, ok := v.m.watches[key]; !ok {
		return sql.ErrNoRows
	}
	delete(v.m.watches, key)
	return nil
}

func (v *watchView) CountByMovie(_ context.Context, movieID uuid.UUID) (int, error) {
	count := 0
	for _, entry := range v.m.watches {
		if entry.MovieID == movieID {
			count++
		}
	}
	return count, nil
}

func (v *watchView) WindowedCounts(_ context.Context, since time.Time) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int)
	for _, entry := range v.m.watches {
		if entry.WatchedOn.Before(since) {
			continue
		}
		counts[entry.MovieID]++
	}
	return counts, nil
}

// fakeCache is an in-memory RecommendationCache with failure knobs.
type fakeCache struct {
	entries map[uuid.UUID]*models.CachedRecommendation

	failGet        bool
	failSet        bool
	failInvalidate bool

	getCalls int
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[uuid.UUID]*models.CachedRecommendation)}
}

func (c *fakeCache) Get(_ context.Context, userID uuid.UUID) (*models.CachedRecommendation, error) {
	c.getCalls++
	if c.failGet {
		return nil, errors.New("cache unavailable")
	}
	return c.entries[userID], nil
}

func (c *fakeCache) Set(_ context.Context, userID uuid.UUID, result *models.CachedRecommendation, _ time.Duration) error {
	c.setCalls++
	if c.failSet {
		return errors.New("cache unavailable")
	}
	c.entries[userID] = result
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	if c.failInvalidate {
		return errors.New("cache unavailable")
	}
	delete(c.entries, userID)
	return nil
}

// newTestEngine wires a RankingService over the in-memory fixture with
// a fixed clock.
func newTestEngine(m *memStore, c *fakeCache, now time.Time) *RankingService {
	svc := NewRankingService(m, m.ratingStore(), m.watchStore(), c)
	svc.now = func() time.Time { return now }
	return svc
}

// testID builds a deterministic UUID whose string order follows n.
func testID(n byte) uuid.UUID {
	return uuid.UUID{15: n}
}
