// Package engagement provides the application layer for trending,
// popularity and viral scoring over recipe engagement signals.
//
// Scores are computed per time window and cached under
// "{kind}:{scope}:{window}" keys with a short TTL. Cache failures and
// malformed payloads are treated as misses; upstream failures degrade
// to empty listings. Nothing in this package is fatal to the caller.
package engagement

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/fitplate/engine/internal/ports/inbound"
	"github.com/fitplate/engine/internal/ports/outbound"
	"github.com/fitplate/engine/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// Momentum is measured against a one-week reference; longer windows
	// decay the recent-activity signal proportionally.
	momentumBaselineDays = 7

	// Trending blend weights.
	trendingViewsWeight     = 0.30
	trendingFavoritesWeight = 0.25
	trendingSharesWeight    = 0.20
	trendingRatingWeight    = 0.15
	trendingMomentumWeight  = 0.10

	// Popularity blend weights.
	popularityViewsWeight     = 0.40
	popularityFavoritesWeight = 0.30
	popularityRatingWeight    = 0.30

	// Viral blend weights.
	viralVelocityWeight   = 70.0
	viralEngagementWeight = 30.0

	// Engagement time that counts as fully engaged, in seconds.
	fullEngagementTime = 600.0
)

// Config carries the tunable scoring settings. Zero values fall back
// to built-in defaults.
type Config struct {
	CacheTTL          time.Duration
	DefaultWindowDays int
	DefaultLimit      int
	ViralThreshold    float64
}

// Service implements the engagement scoring use cases.
type Service struct {
	catalog outbound.RecipeCatalog
	stats   outbound.EngagementStore
	cache   outbound.CacheRepository
	cfg     Config
	logger  *zap.Logger
}

// NewService creates an engagement scoring service. The cache is
// optional; pass a no-op or memory implementation when Redis is not
// available.
func NewService(
	catalog outbound.RecipeCatalog,
	stats outbound.EngagementStore,
	cache outbound.CacheRepository,
	cfg Config,
	logger *zap.Logger,
) inbound.EngagementService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.DefaultWindowDays <= 0 {
		cfg.DefaultWindowDays = momentumBaselineDays
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	return &Service{
		catalog: catalog,
		stats:   stats,
		cache:   cache,
		cfg:     cfg,
		logger:  logger.Named("engagement-service"),
	}
}

// GetTrendingRecipes returns recipes ranked by trending score for the
// window, at most limit entries, sorted descending.
func (s *Service) GetTrendingRecipes(ctx context.Context, windowDays, limit int, category string) ([]inbound.ScoredRecipe, error) {
	windowDays, limit = s.normalizeQuery(windowDays, limit)

	scored, err := s.scoredList(ctx, "trending", category, windowDays, func(stats recipe.EngagementStats, m maxima) (float64, float64, float64) {
		momentum := momentumTerm(stats, windowDays)
		base := trendingViewsWeight*normalize(float64(stats.TotalViews), m.views) +
			trendingFavoritesWeight*normalize(float64(stats.TotalFavorites), m.favorites) +
			trendingSharesWeight*normalize(float64(stats.TotalShares), m.shares) +
			trendingRatingWeight*(stats.AverageRating/5)
		return clampScore((base + trendingMomentumWeight*momentum) * 100), momentum, 0
	})
	if err != nil {
		return []inbound.ScoredRecipe{}, nil
	}
	return truncate(scored, limit), nil
}

// GetPopularRecipes returns recipes ranked by popularity score. The
// rating signal is weighted by its own rating count so a handful of
// five-star ratings cannot outrank sustained engagement.
func (s *Service) GetPopularRecipes(ctx context.Context, windowDays, limit int, category string) ([]inbound.ScoredRecipe, error) {
	windowDays, limit = s.normalizeQuery(windowDays, limit)

	scored, err := s.scoredList(ctx, "popularity", category, windowDays, func(stats recipe.EngagementStats, m maxima) (float64, float64, float64) {
		trust := (float64(stats.RatingCount) + 1) / (float64(stats.RatingCount) + 10)
		ratingComponent := (stats.AverageRating / 5) * trust
		score := popularityViewsWeight*normalize(float64(stats.TotalViews), m.views) +
			popularityFavoritesWeight*normalize(float64(stats.TotalFavorites), m.favorites) +
			popularityRatingWeight*ratingComponent
		return clampScore(score * 100), 0, 0
	})
	if err != nil {
		return []inbound.ScoredRecipe{}, nil
	}
	return truncate(scored, limit), nil
}

// GetViralRecipes returns recipes ranked by viral score, excluding any
// entry below minThreshold after scoring. A non-positive threshold
// falls back to the configured default.
func (s *Service) GetViralRecipes(ctx context.Context, windowDays, limit int, minThreshold float64) ([]inbound.ScoredRecipe, error) {
	windowDays, limit = s.normalizeQuery(windowDays, limit)
	if minThreshold <= 0 {
		minThreshold = s.cfg.ViralThreshold
	}

	scored, err := s.scoredList(ctx, "viral", "", windowDays, func(stats recipe.EngagementStats, _ maxima) (float64, float64, float64) {
		score, velocity := viralScore(stats)
		return score, 0, velocity
	})
	if err != nil {
		return []inbound.ScoredRecipe{}, nil
	}

	filtered := make([]inbound.ScoredRecipe, 0, len(scored))
	for _, sr := range scored {
		if sr.Score >= minThreshold {
			filtered = append(filtered, sr)
		}
	}
	return truncate(filtered, limit), nil
}

// scoreFunc computes (score, momentum, shareVelocity) for one recipe's
// stats given the candidate-set maxima.
type scoreFunc func(stats recipe.EngagementStats, m maxima) (float64, float64, float64)

// scoredList serves the full sorted listing for one score family,
// cache-aside. The cached value is the complete sorted list so every
// limit shares one cache entry.
func (s *Service) scoredList(ctx context.Context, kind, category string, windowDays int, score scoreFunc) ([]inbound.ScoredRecipe, error) {
	// "recipes" is the unfiltered scope, not a category name.
	if category == "recipes" {
		category = ""
	}
	key := cacheKey(kind, category, windowDays)

	if cached, ok := s.readCache(ctx, key); ok {
		return cached, nil
	}

	scored, err := s.compute(ctx, category, windowDays, score)
	if err != nil {
		s.logger.Warn("Scoring degraded to empty listing",
			zap.String("kind", kind),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, err
	}

	s.writeCache(ctx, key, scored)
	return scored, nil
}

// compute recomputes the sorted score list from the catalog and the
// engagement store.
func (s *Service) compute(ctx context.Context, category string, windowDays int, score scoreFunc) ([]inbound.ScoredRecipe, error) {
	recipes, err := s.catalog.Search(ctx, outbound.CatalogFilter{ApprovedOnly: true})
	if err != nil {
		return nil, errors.NewUpstreamError("recipe catalog", err)
	}
	if category != "" {
		recipes = filterByCategory(recipes, category)
	}

	statsList, err := s.stats.StatsWindow(ctx, windowDays)
	if err != nil {
		return nil, errors.NewUpstreamError("engagement store", err)
	}
	statsByID := make(map[uuid.UUID]recipe.EngagementStats, len(statsList))
	for _, st := range statsList {
		statsByID[st.RecipeID] = st.Normalized()
	}

	m := computeMaxima(recipes, statsByID)

	scored := make([]inbound.ScoredRecipe, 0, len(recipes))
	for _, r := range recipes {
		stats := statsByID[r.ID]
		value, momentum, velocity := score(stats, m)
		scored = append(scored, inbound.ScoredRecipe{
			Recipe:        r,
			Score:         value,
			Momentum:      momentum,
			ShareVelocity: velocity,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored, nil
}

// readCache returns the cached listing if present and well formed.
// Any failure counts as a miss.
func (s *Service) readCache(ctx context.Context, key string) ([]inbound.ScoredRecipe, bool) {
	payload, err := s.cache.Get(ctx, key)
	if err != nil || len(payload) == 0 {
		return nil, false
	}
	var scored []inbound.ScoredRecipe
	if err := json.Unmarshal(payload, &scored); err != nil {
		s.logger.Debug("Malformed cached score payload, treating as miss",
			zap.String("key", key),
			zap.Error(err),
		)
		_ = s.cache.Delete(ctx, key)
		return nil, false
	}
	return scored, true
}

// writeCache stores the listing; write failures are swallowed.
func (s *Service) writeCache(ctx context.Context, key string, scored []inbound.ScoredRecipe) {
	payload, err := json.Marshal(scored)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cfg.CacheTTL); err != nil {
		s.logger.Debug("Score cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// momentumTerm measures how much of a recipe's engagement happened
// recently, decayed as the window lengthens. Zero recent activity or
// zero lifetime views yields zero momentum; the ratio is never allowed
// to grow unbounded.
func momentumTerm(stats recipe.EngagementStats, windowDays int) float64 {
	if stats.RecentActivity == 0 || stats.TotalViews == 0 {
		return 0
	}
	ratio := float64(stats.RecentActivity) / float64(stats.TotalViews)
	if ratio > 1 {
		ratio = 1
	}
	decay := float64(momentumBaselineDays) / float64(windowDays)
	if decay > 1 {
		decay = 1
	}
	return ratio * decay
}

// viralScore computes (viral score, share velocity). Both are exactly
// zero when the recipe has no shares; zero views also zeroes velocity.
func viralScore(stats recipe.EngagementStats) (float64, float64) {
	if stats.TotalShares == 0 {
		return 0, 0
	}
	var velocity float64
	if stats.TotalViews > 0 {
		velocity = (float64(stats.TotalShares) / float64(stats.TotalViews)) * stats.ShareDepth
	}
	engaged := stats.AvgEngagementTime / fullEngagementTime
	if engaged > 1 {
		engaged = 1
	}
	return clampScore(velocity*viralVelocityWeight + engaged*viralEngagementWeight), velocity
}

// maxima holds candidate-set maxima for signal normalization.
type maxima struct {
	views     float64
	favorites float64
	shares    float64
}

func computeMaxima(recipes []recipe.Recipe, stats map[uuid.UUID]recipe.EngagementStats) maxima {
	var m maxima
	for _, r := range recipes {
		st := stats[r.ID]
		if v := float64(st.TotalViews); v > m.views {
			m.views = v
		}
		if v := float64(st.TotalFavorites); v > m.favorites {
			m.favorites = v
		}
		if v := float64(st.TotalShares); v > m.shares {
			m.shares = v
		}
	}
	return m
}

func normalize(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return v / max
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func filterByCategory(recipes []recipe.Recipe, category string) []recipe.Recipe {
	out := make([]recipe.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.HasTag(category) || string(r.Cuisine) == category {
			out = append(out, r)
		}
	}
	return out
}

func cacheKey(kind, category string, windowDays int) string {
	scope := "recipes"
	if category != "" {
		scope = "category:" + category
	}
	return fmt.Sprintf("%s:%s:%d", kind, scope, windowDays)
}

func (s *Service) normalizeQuery(windowDays, limit int) (int, int) {
	if windowDays <= 0 {
		windowDays = s.cfg.DefaultWindowDays
	}
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	return windowDays, limit
}

func truncate(scored []inbound.ScoredRecipe, limit int) []inbound.ScoredRecipe {
	if len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]inbound.ScoredRecipe, len(scored))
	copy(out, scored)
	return out
}
