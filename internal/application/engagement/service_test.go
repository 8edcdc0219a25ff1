package engagement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/fitplate/engine/internal/ports/outbound"
	"github.com/fitplate/engine/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// stubCatalog returns a fixed recipe list and counts searches.
type stubCatalog struct {
	recipes  []recipe.Recipe
	err      error
	searches int
}

func (s *stubCatalog) Search(ctx context.Context, filter outbound.CatalogFilter) ([]recipe.Recipe, error) {
	s.searches++
	if s.err != nil {
		return nil, s.err
	}
	return s.recipes, nil
}

// stubStats returns fixed engagement stats.
type stubStats struct {
	stats []recipe.EngagementStats
	err   error
}

func (s *stubStats) StatsWindow(ctx context.Context, windowDays int) ([]recipe.EngagementStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

// stubCache is a controllable cache: it can behave normally, fail every
// operation, or serve a fixed payload.
type stubCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	failAll bool
	deletes []string
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string][]byte)}
}

func (c *stubCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return nil, errors.New("cache down")
	}
	v, ok := c.data[key]
	if !ok {
		return nil, errors.New("key not found")
	}
	return v, nil
}

func (c *stubCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return errors.New("cache down")
	}
	c.data[key] = value
	return nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, key)
	delete(c.data, key)
	return nil
}

func (c *stubCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

// EngagementServiceTestSuite exercises the scoring listings end to end
// against stub collaborators.
type EngagementServiceTestSuite struct {
	suite.Suite
	catalog *stubCatalog
	stats   *stubStats
	cache   *stubCache
	factory *testutils.RecipeFactory
}

func (s *EngagementServiceTestSuite) SetupTest() {
	s.catalog = &stubCatalog{}
	s.stats = &stubStats{}
	s.cache = newStubCache()
	s.factory = testutils.NewRecipeFactory(7)
}

func (s *EngagementServiceTestSuite) service() *Service {
	return s.serviceWith(Config{CacheTTL: time.Minute})
}

func (s *EngagementServiceTestSuite) serviceWith(cfg Config) *Service {
	svc := NewService(s.catalog, s.stats, s.cache, cfg, zap.NewNop())
	return svc.(*Service)
}

func (s *EngagementServiceTestSuite) seed(n int) {
	for i := 0; i < n; i++ {
		r := s.factory.Recipe()
		s.catalog.recipes = append(s.catalog.recipes, r)
		s.stats.stats = append(s.stats.stats, s.factory.EngagementStats(r.ID))
	}
}

func (s *EngagementServiceTestSuite) TestTrendingScoresBoundedAndSorted() {
	s.seed(12)

	scored, err := s.service().GetTrendingRecipes(context.Background(), 7, 5, "")

	require.NoError(s.T(), err)
	require.Len(s.T(), scored, 5)
	for i, sr := range scored {
		assert.GreaterOrEqual(s.T(), sr.Score, 0.0)
		assert.LessOrEqual(s.T(), sr.Score, 100.0)
		if i > 0 {
			assert.LessOrEqual(s.T(), sr.Score, scored[i-1].Score)
		}
	}
}

func (s *EngagementServiceTestSuite) TestTrendingMomentumZeroWithoutRecentActivity() {
	r := testutils.NewRecipeBuilder().Build()
	s.catalog.recipes = []recipe.Recipe{r}
	s.stats.stats = []recipe.EngagementStats{{
		RecipeID:       r.ID,
		TotalViews:     1000,
		TotalFavorites: 100,
		AverageRating:  4.5,
		RatingCount:    50,
		RecentActivity: 0,
	}}

	scored, err := s.service().GetTrendingRecipes(context.Background(), 7, 10, "")

	require.NoError(s.T(), err)
	require.Len(s.T(), scored, 1)
	assert.Zero(s.T(), scored[0].Momentum)
}

func (s *EngagementServiceTestSuite) TestPopularityRewardsRatingVolume() {
	// Same rating, same engagement, different rating counts: the recipe
	// with more ratings must score at least as high.
	sparse := testutils.NewRecipeBuilder().WithName("Sparse").Build()
	dense := testutils.NewRecipeBuilder().WithName("Dense").Build()
	s.catalog.recipes = []recipe.Recipe{sparse, dense}
	s.stats.stats = []recipe.EngagementStats{
		{RecipeID: sparse.ID, TotalViews: 500, TotalFavorites: 50, AverageRating: 4.8, RatingCount: 2},
		{RecipeID: dense.ID, TotalViews: 500, TotalFavorites: 50, AverageRating: 4.8, RatingCount: 150},
	}

	scored, err := s.service().GetPopularRecipes(context.Background(), 7, 10, "")

	require.NoError(s.T(), err)
	require.Len(s.T(), scored, 2)
	assert.Equal(s.T(), "Dense", scored[0].Recipe.Name)
	assert.Greater(s.T(), scored[0].Score, scored[1].Score)
}

func (s *EngagementServiceTestSuite) TestPopularityStrictlyIncreasesWithRating() {
	// Same views, favorites and rating count: a higher average rating
	// alone must produce a strictly higher popularity score.
	lukewarm := testutils.NewRecipeBuilder().WithName("Lukewarm").Build()
	beloved := testutils.NewRecipeBuilder().WithName("Beloved").Build()
	s.catalog.recipes = []recipe.Recipe{lukewarm, beloved}
	s.stats.stats = []recipe.EngagementStats{
		{RecipeID: lukewarm.ID, TotalViews: 800, TotalFavorites: 80, AverageRating: 3.0, RatingCount: 40},
		{RecipeID: beloved.ID, TotalViews: 800, TotalFavorites: 80, AverageRating: 4.5, RatingCount: 40},
	}

	scored, err := s.service().GetPopularRecipes(context.Background(), 7, 10, "")

	require.NoError(s.T(), err)
	require.Len(s.T(), scored, 2)
	assert.Equal(s.T(), "Beloved", scored[0].Recipe.Name)
	assert.Greater(s.T(), scored[0].Score, scored[1].Score)
}

func (s *EngagementServiceTestSuite) TestViralExcludesZeroSharesAndSubThreshold() {
	silent := testutils.NewRecipeBuilder().WithName("Silent").Build()
	faint := testutils.NewRecipeBuilder().WithName("Faint").Build()
	loud := testutils.NewRecipeBuilder().WithName("Loud").Build()
	s.catalog.recipes = []recipe.Recipe{silent, faint, loud}
	s.stats.stats = []recipe.EngagementStats{
		// No shares at all: score is exactly zero.
		{RecipeID: silent.ID, TotalViews: 10000, AvgEngagementTime: 600},
		// One share in 100 views, depth 1, no engagement time: 0.7.
		{RecipeID: faint.ID, TotalViews: 100, TotalShares: 1, ShareDepth: 1},
		{RecipeID: loud.ID, TotalViews: 200, TotalShares: 60, ShareDepth: 2, AvgEngagementTime: 600},
	}

	scored, err := s.service().GetViralRecipes(context.Background(), 7, 10, 10)

	require.NoError(s.T(), err)
	require.Len(s.T(), scored, 1)
	assert.Equal(s.T(), "Loud", scored[0].Recipe.Name)
	assert.Greater(s.T(), scored[0].ShareVelocity, 0.0)
}

func (s *EngagementServiceTestSuite) TestCategoryScopeFiltersByTagOrCuisine() {
	tagged := testutils.NewRecipeBuilder().WithName("Tagged").WithDietaryTags("high-protein").Build()
	mexican := testutils.NewRecipeBuilder().WithName("Mexican").WithCuisine(recipe.CuisineMexican).Build()
	other := testutils.NewRecipeBuilder().WithName("Other").WithCuisine(recipe.CuisineItalian).Build()
	s.catalog.recipes = []recipe.Recipe{tagged, mexican, other}
	for _, r := range s.catalog.recipes {
		s.stats.stats = append(s.stats.stats, s.factory.EngagementStats(r.ID))
	}

	scored, err := s.service().GetTrendingRecipes(context.Background(), 7, 10, "mexican")

	require.NoError(s.T(), err)
	require.Len(s.T(), scored, 1)
	assert.Equal(s.T(), "Mexican", scored[0].Recipe.Name)
}

func (s *EngagementServiceTestSuite) TestCacheFailureFallsBackToComputation() {
	s.seed(4)
	s.cache.failAll = true

	scored, err := s.service().GetTrendingRecipes(context.Background(), 7, 10, "")

	require.NoError(s.T(), err)
	assert.Len(s.T(), scored, 4)
}

func (s *EngagementServiceTestSuite) TestMalformedCachePayloadTreatedAsMiss() {
	s.seed(3)
	s.cache.data["trending:recipes:7"] = []byte("{not json")

	scored, err := s.service().GetTrendingRecipes(context.Background(), 7, 10, "")

	require.NoError(s.T(), err)
	assert.Len(s.T(), scored, 3)
	assert.Contains(s.T(), s.cache.deletes, "trending:recipes:7")
}

func (s *EngagementServiceTestSuite) TestSecondCallServedFromCache() {
	s.seed(6)
	svc := s.service()

	_, err := svc.GetPopularRecipes(context.Background(), 7, 3, "")
	require.NoError(s.T(), err)
	searchesAfterFirst := s.catalog.searches

	scored, err := svc.GetPopularRecipes(context.Background(), 7, 6, "")
	require.NoError(s.T(), err)
	assert.Len(s.T(), scored, 6)
	assert.Equal(s.T(), searchesAfterFirst, s.catalog.searches, "second call should not hit the catalog")
}

func (s *EngagementServiceTestSuite) TestQueryDefaultsComeFromConfig() {
	s.seed(5)
	svc := s.serviceWith(Config{
		CacheTTL:          time.Minute,
		DefaultWindowDays: 3,
		DefaultLimit:      2,
	})

	scored, err := svc.GetTrendingRecipes(context.Background(), 0, 0, "")

	require.NoError(s.T(), err)
	assert.Len(s.T(), scored, 2)
	assert.Contains(s.T(), s.cache.data, "trending:recipes:3")
}

func (s *EngagementServiceTestSuite) TestViralThresholdDefaultsFromConfig() {
	faint := testutils.NewRecipeBuilder().WithName("Faint").Build()
	loud := testutils.NewRecipeBuilder().WithName("Loud").Build()
	s.catalog.recipes = []recipe.Recipe{faint, loud}
	s.stats.stats = []recipe.EngagementStats{
		{RecipeID: faint.ID, TotalViews: 100, TotalShares: 1, ShareDepth: 1},
		{RecipeID: loud.ID, TotalViews: 200, TotalShares: 60, ShareDepth: 2, AvgEngagementTime: 600},
	}
	svc := s.serviceWith(Config{CacheTTL: time.Minute, ViralThreshold: 10})

	scored, err := svc.GetViralRecipes(context.Background(), 7, 10, 0)

	require.NoError(s.T(), err)
	require.Len(s.T(), scored, 1)
	assert.Equal(s.T(), "Loud", scored[0].Recipe.Name)
}

func (s *EngagementServiceTestSuite) TestDegradedStatsStoreYieldsEmptyListing() {
	s.seed(2)
	s.stats.err = errors.New("signals store down")

	scored, err := s.service().GetTrendingRecipes(context.Background(), 7, 10, "")

	require.NoError(s.T(), err)
	assert.Empty(s.T(), scored)
}

func TestEngagementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EngagementServiceTestSuite))
}
