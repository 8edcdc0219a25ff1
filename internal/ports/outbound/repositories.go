// Package outbound defines the interfaces for outbound ports (driven
// adapters): the narrow read capabilities the engine consumes and the
// optional cache it shares. The engine must stay correct when any of
// these collaborators is degraded or unavailable.
package outbound

import (
	"context"
	"time"

	"github.com/fitplate/engine/internal/domain/mealplan"
	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/google/uuid"
)

// CatalogFilter narrows a catalog search. Zero values mean "no filter"
// for that dimension.
type CatalogFilter struct {
	MealType           recipe.MealType
	DietaryTags        []string
	ApprovedOnly       bool
	Cuisine            recipe.CuisineType
	Season             recipe.Season
	Difficulty         recipe.DifficultyLevel
	MaxCalories        *float64
	MinProtein         *float64
	ExcludeIngredients []string
	Limit              int
}

// RecipeCatalog is the read-only query capability the planning,
// optimization and variation paths depend on. Implementations must
// honor ApprovedOnly so unapproved recipes never reach a plan.
type RecipeCatalog interface {
	Search(ctx context.Context, filter CatalogFilter) ([]recipe.Recipe, error)
}

// EngagementStore supplies per-recipe engagement signals over a rolling
// window of days.
type EngagementStore interface {
	StatsWindow(ctx context.Context, windowDays int) ([]recipe.EngagementStats, error)
}

// RatedPlan pairs a historical meal plan with the customer's rating.
type RatedPlan struct {
	Plan    mealplan.MealPlan
	Rating  float64 // 1..5
	RatedAt time.Time
}

// PlanHistoryStore supplies past rated plans, most recent first, for
// preference profile construction.
type PlanHistoryStore interface {
	RatedPlans(ctx context.Context, customerID uuid.UUID, limit int) ([]RatedPlan, error)
}

// CacheRepository defines the shared score cache. It is optional:
// callers treat any error as a cache miss and recompute.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
