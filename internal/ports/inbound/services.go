// Package inbound defines the engine's use-case interfaces and the
// command/result types the host application exchanges with them.
package inbound

import (
	"context"

	"github.com/fitplate/engine/internal/domain/mealplan"
	"github.com/fitplate/engine/internal/domain/preference"
	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/google/uuid"
)

// ScoredRecipe pairs a recipe with its engagement score for listing
// surfaces. Momentum and ShareVelocity are populated for the score
// families that define them.
type ScoredRecipe struct {
	Recipe        recipe.Recipe `json:"recipe"`
	Score         float64       `json:"score"`
	Momentum      float64       `json:"momentum,omitempty"`
	ShareVelocity float64       `json:"shareVelocity,omitempty"`
}

// EngagementService exposes the trending / popularity / viral read
// paths. All listings are sorted descending by score and truncated to
// limit; scope is "recipes" or a category name that filters candidates
// by tag or cuisine before scoring.
type EngagementService interface {
	GetTrendingRecipes(ctx context.Context, windowDays, limit int, category string) ([]ScoredRecipe, error)
	GetPopularRecipes(ctx context.Context, windowDays, limit int, category string) ([]ScoredRecipe, error)
	GetViralRecipes(ctx context.Context, windowDays, limit int, minThreshold float64) ([]ScoredRecipe, error)
}

// PreferenceService builds and applies customer preference profiles.
type PreferenceService interface {
	// GetCustomerPreferences folds the customer's rated plan history
	// into a profile. A nil profile with nil error is the valid cold
	// start state for customers with no rating history.
	GetCustomerPreferences(ctx context.Context, customerID uuid.UUID) (*preference.Profile, error)

	// ScoreRecipeForCustomer returns a fit score in [0,1]. A nil
	// profile yields the neutral score.
	ScoreRecipeForCustomer(r recipe.Recipe, profile *preference.Profile) float64

	// GeneratePreferenceAnalysis is a pure projection of the profile.
	GeneratePreferenceAnalysis(profile *preference.Profile) preference.Analysis
}

// OptimizationChange records one committed recipe substitution.
type OptimizationChange struct {
	Day        int
	MealNumber int
	OldRecipe  recipe.Recipe
	NewRecipe  recipe.Recipe
	Reason     string
}

// OptimizationResult reports an optimizer run. OptimizedScore is never
// below OriginalScore; Success is true only when every constraint is
// satisfied at the end.
type OptimizationResult struct {
	Success               bool
	OriginalScore         float64
	OptimizedScore        float64
	ImprovementPercentage float64
	Changes               []OptimizationChange
	FinalNutrition        mealplan.DailyNutrition
	Plan                  mealplan.MealPlan
}

// NutritionOptimizer refines a plan's aggregate nutrition against a
// constraint set via bounded greedy substitution.
type NutritionOptimizer interface {
	OptimizeMealPlanNutrition(ctx context.Context, plan mealplan.MealPlan, constraints mealplan.ConstraintSet) (*OptimizationResult, error)

	// GenerateOptimizationReport renders a deterministic textual
	// report; formatting only, no new computation.
	GenerateOptimizationReport(result *OptimizationResult) string
}

// PlanOptions parameterizes plan generation. Validation failures are
// the only error class that stops generation early.
type PlanOptions struct {
	CustomerID         uuid.UUID            `validate:"-"`
	Name               string               `validate:"max=200"`
	FitnessGoal        mealplan.FitnessGoal `validate:"required"`
	Days               int                  `validate:"gt=0,lte=30"`
	MealsPerDay        int                  `validate:"gt=0,lte=6"`
	DailyCalorieTarget float64              `validate:"gte=0"`
	DietaryTags        []string             `validate:"-"`
	ExcludeIngredients []string             `validate:"-"`
}

// PlanGenerator assembles complete meal plans. On upstream failure it
// returns a structurally valid fallback plan rather than an error.
type PlanGenerator interface {
	GenerateIntelligentMealPlan(ctx context.Context, opts PlanOptions, trainerID uuid.UUID) (*mealplan.MealPlan, error)

	// GenerateProgressiveMealPlan nudges the macro targets
	// monotonically across the horizon as a pure function of week
	// index and goal.
	GenerateProgressiveMealPlan(ctx context.Context, opts PlanOptions, trainerID uuid.UUID, weekNumber, totalWeeks int) (*mealplan.MealPlan, error)
}

// ScheduleService turns a finished plan into a weekly prep schedule.
type ScheduleService interface {
	CreateIntelligentSchedule(ctx context.Context, plan mealplan.MealPlan, customerID uuid.UUID) (*mealplan.Schedule, error)
}

// VariationService produces bounded plan variations and long-horizon
// rotation plans. Variations are derived values; the base plan is
// never mutated.
type VariationService interface {
	CreateSeasonalVariation(ctx context.Context, plan mealplan.MealPlan, season recipe.Season) (*mealplan.Variation, error)
	CreateCuisineVariation(ctx context.Context, plan mealplan.MealPlan, cuisine recipe.CuisineType) (*mealplan.Variation, error)
	CreateDifficultyProgressionVariation(ctx context.Context, plan mealplan.MealPlan, target recipe.DifficultyLevel) (*mealplan.Variation, error)
	CreateRotationPlan(ctx context.Context, customerID uuid.UUID, basePlan mealplan.MealPlan, weeks int) (*mealplan.RotationPlan, error)
	ApplyVariationToMealPlan(base mealplan.MealPlan, v mealplan.Variation) mealplan.MealPlan
}
