// Package planner provides the application layer that assembles full
// meal plans: goal-derived macro targets, per-slot candidate selection,
// preference ranking and an optimizer refinement pass.
//
// Generation never fails on degraded collaborators. If the catalog is
// unreachable or a slot has no candidates, the generator falls back to
// a minimally viable built-in recipe so the caller always receives a
// structurally valid plan. Invalid options are the only early rejection.
package planner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fitplate/engine/internal/domain/mealplan"
	"github.com/fitplate/engine/internal/domain/preference"
	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/fitplate/engine/internal/ports/inbound"
	"github.com/fitplate/engine/internal/ports/outbound"
	"github.com/fitplate/engine/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements the plan generation use cases.
type Service struct {
	catalog   outbound.RecipeCatalog
	prefs     inbound.PreferenceService
	optimizer inbound.NutritionOptimizer
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewService creates a plan generator.
func NewService(
	catalog outbound.RecipeCatalog,
	prefs inbound.PreferenceService,
	optimizer inbound.NutritionOptimizer,
	logger *zap.Logger,
) inbound.PlanGenerator {
	return &Service{
		catalog:   catalog,
		prefs:     prefs,
		optimizer: optimizer,
		validate:  validator.New(),
		logger:    logger.Named("plan-generator"),
	}
}

// GenerateIntelligentMealPlan assembles a complete plan for the options
// and trainer, refined against goal-derived macro constraints.
func (s *Service) GenerateIntelligentMealPlan(ctx context.Context, opts inbound.PlanOptions, trainerID uuid.UUID) (*mealplan.MealPlan, error) {
	if err := s.validate.Struct(opts); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	targets := targetsForGoal(opts.FitnessGoal, opts.DailyCalorieTarget)
	return s.generate(ctx, opts, trainerID, targets)
}

// GenerateProgressiveMealPlan runs the same pipeline with the macro
// targets nudged for the given week of the horizon. The adjustment
// depends only on week index and goal, never on prior actual intake.
func (s *Service) GenerateProgressiveMealPlan(ctx context.Context, opts inbound.PlanOptions, trainerID uuid.UUID, weekNumber, totalWeeks int) (*mealplan.MealPlan, error) {
	if err := s.validate.Struct(opts); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if weekNumber < 1 || totalWeeks < 1 || weekNumber > totalWeeks {
		return nil, errors.NewInvalidInputError("weekNumber",
			fmt.Sprintf("week %d outside horizon of %d weeks", weekNumber, totalWeeks))
	}

	targets := targetsForGoal(opts.FitnessGoal, opts.DailyCalorieTarget).progressed(opts.FitnessGoal, weekNumber)
	plan, err := s.generate(ctx, opts, trainerID, targets)
	if err != nil {
		return nil, err
	}
	if plan.Name == opts.Name || opts.Name == "" {
		plan.Name = fmt.Sprintf("%s (week %d of %d)", plan.Name, weekNumber, totalWeeks)
	}
	return plan, nil
}

func (s *Service) generate(ctx context.Context, opts inbound.PlanOptions, trainerID uuid.UUID, targets macroTargets) (*mealplan.MealPlan, error) {
	profile := s.customerProfile(ctx, opts.CustomerID)
	pattern := mealPattern(opts.MealsPerDay)

	candidatesByType := make(map[recipe.MealType][]recipe.Recipe, len(pattern))
	degraded := false
	for _, mt := range uniqueMealTypes(pattern) {
		ranked, err := s.rankedCandidates(ctx, mt, opts, profile)
		if err != nil || len(ranked) == 0 {
			degraded = true
			continue
		}
		candidatesByType[mt] = ranked
	}

	plan := s.assemble(opts, trainerID, targets, pattern, candidatesByType)

	if degraded {
		s.logger.Warn("Plan generated with fallback slots",
			zap.String("plan_id", plan.ID.String()),
			zap.String("goal", string(opts.FitnessGoal)),
		)
	}

	result, err := s.optimizer.OptimizeMealPlanNutrition(ctx, *plan, targets.constraints())
	if err != nil {
		// The draft is already structurally valid; hand it back
		// unoptimized rather than failing the caller.
		s.logger.Warn("Optimizer pass skipped",
			zap.String("plan_id", plan.ID.String()),
			zap.Error(err),
		)
		return plan, nil
	}

	optimized := result.Plan
	s.logger.Info("Meal plan generated",
		zap.String("plan_id", optimized.ID.String()),
		zap.String("goal", string(opts.FitnessGoal)),
		zap.Int("slots", len(optimized.Meals)),
		zap.Float64("nutrition_score", result.OptimizedScore),
	)
	return &optimized, nil
}

// customerProfile loads the preference profile when a customer is
// identified. Cold start and degraded history both yield nil.
func (s *Service) customerProfile(ctx context.Context, customerID uuid.UUID) *preference.Profile {
	if customerID == uuid.Nil {
		return nil
	}
	profile, err := s.prefs.GetCustomerPreferences(ctx, customerID)
	if err != nil {
		return nil
	}
	return profile
}

// rankedCandidates queries the catalog for one meal type and orders
// the pool by preference fit, name as deterministic tiebreak.
func (s *Service) rankedCandidates(ctx context.Context, mt recipe.MealType, opts inbound.PlanOptions, profile *preference.Profile) ([]recipe.Recipe, error) {
	pool, err := s.catalog.Search(ctx, outbound.CatalogFilter{
		MealType:           mt,
		DietaryTags:        opts.DietaryTags,
		ExcludeIngredients: opts.ExcludeIngredients,
		ApprovedOnly:       true,
	})
	if err != nil {
		return nil, err
	}

	type rankedRecipe struct {
		r     recipe.Recipe
		score float64
	}
	ranked := make([]rankedRecipe, len(pool))
	for i, r := range pool {
		ranked[i] = rankedRecipe{r: r, score: s.prefs.ScoreRecipeForCustomer(r, profile)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].r.Name < ranked[j].r.Name
	})

	out := make([]recipe.Recipe, len(ranked))
	for i, rr := range ranked {
		out[i] = rr.r
	}
	return out, nil
}

// assemble builds the draft plan with exactly days * mealsPerDay
// slots, cycling ranked candidates across days for variety and filling
// uncovered meal types from the built-in fallbacks.
func (s *Service) assemble(
	opts inbound.PlanOptions,
	trainerID uuid.UUID,
	targets macroTargets,
	pattern []recipe.MealType,
	candidatesByType map[recipe.MealType][]recipe.Recipe,
) *mealplan.MealPlan {
	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("%d-day %s plan", opts.Days, opts.FitnessGoal)
	}

	plan := &mealplan.MealPlan{
		ID:                 uuid.New(),
		Name:               name,
		CustomerID:         opts.CustomerID,
		TrainerID:          trainerID,
		FitnessGoal:        opts.FitnessGoal,
		DailyCalorieTarget: targets.calories,
		Days:               opts.Days,
		MealsPerDay:        opts.MealsPerDay,
		Meals:              make([]mealplan.MealSlot, 0, opts.Days*opts.MealsPerDay),
		CreatedAt:          time.Now(),
	}

	for day := 0; day < opts.Days; day++ {
		for mealIdx, mt := range pattern {
			var chosen recipe.Recipe
			if pool := candidatesByType[mt]; len(pool) > 0 {
				// Rotate through the ranked pool so consecutive days
				// do not repeat the same top pick.
				chosen = pool[(day+mealIdx)%len(pool)]
			} else {
				chosen = fallbackRecipe(mt, targets, opts.MealsPerDay)
			}
			plan.Meals = append(plan.Meals, mealplan.MealSlot{
				Day:        day,
				MealNumber: mealIdx + 1,
				MealType:   mt,
				Recipe:     chosen,
			})
		}
	}

	if opts.FitnessGoal.ImpliesPerformance() {
		pre := opts.MealsPerDay - 1
		if pre < 1 {
			pre = 1
		}
		plan.Timing = &mealplan.WorkoutTiming{
			PreWorkoutMealNumber:  pre,
			PostWorkoutMealNumber: opts.MealsPerDay,
			HydrationNotes:        "500ml water 2h before training, 150ml every 20min during",
		}
	}
	return plan
}

// mealPattern maps meals-per-day onto slot kinds.
func mealPattern(mealsPerDay int) []recipe.MealType {
	switch mealsPerDay {
	case 1:
		return []recipe.MealType{recipe.MealTypeDinner}
	case 2:
		return []recipe.MealType{recipe.MealTypeBreakfast, recipe.MealTypeDinner}
	case 3:
		return []recipe.MealType{recipe.MealTypeBreakfast, recipe.MealTypeLunch, recipe.MealTypeDinner}
	case 4:
		return []recipe.MealType{recipe.MealTypeBreakfast, recipe.MealTypeLunch, recipe.MealTypeDinner, recipe.MealTypeSnack}
	case 5:
		return []recipe.MealType{recipe.MealTypeBreakfast, recipe.MealTypeSnack, recipe.MealTypeLunch, recipe.MealTypeDinner, recipe.MealTypeSnack}
	default:
		pattern := []recipe.MealType{
			recipe.MealTypeBreakfast, recipe.MealTypeSnack, recipe.MealTypeLunch,
			recipe.MealTypeSnack, recipe.MealTypeDinner, recipe.MealTypeSnack,
		}
		return pattern[:6]
	}
}

func uniqueMealTypes(pattern []recipe.MealType) []recipe.MealType {
	seen := make(map[recipe.MealType]bool, len(pattern))
	var out []recipe.MealType
	for _, mt := range pattern {
		if !seen[mt] {
			seen[mt] = true
			out = append(out, mt)
		}
	}
	return out
}

// fallbackRecipe provides a minimally viable slot filler when the
// catalog cannot. Macros are sized to an even share of the daily
// target so the fallback plan stays roughly on goal.
func fallbackRecipe(mt recipe.MealType, targets macroTargets, mealsPerDay int) recipe.Recipe {
	share := targets.calories / float64(mealsPerDay)
	return recipe.Recipe{
		ID:       uuid.New(),
		Name:     fmt.Sprintf("Balanced %s", mt),
		Approved: true,
		Servings: 1,
		Nutrition: recipe.NutritionInfo{
			Calories: share,
			Protein:  share * targets.proteinShare / 4,
			Carbs:    share * targets.carbShare / 4,
			Fat:      share * targets.fatShare / 9,
		},
		MealTypes: []recipe.MealType{mt},
		PrepTime:  10 * time.Minute,
		CookTime:  15 * time.Minute,
		Ingredients: []recipe.Ingredient{
			{Name: "mixed greens", Amount: 100, Unit: "g"},
			{Name: "lean protein", Amount: 120, Unit: "g"},
			{Name: "whole grains", Amount: 80, Unit: "g"},
		},
		CreatedAt: time.Now(),
	}
}
