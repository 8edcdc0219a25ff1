// Package main runs the meal plan engine end to end against seeded
// in-memory stores: engagement listings, preference learning, plan
// generation with nutritional optimization, scheduling, variations and
// a rotation plan.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fitplate/engine/internal/domain/mealplan"
	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/fitplate/engine/internal/infrastructure/config"
	"github.com/fitplate/engine/internal/infrastructure/container"
	"github.com/fitplate/engine/internal/infrastructure/persistence/memory"
	"github.com/fitplate/engine/internal/ports/inbound"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		fx.NopLogger, // Use our own logger instead of Fx's
		container.Module,
		fx.Invoke(runDemo),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start engine: %v", err)
	}
	if err := app.Stop(ctx); err != nil {
		log.Fatalf("Failed to stop engine: %v", err)
	}
}

type demoDeps struct {
	fx.In

	Config     *config.Config
	Catalog    *memory.RecipeCatalog
	Stats      *memory.EngagementStore
	History    *memory.PlanHistoryStore
	Engagement inbound.EngagementService
	Prefs      inbound.PreferenceService
	Optimizer  inbound.NutritionOptimizer
	Planner    inbound.PlanGenerator
	Scheduler  inbound.ScheduleService
	Variations inbound.VariationService
	Logger     *zap.Logger
}

func runDemo(deps demoDeps) error {
	ctx := context.Background()
	customerID := memory.SeedDemoData(deps.Catalog, deps.Stats, deps.History)
	deps.Logger.Info("Demo data seeded", zap.String("customer_id", customerID.String()))

	// Engagement listings
	trending, err := deps.Engagement.GetTrendingRecipes(ctx, 7, 5, "recipes")
	if err != nil {
		return err
	}
	fmt.Println("Trending recipes (7-day window):")
	for i, sr := range trending {
		fmt.Printf("  %d. %-40s score=%.1f momentum=%.2f\n", i+1, sr.Recipe.Name, sr.Score, sr.Momentum)
	}

	viral, err := deps.Engagement.GetViralRecipes(ctx, 7, 5, 10)
	if err != nil {
		return err
	}
	fmt.Printf("\nViral recipes above threshold: %d\n", len(viral))

	// Preference profile
	profile, err := deps.Prefs.GetCustomerPreferences(ctx, customerID)
	if err != nil {
		return err
	}
	analysis := deps.Prefs.GeneratePreferenceAnalysis(profile)
	fmt.Printf("\nPreference analysis: %s (strength %.2f)\n", analysis.CookingProfile, analysis.RecommendationStrength)

	// Plan generation
	plan, err := deps.Planner.GenerateIntelligentMealPlan(ctx, inbound.PlanOptions{
		CustomerID:  customerID,
		Name:        "Strength Block",
		FitnessGoal: mealplan.GoalMuscleGain,
		Days:        7,
		MealsPerDay: 4,
	}, uuid.New())
	if err != nil {
		return err
	}
	daily := plan.DailyAverageNutrition()
	fmt.Printf("\nGenerated plan %q: %d meals, %.0f kcal/day avg\n", plan.Name, len(plan.Meals), daily.Calories)

	// Explicit optimization pass with tighter protein bounds
	result, err := deps.Optimizer.OptimizeMealPlanNutrition(ctx, *plan, mealplan.ConstraintSet{
		Calories: mealplan.Bound{Min: 2660, Max: 2940},
		Protein:  mealplan.Bound{Min: 180, Max: 240},
		Carbs:    mealplan.Bound{Min: 250, Max: 340},
		Fat:      mealplan.Bound{Min: 60, Max: 90},
	})
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(deps.Optimizer.GenerateOptimizationReport(result))

	// Scheduling
	if deps.Config.Features.EnableScheduling {
		sched, err := deps.Scheduler.CreateIntelligentSchedule(ctx, result.Plan, customerID)
		if err != nil {
			return err
		}
		fmt.Printf("Schedule: %d batch sessions, %d shopping trips, %d notifications, efficiency %.2f\n",
			len(sched.BatchSessions), len(sched.ShoppingTrips), len(sched.Notifications), sched.EfficiencyScore)
	}

	// Seasonal variation and rotation
	seasonal, err := deps.Variations.CreateSeasonalVariation(ctx, result.Plan, recipe.SeasonSummer)
	if err != nil {
		return err
	}
	fmt.Printf("Summer variation: %d substitutions, alignment %.2f, variety %.2f\n",
		len(seasonal.Changes), seasonal.SeasonalAlignment, seasonal.VarietyScore)

	if deps.Config.Features.EnableRotation {
		rotation, err := deps.Variations.CreateRotationPlan(ctx, customerID, result.Plan, 12)
		if err != nil {
			return err
		}
		fmt.Printf("Rotation plan: %d cycles over %d weeks, predicted engagement %.2f\n",
			len(rotation.Cycles), rotation.HorizonWeeks, rotation.PredictedEngagement)
	}

	return nil
}
