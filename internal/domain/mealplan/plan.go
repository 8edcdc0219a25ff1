// Package mealplan contains the meal plan aggregate and the derived
// values the engine produces from it: constraint scores, schedules,
// variations and rotation plans.
package mealplan

import (
	"time"

	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/google/uuid"
)

// FitnessGoal drives macro target derivation and timing annotations.
type FitnessGoal string

const (
	GoalWeightLoss          FitnessGoal = "weight_loss"
	GoalMaintenance         FitnessGoal = "maintenance"
	GoalMuscleGain          FitnessGoal = "muscle_gain"
	GoalAthleticPerformance FitnessGoal = "athletic_performance"
	GoalEndurance           FitnessGoal = "endurance"
)

// ImpliesPerformance reports whether the goal calls for workout
// nutrition timing and hydration guidance.
func (g FitnessGoal) ImpliesPerformance() bool {
	return g == GoalAthleticPerformance || g == GoalEndurance
}

// MealSlot is one (day, meal-number, meal-type) position in a plan with
// its assigned recipe. The recipe value is snapshotted at assignment
// time so historical plans stay stable when the catalog changes.
type MealSlot struct {
	Day        int // 0-based day index
	MealNumber int // 1-based within the day
	MealType   recipe.MealType
	Recipe     recipe.Recipe
}

// WorkoutTiming carries the optional workout nutrition annotations for
// performance-oriented goals.
type WorkoutTiming struct {
	PreWorkoutMealNumber  int
	PostWorkoutMealNumber int
	HydrationNotes        string
}

// VariationMetadata marks a plan derived by applying a Variation.
type VariationMetadata struct {
	BaseID      uuid.UUID
	VariationID uuid.UUID
	Kind        VariationKind
	Changes     int
}

// MealPlan is the plan aggregate. A complete plan carries exactly
// Days*MealsPerDay slots; anything else is an error state.
type MealPlan struct {
	ID                 uuid.UUID
	Name               string
	CustomerID         uuid.UUID
	TrainerID          uuid.UUID
	FitnessGoal        FitnessGoal
	DailyCalorieTarget float64
	Days               int
	MealsPerDay        int
	Meals              []MealSlot
	Timing             *WorkoutTiming
	VariationMetadata  *VariationMetadata
	CreatedAt          time.Time
}

// Validate enforces the completeness invariant and basic slot bounds.
func (p MealPlan) Validate() error {
	if p.Days <= 0 {
		return ErrInvalidDayCount
	}
	if p.MealsPerDay <= 0 {
		return ErrInvalidMealsPerDay
	}
	if len(p.Meals) != p.Days*p.MealsPerDay {
		return ErrIncompletePlan
	}
	for _, slot := range p.Meals {
		if slot.Day < 0 || slot.Day >= p.Days {
			return ErrSlotOutOfRange
		}
		if slot.MealNumber < 1 || slot.MealNumber > p.MealsPerDay {
			return ErrSlotOutOfRange
		}
	}
	return nil
}

// DailyAverageNutrition returns the per-day aggregate nutrition,
// averaged across the plan's days.
func (p MealPlan) DailyAverageNutrition() DailyNutrition {
	if p.Days <= 0 {
		return DailyNutrition{}
	}
	var total recipe.NutritionInfo
	for _, slot := range p.Meals {
		total = total.Add(slot.Recipe.Nutrition)
	}
	days := float64(p.Days)
	return DailyNutrition{
		Calories: total.Calories / days,
		Protein:  total.Protein / days,
		Carbs:    total.Carbs / days,
		Fat:      total.Fat / days,
	}
}

// SlotIndex returns the index of the slot at (day, mealNumber).
func (p MealPlan) SlotIndex(day, mealNumber int) (int, bool) {
	for i, slot := range p.Meals {
		if slot.Day == day && slot.MealNumber == mealNumber {
			return i, true
		}
	}
	return 0, false
}

// Clone returns a deep copy. Slot recipes are value snapshots already;
// only the slices and pointer annotations need copying.
func (p MealPlan) Clone() MealPlan {
	out := p
	out.Meals = make([]MealSlot, len(p.Meals))
	copy(out.Meals, p.Meals)
	if p.Timing != nil {
		timing := *p.Timing
		out.Timing = &timing
	}
	if p.VariationMetadata != nil {
		meta := *p.VariationMetadata
		out.VariationMetadata = &meta
	}
	return out
}
