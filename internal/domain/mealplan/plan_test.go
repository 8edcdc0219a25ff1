package mealplan

import (
	"testing"

	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completePlan(days, mealsPerDay int) MealPlan {
	plan := MealPlan{
		ID:                 uuid.New(),
		Name:               "Test Plan",
		CustomerID:         uuid.New(),
		FitnessGoal:        GoalMaintenance,
		DailyCalorieTarget: 2200,
		Days:               days,
		MealsPerDay:        mealsPerDay,
	}
	for day := 0; day < days; day++ {
		for meal := 1; meal <= mealsPerDay; meal++ {
			plan.Meals = append(plan.Meals, MealSlot{
				Day:        day,
				MealNumber: meal,
				MealType:   recipe.MealTypeLunch,
				Recipe: recipe.Recipe{
					ID:        uuid.New(),
					Name:      "Grain Bowl",
					Nutrition: recipe.NutritionInfo{Calories: 550, Protein: 40, Carbs: 45, Fat: 20},
					Servings:  1,
					MealTypes: []recipe.MealType{recipe.MealTypeLunch},
				},
			})
		}
	}
	return plan
}

func TestValidateRequiresCompletePlans(t *testing.T) {
	assert.NoError(t, completePlan(3, 3).Validate())

	noDays := completePlan(3, 3)
	noDays.Days = 0
	assert.ErrorIs(t, noDays.Validate(), ErrInvalidDayCount)

	noMeals := completePlan(3, 3)
	noMeals.MealsPerDay = 0
	assert.ErrorIs(t, noMeals.Validate(), ErrInvalidMealsPerDay)

	missingSlot := completePlan(3, 3)
	missingSlot.Meals = missingSlot.Meals[:8]
	assert.ErrorIs(t, missingSlot.Validate(), ErrIncompletePlan)
}

func TestValidateRejectsOutOfRangeSlots(t *testing.T) {
	badDay := completePlan(2, 2)
	badDay.Meals[0].Day = 5
	assert.ErrorIs(t, badDay.Validate(), ErrSlotOutOfRange)

	badMeal := completePlan(2, 2)
	badMeal.Meals[3].MealNumber = 0
	assert.ErrorIs(t, badMeal.Validate(), ErrSlotOutOfRange)
}

func TestDailyAverageNutrition(t *testing.T) {
	plan := completePlan(2, 2)

	avg := plan.DailyAverageNutrition()

	assert.InDelta(t, 1100, avg.Calories, 0.001)
	assert.InDelta(t, 80, avg.Protein, 0.001)
	assert.InDelta(t, 90, avg.Carbs, 0.001)
	assert.InDelta(t, 40, avg.Fat, 0.001)

	assert.Equal(t, DailyNutrition{}, MealPlan{}.DailyAverageNutrition())
}

func TestSlotIndex(t *testing.T) {
	plan := completePlan(3, 2)

	idx, ok := plan.SlotIndex(1, 2)
	require.True(t, ok)
	assert.Equal(t, 3, idx)

	_, ok = plan.SlotIndex(3, 1)
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	base := completePlan(2, 2)
	base.Timing = &WorkoutTiming{PreWorkoutMealNumber: 1, PostWorkoutMealNumber: 2}

	clone := base.Clone()
	clone.Meals[0].Recipe.Name = "Replaced"
	clone.Timing.PreWorkoutMealNumber = 9

	assert.Equal(t, "Grain Bowl", base.Meals[0].Recipe.Name)
	assert.Equal(t, 1, base.Timing.PreWorkoutMealNumber)
}

func TestVariationApplySubstitutesAndTagsResult(t *testing.T) {
	base := completePlan(2, 2)
	substitute := recipe.Recipe{ID: uuid.New(), Name: "Seasonal Swap"}

	v := Variation{
		BaseID:      base.ID,
		VariationID: uuid.New(),
		Kind:        VariationSeasonal,
		Changes: []VariationChange{
			{Day: 0, MealNumber: 2, OriginalRecipe: base.Meals[1].Recipe, NewRecipe: substitute},
			{Day: 9, MealNumber: 1, NewRecipe: substitute}, // outside the plan, silently skipped
		},
	}

	out := v.Apply(base)

	assert.Equal(t, "Seasonal Swap", out.Meals[1].Recipe.Name)
	assert.Equal(t, "Grain Bowl", base.Meals[1].Recipe.Name)
	require.NotNil(t, out.VariationMetadata)
	assert.Equal(t, v.VariationID, out.VariationMetadata.VariationID)
	assert.Equal(t, VariationSeasonal, out.VariationMetadata.Kind)
	assert.Equal(t, 2, out.VariationMetadata.Changes)
	assert.Nil(t, base.VariationMetadata)
}
