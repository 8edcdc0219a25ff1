package nutrition

import (
	"context"
	"errors"
	"testing"

	"github.com/fitplate/engine/internal/domain/mealplan"
	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/fitplate/engine/internal/infrastructure/persistence/memory"
	"github.com/fitplate/engine/internal/ports/outbound"
	apperrors "github.com/fitplate/engine/pkg/errors"
	"github.com/fitplate/engine/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingCatalog struct{}

func (failingCatalog) Search(ctx context.Context, filter outbound.CatalogFilter) ([]recipe.Recipe, error) {
	return nil, errors.New("catalog down")
}

func newOptimizer(catalog outbound.RecipeCatalog) *Optimizer {
	return NewOptimizer(catalog, 0, zap.NewNop()).(*Optimizer)
}

// looseConstraints accepts anything non-negative.
func looseConstraints() mealplan.ConstraintSet {
	return mealplan.ConstraintSet{
		Calories: mealplan.Bound{Min: 0, Max: 100000},
		Protein:  mealplan.Bound{Min: 0, Max: 10000},
		Carbs:    mealplan.Bound{Min: 0, Max: 10000},
		Fat:      mealplan.Bound{Min: 0, Max: 10000},
	}
}

func TestOptimizeRejectsInvertedBound(t *testing.T) {
	opt := newOptimizer(memory.NewRecipeCatalog())
	plan := testutils.NewMealPlanBuilder().Build()
	constraints := looseConstraints()
	constraints.Protein = mealplan.Bound{Min: 200, Max: 100}

	result, err := opt.OptimizeMealPlanNutrition(context.Background(), plan, constraints)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.GetCode(err))
}

func TestOptimizeRejectsIncompletePlan(t *testing.T) {
	opt := newOptimizer(memory.NewRecipeCatalog())
	plan := testutils.NewMealPlanBuilder().Build()
	plan.Meals = plan.Meals[:len(plan.Meals)-1]

	_, err := opt.OptimizeMealPlanNutrition(context.Background(), plan, looseConstraints())

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, apperrors.GetCode(err))
}

func TestOptimizeSatisfiedPlanNeedsNoChanges(t *testing.T) {
	opt := newOptimizer(memory.NewRecipeCatalog())
	plan := testutils.NewMealPlanBuilder().Build()

	result, err := opt.OptimizeMealPlanNutrition(context.Background(), plan, looseConstraints())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, result.Changes)
	assert.Equal(t, result.OriginalScore, result.OptimizedScore)
	assert.Equal(t, 1.0, result.OptimizedScore)
	assert.Contains(t, opt.GenerateOptimizationReport(result), "No substitutions")
}

func TestOptimizeSubstitutesTowardProteinBound(t *testing.T) {
	lowProtein := testutils.NewRecipeBuilder().
		WithName("Plain Pasta").
		WithMealTypes(recipe.MealTypeDinner).
		WithNutrition(recipe.NutritionInfo{Calories: 600, Protein: 15, Carbs: 100, Fat: 12}).
		Build()
	highProtein := testutils.NewRecipeBuilder().
		WithName("Steak and Greens").
		WithMealTypes(recipe.MealTypeDinner).
		WithNutrition(recipe.NutritionInfo{Calories: 620, Protein: 55, Carbs: 20, Fat: 30}).
		Build()

	catalog := memory.NewRecipeCatalog()
	catalog.AddAll([]recipe.Recipe{lowProtein, highProtein})

	plan := mealplan.MealPlan{
		Days:        1,
		MealsPerDay: 1,
		Meals: []mealplan.MealSlot{{
			Day: 0, MealNumber: 1, MealType: recipe.MealTypeDinner, Recipe: lowProtein,
		}},
	}
	constraints := mealplan.ConstraintSet{
		Calories: mealplan.Bound{Min: 400, Max: 800},
		Protein:  mealplan.Bound{Min: 50, Max: 80},
		Carbs:    mealplan.Bound{Min: 0, Max: 120},
		Fat:      mealplan.Bound{Min: 0, Max: 60},
	}

	result, err := newOptimizer(catalog).OptimizeMealPlanNutrition(context.Background(), plan, constraints)

	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, "Steak and Greens", result.Changes[0].NewRecipe.Name)
	assert.GreaterOrEqual(t, result.OptimizedScore, result.OriginalScore)
	assert.Greater(t, result.ImprovementPercentage, 0.0)

	// The input plan is never mutated.
	assert.Equal(t, "Plain Pasta", plan.Meals[0].Recipe.Name)
	assert.Equal(t, "Steak and Greens", result.Plan.Meals[0].Recipe.Name)
}

func TestOptimizeNeverCommitsScoreLoweringSwap(t *testing.T) {
	// The only alternative recipe makes every macro worse, so no swap
	// may be committed even though a violation exists.
	base := testutils.NewRecipeBuilder().
		WithName("Base").
		WithMealTypes(recipe.MealTypeLunch).
		WithNutrition(recipe.NutritionInfo{Calories: 900, Protein: 30, Carbs: 80, Fat: 40}).
		Build()
	worse := testutils.NewRecipeBuilder().
		WithName("Worse").
		WithMealTypes(recipe.MealTypeLunch).
		WithNutrition(recipe.NutritionInfo{Calories: 1400, Protein: 20, Carbs: 150, Fat: 70}).
		Build()

	catalog := memory.NewRecipeCatalog()
	catalog.AddAll([]recipe.Recipe{base, worse})

	plan := mealplan.MealPlan{
		Days:        1,
		MealsPerDay: 1,
		Meals: []mealplan.MealSlot{{
			Day: 0, MealNumber: 1, MealType: recipe.MealTypeLunch, Recipe: base,
		}},
	}
	constraints := mealplan.ConstraintSet{
		Calories: mealplan.Bound{Min: 300, Max: 600},
		Protein:  mealplan.Bound{Min: 0, Max: 100},
		Carbs:    mealplan.Bound{Min: 0, Max: 200},
		Fat:      mealplan.Bound{Min: 0, Max: 100},
	}

	result, err := newOptimizer(catalog).OptimizeMealPlanNutrition(context.Background(), plan, constraints)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Changes)
	assert.Equal(t, result.OriginalScore, result.OptimizedScore)
}

func TestOptimizeDegradedCatalogIsNotAnError(t *testing.T) {
	plan := testutils.NewMealPlanBuilder().Build()
	constraints := mealplan.ConstraintSet{
		Calories: mealplan.Bound{Min: 0, Max: 1},
		Protein:  mealplan.Bound{Min: 0, Max: 10000},
		Carbs:    mealplan.Bound{Min: 0, Max: 10000},
		Fat:      mealplan.Bound{Min: 0, Max: 10000},
	}

	result, err := newOptimizer(failingCatalog{}).OptimizeMealPlanNutrition(context.Background(), plan, constraints)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Changes)
	assert.Equal(t, result.OriginalScore, result.OptimizedScore)
}

func TestReportIsDeterministic(t *testing.T) {
	opt := newOptimizer(memory.NewRecipeCatalog())
	plan := testutils.NewMealPlanBuilder().Build()

	result, err := opt.OptimizeMealPlanNutrition(context.Background(), plan, looseConstraints())
	require.NoError(t, err)

	assert.Equal(t, opt.GenerateOptimizationReport(result), opt.GenerateOptimizationReport(result))
	assert.Equal(t, "no optimization result", opt.GenerateOptimizationReport(nil))
}
