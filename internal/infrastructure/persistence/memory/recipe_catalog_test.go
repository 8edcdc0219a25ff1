package memory

import (
	"context"
	"testing"
	"time"

	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/fitplate/engine/internal/ports/outbound"
	"github.com/fitplate/engine/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchAppliesEveryFilterDimension(t *testing.T) {
	catalog := NewRecipeCatalog()
	ctx := context.Background()

	match := testutils.NewRecipeBuilder().
		WithName("Salmon Poke").
		WithMealTypes(recipe.MealTypeLunch).
		WithDietaryTags("high-protein").
		WithCuisine(recipe.CuisineJapanese).
		WithSeasons(recipe.SeasonSummer).
		WithNutrition(recipe.NutritionInfo{Calories: 520, Protein: 42, Carbs: 40, Fat: 18}).
		WithIngredients(recipe.Ingredient{Name: "salmon", Amount: 180, Unit: "g"}).
		Build()
	catalog.AddAll([]recipe.Recipe{
		match,
		testutils.NewRecipeBuilder().WithName("Unapproved Poke").WithMealTypes(recipe.MealTypeLunch).Unapproved().Build(),
		testutils.NewRecipeBuilder().WithName("Dinner Roast").WithMealTypes(recipe.MealTypeDinner).Build(),
		testutils.NewRecipeBuilder().WithName("Winter Stew").WithMealTypes(recipe.MealTypeLunch).WithSeasons(recipe.SeasonWinter).Build(),
	})

	maxCal := 600.0
	minProtein := 40.0
	found, err := catalog.Search(ctx, outbound.CatalogFilter{
		ApprovedOnly: true,
		MealType:     recipe.MealTypeLunch,
		DietaryTags:  []string{"HIGH-PROTEIN"},
		Cuisine:      recipe.CuisineJapanese,
		Season:       recipe.SeasonSummer,
		MaxCalories:  &maxCal,
		MinProtein:   &minProtein,
	})

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Salmon Poke", found[0].Name)
}

func TestSearchExcludesIngredientsAndCapsResults(t *testing.T) {
	catalog := NewRecipeCatalog()
	catalog.AddAll(testutils.NewRecipeFactory(7).Catalog(20))
	catalog.Add(testutils.NewRecipeBuilder().
		WithName("Peanut Noodles").
		WithIngredients(recipe.Ingredient{Name: "Peanuts", Amount: 50, Unit: "g"}).
		Build())

	found, err := catalog.Search(context.Background(), outbound.CatalogFilter{
		ExcludeIngredients: []string{" peanuts "},
		Limit:              5,
	})

	require.NoError(t, err)
	assert.Len(t, found, 5)
	for i := 1; i < len(found); i++ {
		assert.LessOrEqual(t, found[i-1].Name, found[i].Name, "results sorted by name")
	}
	for _, r := range found {
		assert.False(t, r.ContainsIngredient("peanuts"))
	}
}

func TestStatsWindowScalesRecentActivity(t *testing.T) {
	store := NewEngagementStore()
	id := uuid.New()
	store.Record(recipe.EngagementStats{RecipeID: id, TotalViews: 100, RecentActivity: 20})

	week, err := store.StatsWindow(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, week, 1)
	assert.Equal(t, 100, week[0].RecentActivity, "windowed activity never exceeds lifetime views")

	day, err := store.StatsWindow(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 20, day[0].RecentActivity, "window floors at one day")
}

func TestRatedPlansMostRecentFirst(t *testing.T) {
	store := NewPlanHistoryStore()
	customerID := uuid.New()
	now := time.Now()
	for i := 0; i < 4; i++ {
		store.Record(customerID, outbound.RatedPlan{
			Plan:    testutils.NewMealPlanBuilder().WithCustomer(customerID).Build(),
			Rating:  3,
			RatedAt: now.Add(time.Duration(i) * time.Hour),
		})
	}

	rated, err := store.RatedPlans(context.Background(), customerID, 3)

	require.NoError(t, err)
	require.Len(t, rated, 3)
	assert.True(t, rated[0].RatedAt.After(rated[1].RatedAt))
	assert.True(t, rated[1].RatedAt.After(rated[2].RatedAt))
}
