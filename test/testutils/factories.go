// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/fitplate/engine/internal/domain/mealplan"
	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/google/uuid"
)

// RecipeFactory provides methods to create test recipes
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a new recipe factory with seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
	}
}

// Recipe creates a valid approved recipe with randomized fields
func (f *RecipeFactory) Recipe() recipe.Recipe {
	return NewRecipeBuilder().
		WithName(fmt.Sprintf("%s %s", f.faker.Adjective(), f.faker.Dinner())).
		WithNutrition(recipe.NutritionInfo{
			Calories: f.faker.Float64Range(250, 800),
			Protein:  f.faker.Float64Range(10, 50),
			Carbs:    f.faker.Float64Range(20, 90),
			Fat:      f.faker.Float64Range(5, 35),
		}).
		WithIngredients(
			recipe.Ingredient{Name: f.faker.Vegetable(), Amount: f.faker.Float64Range(50, 300), Unit: "g"},
			recipe.Ingredient{Name: f.faker.Fruit(), Amount: f.faker.Float64Range(50, 200), Unit: "g"},
			recipe.Ingredient{Name: "olive oil", Amount: f.faker.Float64Range(5, 30), Unit: "ml"},
		).
		Build()
}

// Catalog creates n distinct approved recipes covering all meal types
func (f *RecipeFactory) Catalog(n int) []recipe.Recipe {
	mealTypes := []recipe.MealType{
		recipe.MealTypeBreakfast,
		recipe.MealTypeLunch,
		recipe.MealTypeDinner,
		recipe.MealTypeSnack,
	}
	out := make([]recipe.Recipe, 0, n)
	for i := 0; i < n; i++ {
		r := f.Recipe()
		r.MealTypes = []recipe.MealType{mealTypes[i%len(mealTypes)]}
		out = append(out, r)
	}
	return out
}

// EngagementStats creates randomized engagement stats for a recipe
func (f *RecipeFactory) EngagementStats(recipeID uuid.UUID) recipe.EngagementStats {
	views := f.faker.IntRange(100, 5000)
	return recipe.EngagementStats{
		RecipeID:          recipeID,
		TotalViews:        views,
		TotalFavorites:    f.faker.IntRange(0, views/4),
		TotalShares:       f.faker.IntRange(0, views/10),
		AverageRating:     f.faker.Float64Range(2.5, 5),
		RatingCount:       f.faker.IntRange(0, 200),
		RecentActivity:    f.faker.IntRange(0, views/7),
		ShareDepth:        f.faker.Float64Range(1, 3),
		AvgEngagementTime: f.faker.Float64Range(30, 900),
	}
}

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	name        string
	nutrition   recipe.NutritionInfo
	prepTime    time.Duration
	cookTime    time.Duration
	servings    int
	mealTypes   []recipe.MealType
	dietaryTags []string
	cuisine     recipe.CuisineType
	difficulty  recipe.DifficultyLevel
	seasons     []recipe.Season
	ingredients []recipe.Ingredient
	approved    bool
}

// NewRecipeBuilder creates a new recipe builder with default values
func NewRecipeBuilder() *RecipeBuilder {
	return &RecipeBuilder{
		name: "Grilled Chicken Bowl",
		nutrition: recipe.NutritionInfo{
			Calories: 550,
			Protein:  40,
			Carbs:    45,
			Fat:      20,
		},
		prepTime:   15 * time.Minute,
		cookTime:   30 * time.Minute,
		servings:   2,
		mealTypes:  []recipe.MealType{recipe.MealTypeLunch, recipe.MealTypeDinner},
		cuisine:    recipe.CuisineMediterranean,
		difficulty: recipe.DifficultyMedium,
		ingredients: []recipe.Ingredient{
			{Name: "chicken breast", Amount: 200, Unit: "g"},
			{Name: "rice", Amount: 150, Unit: "g"},
		},
		approved: true,
	}
}

// WithName sets the recipe name
func (rb *RecipeBuilder) WithName(name string) *RecipeBuilder {
	rb.name = name
	return rb
}

// WithNutrition sets the per-serving nutrition
func (rb *RecipeBuilder) WithNutrition(n recipe.NutritionInfo) *RecipeBuilder {
	rb.nutrition = n
	return rb
}

// WithMealTypes sets the meal types the recipe can fill
func (rb *RecipeBuilder) WithMealTypes(types ...recipe.MealType) *RecipeBuilder {
	rb.mealTypes = types
	return rb
}

// WithDietaryTags sets the dietary tags
func (rb *RecipeBuilder) WithDietaryTags(tags ...string) *RecipeBuilder {
	rb.dietaryTags = tags
	return rb
}

// WithCuisine sets the recipe cuisine
func (rb *RecipeBuilder) WithCuisine(cuisine recipe.CuisineType) *RecipeBuilder {
	rb.cuisine = cuisine
	return rb
}

// WithDifficulty sets the recipe difficulty
func (rb *RecipeBuilder) WithDifficulty(difficulty recipe.DifficultyLevel) *RecipeBuilder {
	rb.difficulty = difficulty
	return rb
}

// WithSeasons sets the seasonal alignment tags
func (rb *RecipeBuilder) WithSeasons(seasons ...recipe.Season) *RecipeBuilder {
	rb.seasons = seasons
	return rb
}

// WithIngredients sets the ingredient list
func (rb *RecipeBuilder) WithIngredients(ingredients ...recipe.Ingredient) *RecipeBuilder {
	rb.ingredients = ingredients
	return rb
}

// WithTimings sets prep and cook time
func (rb *RecipeBuilder) WithTimings(prepTime, cookTime time.Duration) *RecipeBuilder {
	rb.prepTime = prepTime
	rb.cookTime = cookTime
	return rb
}

// Unapproved marks the recipe as not yet approved
func (rb *RecipeBuilder) Unapproved() *RecipeBuilder {
	rb.approved = false
	return rb
}

// Build constructs the recipe
func (rb *RecipeBuilder) Build() recipe.Recipe {
	return recipe.Recipe{
		ID:          uuid.New(),
		Name:        rb.name,
		Nutrition:   rb.nutrition,
		PrepTime:    rb.prepTime,
		CookTime:    rb.cookTime,
		Servings:    rb.servings,
		MealTypes:   rb.mealTypes,
		DietaryTags: rb.dietaryTags,
		Cuisine:     rb.cuisine,
		Difficulty:  rb.difficulty,
		Seasons:     rb.seasons,
		Ingredients: rb.ingredients,
		Approved:    rb.approved,
		CreatedAt:   time.Now(),
	}
}

// MealPlanBuilder provides a fluent interface for building test plans
type MealPlanBuilder struct {
	customerID  uuid.UUID
	goal        mealplan.FitnessGoal
	days        int
	mealsPerDay int
	recipes     []recipe.Recipe
}

// NewMealPlanBuilder creates a plan builder with default values
func NewMealPlanBuilder() *MealPlanBuilder {
	return &MealPlanBuilder{
		customerID:  uuid.New(),
		goal:        mealplan.GoalMaintenance,
		days:        7,
		mealsPerDay: 3,
	}
}

// WithCustomer sets the plan's customer
func (pb *MealPlanBuilder) WithCustomer(customerID uuid.UUID) *MealPlanBuilder {
	pb.customerID = customerID
	return pb
}

// WithGoal sets the fitness goal
func (pb *MealPlanBuilder) WithGoal(goal mealplan.FitnessGoal) *MealPlanBuilder {
	pb.goal = goal
	return pb
}

// WithShape sets days and meals per day
func (pb *MealPlanBuilder) WithShape(days, mealsPerDay int) *MealPlanBuilder {
	pb.days = days
	pb.mealsPerDay = mealsPerDay
	return pb
}

// WithRecipes sets the recipe pool slots rotate through
func (pb *MealPlanBuilder) WithRecipes(recipes ...recipe.Recipe) *MealPlanBuilder {
	pb.recipes = recipes
	return pb
}

// Build constructs a complete plan, cycling the recipe pool across all
// slots. With an empty pool it falls back to a default recipe.
func (pb *MealPlanBuilder) Build() mealplan.MealPlan {
	pool := pb.recipes
	if len(pool) == 0 {
		pool = []recipe.Recipe{NewRecipeBuilder().
			WithMealTypes(recipe.MealTypeBreakfast, recipe.MealTypeLunch, recipe.MealTypeDinner, recipe.MealTypeSnack).
			Build()}
	}

	mealTypes := []recipe.MealType{
		recipe.MealTypeBreakfast,
		recipe.MealTypeLunch,
		recipe.MealTypeDinner,
		recipe.MealTypeSnack,
		recipe.MealTypeSnack,
		recipe.MealTypeSnack,
	}

	plan := mealplan.MealPlan{
		ID:                 uuid.New(),
		Name:               "Test Plan",
		CustomerID:         pb.customerID,
		FitnessGoal:        pb.goal,
		DailyCalorieTarget: 2200,
		Days:               pb.days,
		MealsPerDay:        pb.mealsPerDay,
		CreatedAt:          time.Now(),
	}
	for day := 0; day < pb.days; day++ {
		for meal := 1; meal <= pb.mealsPerDay; meal++ {
			idx := day*pb.mealsPerDay + meal - 1
			plan.Meals = append(plan.Meals, mealplan.MealSlot{
				Day:        day,
				MealNumber: meal,
				MealType:   mealTypes[(meal-1)%len(mealTypes)],
				Recipe:     pool[idx%len(pool)],
			})
		}
	}
	return plan
}
