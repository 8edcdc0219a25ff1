package memory

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/fitplate/engine/internal/domain/mealplan"
	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/fitplate/engine/internal/ports/outbound"
	"github.com/google/uuid"
)

// SeedDemoData fills the in-memory stores with a deterministic demo
// dataset: an approved catalog spanning all meal types, engagement
// signals for every recipe, and a short rated-plan history for the
// returned demo customer.
func SeedDemoData(catalog *RecipeCatalog, engagement *EngagementStore, history *PlanHistoryStore) uuid.UUID {
	faker := gofakeit.New(42)

	mealTypes := []recipe.MealType{
		recipe.MealTypeBreakfast,
		recipe.MealTypeLunch,
		recipe.MealTypeDinner,
		recipe.MealTypeSnack,
	}
	cuisines := []recipe.CuisineType{
		recipe.CuisineMediterranean,
		recipe.CuisineMexican,
		recipe.CuisineJapanese,
		recipe.CuisineItalian,
		recipe.CuisineIndian,
	}
	seasons := []recipe.Season{
		recipe.SeasonSpring,
		recipe.SeasonSummer,
		recipe.SeasonFall,
		recipe.SeasonWinter,
	}
	difficulties := []recipe.DifficultyLevel{
		recipe.DifficultyEasy,
		recipe.DifficultyMedium,
		recipe.DifficultyHard,
	}

	recipes := make([]recipe.Recipe, 0, 60)
	for i := 0; i < 60; i++ {
		r := recipe.Recipe{
			ID:       uuid.New(),
			Name:     faker.Adjective() + " " + faker.Dinner(),
			PrepTime: time.Duration(faker.IntRange(5, 30)) * time.Minute,
			CookTime: time.Duration(faker.IntRange(10, 60)) * time.Minute,
			Servings: 2,
			Nutrition: recipe.NutritionInfo{
				Calories: faker.Float64Range(250, 850),
				Protein:  faker.Float64Range(10, 55),
				Carbs:    faker.Float64Range(20, 95),
				Fat:      faker.Float64Range(5, 40),
			},
			MealTypes:  []recipe.MealType{mealTypes[i%len(mealTypes)]},
			Cuisine:    cuisines[i%len(cuisines)],
			Difficulty: difficulties[i%len(difficulties)],
			Seasons:    []recipe.Season{seasons[i%len(seasons)]},
			Ingredients: []recipe.Ingredient{
				{Name: faker.Vegetable(), Amount: faker.Float64Range(50, 300), Unit: "g"},
				{Name: faker.Fruit(), Amount: faker.Float64Range(30, 200), Unit: "g"},
				{Name: "olive oil", Amount: faker.Float64Range(5, 30), Unit: "ml"},
			},
			Approved:  true,
			CreatedAt: time.Now(),
		}
		if i%4 == 0 {
			r.DietaryTags = []string{"high-protein"}
		}
		recipes = append(recipes, r)
		catalog.Add(r)

		views := faker.IntRange(200, 8000)
		engagement.Record(recipe.EngagementStats{
			RecipeID:          r.ID,
			TotalViews:        views,
			TotalFavorites:    faker.IntRange(0, views/4),
			TotalShares:       faker.IntRange(0, views/8),
			AverageRating:     faker.Float64Range(2.5, 5),
			RatingCount:       faker.IntRange(0, 250),
			RecentActivity:    faker.IntRange(0, views/14),
			ShareDepth:        faker.Float64Range(1, 2.5),
			AvgEngagementTime: faker.Float64Range(45, 800),
		})
	}

	customerID := uuid.New()
	for w := 0; w < 4; w++ {
		plan := mealplan.MealPlan{
			ID:          uuid.New(),
			Name:        "History Plan",
			CustomerID:  customerID,
			FitnessGoal: mealplan.GoalMaintenance,
			Days:        3,
			MealsPerDay: 3,
			CreatedAt:   time.Now().AddDate(0, 0, -7*(4-w)),
		}
		for day := 0; day < plan.Days; day++ {
			for meal := 1; meal <= plan.MealsPerDay; meal++ {
				idx := (w*9 + day*plan.MealsPerDay + meal) % len(recipes)
				plan.Meals = append(plan.Meals, mealplan.MealSlot{
					Day:        day,
					MealNumber: meal,
					MealType:   recipes[idx].MealTypes[0],
					Recipe:     recipes[idx],
				})
			}
		}
		history.Record(customerID, outbound.RatedPlan{
			Plan:    plan,
			Rating:  float64(faker.IntRange(3, 5)),
			RatedAt: plan.CreatedAt.AddDate(0, 0, 3),
		})
	}

	return customerID
}
