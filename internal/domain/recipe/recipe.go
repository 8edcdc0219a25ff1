// Package recipe contains the catalog-facing recipe model shared by the
// planning, scoring and variation services. Recipes are owned by the
// catalog and treated as immutable values once approved; meal plans
// snapshot the value at assignment time.
package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recipe is the per-serving view of a catalog recipe.
type Recipe struct {
	ID          uuid.UUID
	Name        string
	Nutrition   NutritionInfo
	PrepTime    time.Duration
	CookTime    time.Duration
	Servings    int
	MealTypes   []MealType
	DietaryTags []string
	Cuisine     CuisineType
	Difficulty  DifficultyLevel
	Seasons     []Season
	Ingredients []Ingredient
	Approved    bool
	CreatedAt   time.Time
}

// Validate checks the structural invariants a catalog recipe must hold
// before it can enter any planning or scoring path.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	if r.Servings <= 0 {
		return ErrInvalidServings
	}
	if len(r.MealTypes) == 0 {
		return ErrNoMealTypes
	}
	if r.Nutrition.Calories < 0 || r.Nutrition.Protein < 0 || r.Nutrition.Carbs < 0 || r.Nutrition.Fat < 0 {
		return ErrNegativeNutrition
	}
	for _, ing := range r.Ingredients {
		if err := ing.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SupportsMealType reports whether the recipe can fill a slot of the
// given meal type.
func (r Recipe) SupportsMealType(mt MealType) bool {
	for _, t := range r.MealTypes {
		if t == mt {
			return true
		}
	}
	return false
}

// HasTag reports whether the recipe carries the dietary tag
// (case-insensitive).
func (r Recipe) HasTag(tag string) bool {
	for _, t := range r.DietaryTags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// InSeason reports whether the recipe is aligned with the given season.
// A recipe with no season tags is considered season-neutral.
func (r Recipe) InSeason(s Season) bool {
	if len(r.Seasons) == 0 {
		return true
	}
	for _, rs := range r.Seasons {
		if rs == s {
			return true
		}
	}
	return false
}

// IngredientNames returns the lowercase ingredient names in order.
func (r Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		names = append(names, strings.ToLower(ing.Name))
	}
	return names
}

// ContainsIngredient reports whether any ingredient name matches
// (case-insensitive).
func (r Recipe) ContainsIngredient(name string) bool {
	for _, ing := range r.Ingredients {
		if strings.EqualFold(ing.Name, name) {
			return true
		}
	}
	return false
}

// TotalTime returns combined prep and cook time.
func (r Recipe) TotalTime() time.Duration {
	return r.PrepTime + r.CookTime
}
