package recipe

import "errors"

// Value objects shared across the planning and scoring services.

// Ingredient is a single line of a recipe's ingredient list.
type Ingredient struct {
	Name   string
	Amount float64
	Unit   string
}

// Validate validates the ingredient.
func (i Ingredient) Validate() error {
	if i.Name == "" {
		return errors.New("ingredient name is required")
	}
	if i.Amount < 0 {
		return errors.New("ingredient amount cannot be negative")
	}
	return nil
}

// NutritionInfo contains per-serving macro nutrition.
type NutritionInfo struct {
	Calories float64
	Protein  float64 // grams
	Carbs    float64 // grams
	Fat      float64 // grams
}

// Add returns the component-wise sum.
func (n NutritionInfo) Add(o NutritionInfo) NutritionInfo {
	return NutritionInfo{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Carbs:    n.Carbs + o.Carbs,
		Fat:      n.Fat + o.Fat,
	}
}

// Sub returns the component-wise difference n - o.
func (n NutritionInfo) Sub(o NutritionInfo) NutritionInfo {
	return NutritionInfo{
		Calories: n.Calories - o.Calories,
		Protein:  n.Protein - o.Protein,
		Carbs:    n.Carbs - o.Carbs,
		Fat:      n.Fat - o.Fat,
	}
}

// MealType represents the slot kind a recipe can fill.
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// CuisineType represents different cuisine types.
type CuisineType string

const (
	CuisineItalian       CuisineType = "italian"
	CuisineFrench        CuisineType = "french"
	CuisineChinese       CuisineType = "chinese"
	CuisineJapanese      CuisineType = "japanese"
	CuisineIndian        CuisineType = "indian"
	CuisineMexican       CuisineType = "mexican"
	CuisineAmerican      CuisineType = "american"
	CuisineMediterranean CuisineType = "mediterranean"
	CuisineThai          CuisineType = "thai"
	CuisineOther         CuisineType = "other"
)

// DifficultyLevel represents cooking difficulty.
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// Rank orders difficulty levels for progression comparisons.
// Unknown levels rank as medium.
func (d DifficultyLevel) Rank() int {
	switch d {
	case DifficultyEasy:
		return 0
	case DifficultyHard:
		return 2
	default:
		return 1
	}
}

// Season represents a seasonal alignment tag.
type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonFall   Season = "fall"
	SeasonWinter Season = "winter"
)
