package recipe

import "errors"

// Domain errors for catalog recipes.

var (
	ErrNameRequired      = errors.New("recipe name is required")
	ErrInvalidServings   = errors.New("servings must be greater than 0")
	ErrNoMealTypes       = errors.New("recipe must declare at least one meal type")
	ErrNegativeNutrition = errors.New("nutrition values cannot be negative")
)
