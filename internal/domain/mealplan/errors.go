package mealplan

import "errors"

// Domain errors for meal plans and constraint sets.

var (
	ErrInvalidDayCount    = errors.New("plan day count must be greater than 0")
	ErrInvalidMealsPerDay = errors.New("meals per day must be greater than 0")
	ErrIncompletePlan     = errors.New("plan must carry exactly days * mealsPerDay slots")
	ErrSlotOutOfRange     = errors.New("meal slot position outside plan dimensions")

	ErrInvertedBound = errors.New("constraint bound min exceeds max")
	ErrNegativeBound = errors.New("constraint bounds cannot be negative")
)
