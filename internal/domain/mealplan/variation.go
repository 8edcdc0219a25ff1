package mealplan

import (
	"time"

	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/google/uuid"
)

// VariationKind classifies how a variation reshapes its base plan.
type VariationKind string

const (
	VariationSeasonal   VariationKind = "seasonal"
	VariationCuisine    VariationKind = "cuisine"
	VariationDifficulty VariationKind = "difficulty"
)

// VariationChange records one slot substitution in a variation.
type VariationChange struct {
	Day              int
	MealNumber       int
	OriginalRecipe   recipe.Recipe
	NewRecipe        recipe.Recipe
	Reason           string
	NutritionalDelta recipe.NutritionInfo
	Confidence       float64
}

// Variation is a pure derived value over a base plan; it never mutates
// the base. Kind-dependent scores are zero for the other kinds.
type Variation struct {
	BaseID               uuid.UUID
	VariationID          uuid.UUID
	Kind                 VariationKind
	Changes              []VariationChange
	NutritionalImpact    recipe.NutritionInfo
	VarietyScore         float64
	SeasonalAlignment    float64
	CustomerFitScore     float64
	DifficultyAdjustment float64
	CreatedAt            time.Time
}

// Apply produces a new plan with the variation's substitutions applied
// and variation metadata attached. The base plan is never modified and
// the result is deterministic for the same inputs.
func (v Variation) Apply(base MealPlan) MealPlan {
	out := base.Clone()
	for _, change := range v.Changes {
		if idx, ok := out.SlotIndex(change.Day, change.MealNumber); ok {
			out.Meals[idx].Recipe = change.NewRecipe
		}
	}
	out.VariationMetadata = &VariationMetadata{
		BaseID:      v.BaseID,
		VariationID: v.VariationID,
		Kind:        v.Kind,
		Changes:     len(v.Changes),
	}
	return out
}

// RotationCycle is one scheduled application of a variation within a
// rotation plan.
type RotationCycle struct {
	StartWeek int // 1-based week the cycle begins
	Variation Variation
}

// RotationPlan sequences variations over a multi-week horizon, trading
// novelty against preference fatigue.
type RotationPlan struct {
	CustomerID          uuid.UUID
	BaseID              uuid.UUID
	HorizonWeeks        int
	Cycles              []RotationCycle
	FrequencyWeeks      int
	PredictedEngagement float64
	CreatedAt           time.Time
}
