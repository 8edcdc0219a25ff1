package mealplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func looseConstraints() ConstraintSet {
	return ConstraintSet{
		Calories: Bound{Min: 1800, Max: 2200},
		Protein:  Bound{Min: 100, Max: 160},
		Carbs:    Bound{Min: 150, Max: 280},
		Fat:      Bound{Min: 40, Max: 90},
	}
}

func TestBoundContainsIsInclusive(t *testing.T) {
	b := Bound{Min: 100, Max: 200}

	assert.True(t, b.Contains(100))
	assert.True(t, b.Contains(200))
	assert.True(t, b.Contains(150))
	assert.False(t, b.Contains(99.9))
	assert.False(t, b.Contains(200.1))
}

func TestBoundDistance(t *testing.T) {
	b := Bound{Min: 100, Max: 200}

	assert.Equal(t, 0.0, b.Distance(150), "values inside the bound carry no violation")
	assert.InDelta(t, 0.2, b.Distance(80), 1e-9, "shortfall measured against min")
	assert.InDelta(t, 0.25, b.Distance(250), 1e-9, "excess measured against max")
	assert.Equal(t, 1.0, b.Distance(1000), "distance saturates at 1")
}

func TestBoundDistanceWithZeroReference(t *testing.T) {
	b := Bound{Min: 0, Max: 0}

	// A zero bound still yields a finite, capped distance.
	assert.Equal(t, 1.0, b.Distance(5))
	assert.Equal(t, 0.0, b.Distance(0))
}

func TestBoundValidate(t *testing.T) {
	assert.NoError(t, Bound{Min: 1, Max: 2}.Validate())
	assert.ErrorIs(t, Bound{Min: 2, Max: 1}.Validate(), ErrInvertedBound)
	assert.ErrorIs(t, Bound{Min: -1, Max: 2}.Validate(), ErrNegativeBound)
}

func TestConstraintSetValidateChecksEveryBound(t *testing.T) {
	constraints := looseConstraints()
	assert.NoError(t, constraints.Validate())

	constraints.Fat = Bound{Min: 90, Max: 40}
	assert.ErrorIs(t, constraints.Validate(), ErrInvertedBound)
}

func TestConstraintSetScore(t *testing.T) {
	constraints := looseConstraints()

	within := DailyNutrition{Calories: 2000, Protein: 130, Carbs: 200, Fat: 60}
	assert.Equal(t, 1.0, constraints.Score(within))
	assert.True(t, constraints.Satisfied(within))

	// One macro 10% under its min: score drops by 0.10/4.
	lowProtein := within
	lowProtein.Protein = 90
	assert.InDelta(t, 1-0.1/4, constraints.Score(lowProtein), 1e-9)
	assert.False(t, constraints.Satisfied(lowProtein))

	// All four macros saturated: score clamps at zero.
	hopeless := DailyNutrition{Calories: 100000, Protein: 10000, Carbs: 10000, Fat: 10000}
	assert.Equal(t, 0.0, constraints.Score(hopeless))
}
