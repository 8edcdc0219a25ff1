package planner

import "github.com/fitplate/engine/internal/domain/mealplan"

// macroTargets are goal-derived daily targets: a calorie figure plus
// the calorie share of each macro.
type macroTargets struct {
	calories     float64
	proteinShare float64
	carbShare    float64
	fatShare     float64
}

// targetsForGoal derives daily macro targets from the fitness goal.
// A positive calorie override replaces the goal's default figure but
// keeps the goal's macro split.
func targetsForGoal(goal mealplan.FitnessGoal, calorieOverride float64) macroTargets {
	var t macroTargets
	switch goal {
	case mealplan.GoalWeightLoss:
		t = macroTargets{calories: 1800, proteinShare: 0.35, carbShare: 0.40, fatShare: 0.25}
	case mealplan.GoalMuscleGain:
		t = macroTargets{calories: 2800, proteinShare: 0.35, carbShare: 0.45, fatShare: 0.20}
	case mealplan.GoalAthleticPerformance:
		t = macroTargets{calories: 3000, proteinShare: 0.30, carbShare: 0.50, fatShare: 0.20}
	case mealplan.GoalEndurance:
		t = macroTargets{calories: 2900, proteinShare: 0.25, carbShare: 0.55, fatShare: 0.20}
	default:
		t = macroTargets{calories: 2200, proteinShare: 0.30, carbShare: 0.45, fatShare: 0.25}
	}
	if calorieOverride > 0 {
		t.calories = calorieOverride
	}
	return t
}

// progressed returns the targets for a given week of a multi-week
// horizon. The adjustment is a pure function of week index and goal:
// weight-loss targets trend down, gain-oriented targets trend up, and
// maintenance stays flat. Adjustments are capped so late weeks stay
// realistic.
func (t macroTargets) progressed(goal mealplan.FitnessGoal, weekNumber int) macroTargets {
	weeks := float64(weekNumber - 1)
	if weeks <= 0 {
		return t
	}

	factor := 1.0
	switch goal {
	case mealplan.GoalWeightLoss:
		factor = 1 - 0.02*weeks
		if factor < 0.85 {
			factor = 0.85
		}
	case mealplan.GoalMuscleGain:
		factor = 1 + 0.015*weeks
		if factor > 1.15 {
			factor = 1.15
		}
	case mealplan.GoalAthleticPerformance, mealplan.GoalEndurance:
		factor = 1 + 0.01*weeks
		if factor > 1.10 {
			factor = 1.10
		}
	}

	out := t
	out.calories = t.calories * factor
	return out
}

// constraints converts targets into the per-day bound set handed to
// the optimizer. Calories get a tight band; macro grams get a wider
// one since they trade off against each other during substitution.
func (t macroTargets) constraints() mealplan.ConstraintSet {
	proteinGrams := t.calories * t.proteinShare / 4
	carbGrams := t.calories * t.carbShare / 4
	fatGrams := t.calories * t.fatShare / 9

	return mealplan.ConstraintSet{
		Calories: mealplan.Bound{Min: t.calories * 0.95, Max: t.calories * 1.05},
		Protein:  mealplan.Bound{Min: proteinGrams * 0.85, Max: proteinGrams * 1.15},
		Carbs:    mealplan.Bound{Min: carbGrams * 0.85, Max: carbGrams * 1.15},
		Fat:      mealplan.Bound{Min: fatGrams * 0.85, Max: fatGrams * 1.15},
	}
}
