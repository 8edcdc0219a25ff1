// Package nutrition provides the constraint-driven meal plan optimizer.
//
// Optimization is greedy local improvement, not a solver: for the worst
// macro violation it scans approved same-meal-type candidates, commits
// the best substitution that does not push any satisfied macro out of
// bounds, and repeats under a bounded iteration count. A committed swap
// never lowers the plan score, so the optimized score is always at
// least the original score.
package nutrition

import (
	"context"
	"fmt"
	"sort"

	"github.com/fitplate/engine/internal/domain/mealplan"
	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/fitplate/engine/internal/ports/inbound"
	"github.com/fitplate/engine/internal/ports/outbound"
	"github.com/fitplate/engine/pkg/errors"
	"go.uber.org/zap"
)

const defaultMaxPasses = 24

// Optimizer implements the nutrition optimization use cases.
type Optimizer struct {
	catalog   outbound.RecipeCatalog
	maxPasses int
	logger    *zap.Logger
}

// NewOptimizer creates a nutrition optimizer. maxPasses bounds the
// substitution loop; zero selects the default.
func NewOptimizer(catalog outbound.RecipeCatalog, maxPasses int, logger *zap.Logger) inbound.NutritionOptimizer {
	if maxPasses <= 0 {
		maxPasses = defaultMaxPasses
	}
	return &Optimizer{
		catalog:   catalog,
		maxPasses: maxPasses,
		logger:    logger.Named("nutrition-optimizer"),
	}
}

// macro identifies one of the four optimized aggregates.
type macro int

const (
	macroCalories macro = iota
	macroProtein
	macroCarbs
	macroFat
)

func (m macro) String() string {
	switch m {
	case macroCalories:
		return "calories"
	case macroProtein:
		return "protein"
	case macroCarbs:
		return "carbs"
	default:
		return "fat"
	}
}

// violation is one macro outside its bound.
type violation struct {
	macro    macro
	distance float64
	excess   bool // true when above max, false when below min
}

// OptimizeMealPlanNutrition refines the plan against the constraint
// set. Invalid constraints or a structurally invalid plan are the only
// conditions rejected up front; catalog failures degrade to "no
// candidate found" for the affected slots.
func (o *Optimizer) OptimizeMealPlanNutrition(ctx context.Context, plan mealplan.MealPlan, constraints mealplan.ConstraintSet) (*inbound.OptimizationResult, error) {
	if err := constraints.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := plan.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	working := plan.Clone()
	originalScore := constraints.Score(working.DailyAverageNutrition())

	candidates := newCandidatePool(o.catalog, o.logger)
	var changes []inbound.OptimizationChange

	currentScore := originalScore
	for pass := 0; pass < o.maxPasses; pass++ {
		nutrition := working.DailyAverageNutrition()
		violations := listViolations(constraints, nutrition)
		if len(violations) == 0 {
			break
		}

		change, ok := o.bestSubstitution(ctx, working, constraints, violations, currentScore, candidates)
		if !ok {
			break
		}

		idx, found := working.SlotIndex(change.Day, change.MealNumber)
		if !found {
			break
		}
		working.Meals[idx].Recipe = change.NewRecipe
		changes = append(changes, change)
		currentScore = constraints.Score(working.DailyAverageNutrition())
	}

	finalNutrition := working.DailyAverageNutrition()
	optimizedScore := constraints.Score(finalNutrition)
	if optimizedScore < originalScore {
		// Defensive: commits only happen on improvement, so this
		// cannot fire unless the scoring model changes.
		optimizedScore = originalScore
	}

	result := &inbound.OptimizationResult{
		Success:               constraints.Satisfied(finalNutrition),
		OriginalScore:         originalScore,
		OptimizedScore:        optimizedScore,
		ImprovementPercentage: improvementPercentage(originalScore, optimizedScore),
		Changes:               changes,
		FinalNutrition:        finalNutrition,
		Plan:                  working,
	}

	o.logger.Info("Meal plan optimization finished",
		zap.String("plan_id", plan.ID.String()),
		zap.Bool("success", result.Success),
		zap.Float64("original_score", originalScore),
		zap.Float64("optimized_score", optimizedScore),
		zap.Int("changes", len(changes)),
	)
	return result, nil
}

// bestSubstitution finds the single best slot substitution for the
// worst remaining violation. Returns false when no candidate improves
// the plan without worsening a satisfied macro.
func (o *Optimizer) bestSubstitution(
	ctx context.Context,
	plan mealplan.MealPlan,
	constraints mealplan.ConstraintSet,
	violations []violation,
	currentScore float64,
	candidates *candidatePool,
) (inbound.OptimizationChange, bool) {
	nutrition := plan.DailyAverageNutrition()
	days := float64(plan.Days)

	for _, v := range violations {
		var (
			best      inbound.OptimizationChange
			bestScore = currentScore
			found     bool
		)
		for _, slot := range plan.Meals {
			pool := candidates.forMealType(ctx, slot.MealType)
			for _, cand := range pool {
				if cand.ID == slot.Recipe.ID {
					continue
				}
				adjusted := applySwap(nutrition, slot.Recipe.Nutrition, cand.Nutrition, days)
				if !reducesViolation(constraints, v, nutrition, adjusted) {
					continue
				}
				if worsensSatisfiedMacro(constraints, nutrition, adjusted) {
					continue
				}
				score := constraints.Score(adjusted)
				if score > bestScore {
					bestScore = score
					found = true
					best = inbound.OptimizationChange{
						Day:        slot.Day,
						MealNumber: slot.MealNumber,
						OldRecipe:  slot.Recipe,
						NewRecipe:  cand,
						Reason:     swapReason(v),
					}
				}
			}
		}
		if found {
			return best, true
		}
	}
	return inbound.OptimizationChange{}, false
}

// GenerateOptimizationReport renders a deterministic textual report of
// an optimizer run. Formatting only.
func (o *Optimizer) GenerateOptimizationReport(result *inbound.OptimizationResult) string {
	if result == nil {
		return "no optimization result"
	}

	status := "constraints not fully satisfied"
	if result.Success {
		status = "all constraints satisfied"
	}

	report := fmt.Sprintf("Nutrition Optimization Report\n"+
		"Status: %s\n"+
		"Score: %.3f -> %.3f (%.1f%% improvement)\n"+
		"Final daily nutrition: %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n",
		status,
		result.OriginalScore,
		result.OptimizedScore,
		result.ImprovementPercentage,
		result.FinalNutrition.Calories,
		result.FinalNutrition.Protein,
		result.FinalNutrition.Carbs,
		result.FinalNutrition.Fat,
	)

	if len(result.Changes) == 0 {
		return report + "No substitutions were required.\n"
	}

	report += fmt.Sprintf("Substitutions (%d):\n", len(result.Changes))
	for i, change := range result.Changes {
		report += fmt.Sprintf("  %d. day %d meal %d: %q -> %q (%s)\n",
			i+1, change.Day+1, change.MealNumber,
			change.OldRecipe.Name, change.NewRecipe.Name, change.Reason)
	}
	return report
}

// candidatePool memoizes one catalog query per meal type per run.
// A catalog failure yields an empty pool for that meal type.
type candidatePool struct {
	catalog outbound.RecipeCatalog
	logger  *zap.Logger
	byType  map[recipe.MealType][]recipe.Recipe
}

func newCandidatePool(catalog outbound.RecipeCatalog, logger *zap.Logger) *candidatePool {
	return &candidatePool{
		catalog: catalog,
		logger:  logger,
		byType:  make(map[recipe.MealType][]recipe.Recipe),
	}
}

func (p *candidatePool) forMealType(ctx context.Context, mt recipe.MealType) []recipe.Recipe {
	if pool, ok := p.byType[mt]; ok {
		return pool
	}
	pool, err := p.catalog.Search(ctx, outbound.CatalogFilter{
		MealType:     mt,
		ApprovedOnly: true,
	})
	if err != nil {
		p.logger.Warn("Catalog unavailable during optimization",
			zap.String("meal_type", string(mt)),
			zap.Error(err),
		)
		pool = nil
	}
	p.byType[mt] = pool
	return pool
}

// listViolations returns macros outside bounds, worst first.
func listViolations(c mealplan.ConstraintSet, n mealplan.DailyNutrition) []violation {
	checks := []struct {
		macro macro
		bound mealplan.Bound
		value float64
	}{
		{macroCalories, c.Calories, n.Calories},
		{macroProtein, c.Protein, n.Protein},
		{macroCarbs, c.Carbs, n.Carbs},
		{macroFat, c.Fat, n.Fat},
	}

	var out []violation
	for _, check := range checks {
		d := check.bound.Distance(check.value)
		if d > 0 {
			out = append(out, violation{
				macro:    check.macro,
				distance: d,
				excess:   check.value > check.bound.Max,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].distance > out[j].distance
	})
	return out
}

// applySwap returns the daily nutrition after replacing old with cand
// in one slot.
func applySwap(n mealplan.DailyNutrition, old, cand recipe.NutritionInfo, days float64) mealplan.DailyNutrition {
	delta := cand.Sub(old)
	return mealplan.DailyNutrition{
		Calories: n.Calories + delta.Calories/days,
		Protein:  n.Protein + delta.Protein/days,
		Carbs:    n.Carbs + delta.Carbs/days,
		Fat:      n.Fat + delta.Fat/days,
	}
}

func macroValue(n mealplan.DailyNutrition, m macro) float64 {
	switch m {
	case macroCalories:
		return n.Calories
	case macroProtein:
		return n.Protein
	case macroCarbs:
		return n.Carbs
	default:
		return n.Fat
	}
}

func macroBound(c mealplan.ConstraintSet, m macro) mealplan.Bound {
	switch m {
	case macroCalories:
		return c.Calories
	case macroProtein:
		return c.Protein
	case macroCarbs:
		return c.Carbs
	default:
		return c.Fat
	}
}

func reducesViolation(c mealplan.ConstraintSet, v violation, before, after mealplan.DailyNutrition) bool {
	bound := macroBound(c, v.macro)
	return bound.Distance(macroValue(after, v.macro)) < bound.Distance(macroValue(before, v.macro))
}

// worsensSatisfiedMacro reports whether the swap pushes any macro that
// was inside its bound back outside.
func worsensSatisfiedMacro(c mealplan.ConstraintSet, before, after mealplan.DailyNutrition) bool {
	for _, m := range []macro{macroCalories, macroProtein, macroCarbs, macroFat} {
		bound := macroBound(c, m)
		if bound.Contains(macroValue(before, m)) && !bound.Contains(macroValue(after, m)) {
			return true
		}
	}
	return false
}

func swapReason(v violation) string {
	if v.excess {
		return fmt.Sprintf("reduce %s excess", v.macro)
	}
	return fmt.Sprintf("raise %s toward minimum", v.macro)
}

func improvementPercentage(original, optimized float64) float64 {
	if original <= 0 {
		if optimized > 0 {
			return 100
		}
		return 0
	}
	return (optimized - original) / original * 100
}
