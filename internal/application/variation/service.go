// Package variation produces bounded meal plan variations (seasonal,
// cuisine, difficulty) and long-horizon rotation plans. Variations are
// pure derived values over a base plan; applying one yields a new plan
// and never touches the base.
package variation

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/fitplate/engine/internal/domain/mealplan"
	"github.com/fitplate/engine/internal/domain/preference"
	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/fitplate/engine/internal/ports/inbound"
	"github.com/fitplate/engine/internal/ports/outbound"
	"github.com/fitplate/engine/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Substitute search is bounded per slot so variation cost stays
// proportional to the candidate pool.
const candidateSearchLimit = 25

// Service implements the variation and rotation use cases.
type Service struct {
	catalog outbound.RecipeCatalog
	prefs   inbound.PreferenceService
	logger  *zap.Logger
}

// NewService creates a variation service.
func NewService(catalog outbound.RecipeCatalog, prefs inbound.PreferenceService, logger *zap.Logger) inbound.VariationService {
	return &Service{
		catalog: catalog,
		prefs:   prefs,
		logger:  logger.Named("variation-service"),
	}
}

// CreateSeasonalVariation substitutes out-of-season recipes with
// approved same-meal-type recipes aligned to the target season.
func (s *Service) CreateSeasonalVariation(ctx context.Context, plan mealplan.MealPlan, season recipe.Season) (*mealplan.Variation, error) {
	if err := plan.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	v := s.buildVariation(ctx, plan, mealplan.VariationSeasonal,
		func(r recipe.Recipe) bool { return r.InSeason(season) },
		func(mt recipe.MealType) outbound.CatalogFilter {
			return outbound.CatalogFilter{MealType: mt, Season: season, ApprovedOnly: true, Limit: candidateSearchLimit}
		},
		func(r recipe.Recipe) string { return fmt.Sprintf("align with %s produce", season) },
	)

	applied := v.Apply(plan)
	v.SeasonalAlignment = seasonalAlignment(applied, season)
	v.VarietyScore = varietyScore(applied)
	return v, nil
}

// CreateCuisineVariation substitutes recipes outside the target
// cuisine and scores the result against the customer's profile.
func (s *Service) CreateCuisineVariation(ctx context.Context, plan mealplan.MealPlan, cuisine recipe.CuisineType) (*mealplan.Variation, error) {
	if err := plan.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	v := s.buildVariation(ctx, plan, mealplan.VariationCuisine,
		func(r recipe.Recipe) bool { return r.Cuisine == cuisine },
		func(mt recipe.MealType) outbound.CatalogFilter {
			return outbound.CatalogFilter{MealType: mt, Cuisine: cuisine, ApprovedOnly: true, Limit: candidateSearchLimit}
		},
		func(r recipe.Recipe) string { return fmt.Sprintf("introduce %s cuisine", cuisine) },
	)

	applied := v.Apply(plan)
	v.CustomerFitScore = s.customerFit(ctx, plan.CustomerID, applied)
	v.VarietyScore = varietyScore(applied)
	return v, nil
}

// CreateDifficultyProgressionVariation moves the plan toward the
// target difficulty band one substitution at a time.
func (s *Service) CreateDifficultyProgressionVariation(ctx context.Context, plan mealplan.MealPlan, target recipe.DifficultyLevel) (*mealplan.Variation, error) {
	if err := plan.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	v := s.buildVariation(ctx, plan, mealplan.VariationDifficulty,
		func(r recipe.Recipe) bool { return r.Difficulty == target },
		func(mt recipe.MealType) outbound.CatalogFilter {
			return outbound.CatalogFilter{MealType: mt, Difficulty: target, ApprovedOnly: true, Limit: candidateSearchLimit}
		},
		func(r recipe.Recipe) string { return fmt.Sprintf("progress toward %s difficulty", target) },
	)

	applied := v.Apply(plan)
	v.DifficultyAdjustment = difficultyAdjustment(plan, applied)
	v.VarietyScore = varietyScore(applied)
	return v, nil
}

// CreateRotationPlan sequences variations over a multi-week horizon at
// a frequency that balances novelty against preference fatigue.
func (s *Service) CreateRotationPlan(ctx context.Context, customerID uuid.UUID, basePlan mealplan.MealPlan, weeks int) (*mealplan.RotationPlan, error) {
	if weeks <= 0 {
		return nil, errors.NewInvalidInputError("weeks", "rotation horizon must be greater than 0")
	}
	if err := basePlan.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	profile, _ := s.prefs.GetCustomerPreferences(ctx, customerID)
	frequency := rotationFrequency(profile)

	rotation := &mealplan.RotationPlan{
		CustomerID:     customerID,
		BaseID:         basePlan.ID,
		HorizonWeeks:   weeks,
		FrequencyWeeks: frequency,
		CreatedAt:      time.Now(),
	}

	seasons := []recipe.Season{recipe.SeasonSpring, recipe.SeasonSummer, recipe.SeasonFall, recipe.SeasonWinter}
	cuisines := rotationCuisines(profile)
	difficulties := []recipe.DifficultyLevel{recipe.DifficultyMedium, recipe.DifficultyHard}

	var varietySum float64
	cycleIdx := 0
	for week := frequency + 1; week <= weeks; week += frequency {
		var (
			v   *mealplan.Variation
			err error
		)
		switch cycleIdx % 3 {
		case 0:
			v, err = s.CreateSeasonalVariation(ctx, basePlan, seasons[cycleIdx%len(seasons)])
		case 1:
			v, err = s.CreateCuisineVariation(ctx, basePlan, cuisines[cycleIdx%len(cuisines)])
		default:
			v, err = s.CreateDifficultyProgressionVariation(ctx, basePlan, difficulties[cycleIdx%len(difficulties)])
		}
		if err != nil {
			return nil, err
		}
		rotation.Cycles = append(rotation.Cycles, mealplan.RotationCycle{StartWeek: week, Variation: *v})
		varietySum += v.VarietyScore
		cycleIdx++
	}

	rotation.PredictedEngagement = predictedEngagement(profile, rotation.Cycles, varietySum, frequency)

	s.logger.Info("Rotation plan created",
		zap.String("customer_id", customerID.String()),
		zap.Int("horizon_weeks", weeks),
		zap.Int("cycles", len(rotation.Cycles)),
		zap.Float64("predicted_engagement", rotation.PredictedEngagement),
	)
	return rotation, nil
}

// ApplyVariationToMealPlan is a pure transform: same inputs always
// produce the same output and the base plan is left unmodified.
func (s *Service) ApplyVariationToMealPlan(base mealplan.MealPlan, v mealplan.Variation) mealplan.MealPlan {
	return v.Apply(base)
}

// buildVariation walks the plan's slots and substitutes recipes that
// fail the target predicate, choosing the approved same-meal-type
// candidate with the smallest calorie disturbance. Slots with no
// viable substitute stay unchanged; catalog failures degrade the same
// way.
func (s *Service) buildVariation(
	ctx context.Context,
	plan mealplan.MealPlan,
	kind mealplan.VariationKind,
	matches func(recipe.Recipe) bool,
	filterFor func(recipe.MealType) outbound.CatalogFilter,
	reasonFor func(recipe.Recipe) string,
) *mealplan.Variation {
	v := &mealplan.Variation{
		BaseID:      plan.ID,
		VariationID: uuid.New(),
		Kind:        kind,
		CreatedAt:   time.Now(),
	}

	pools := make(map[recipe.MealType][]recipe.Recipe)
	for _, slot := range plan.Meals {
		if matches(slot.Recipe) {
			continue
		}

		pool, ok := pools[slot.MealType]
		if !ok {
			found, err := s.catalog.Search(ctx, filterFor(slot.MealType))
			if err != nil {
				s.logger.Warn("Catalog unavailable during variation, slot kept",
					zap.String("kind", string(kind)),
					zap.String("meal_type", string(slot.MealType)),
					zap.Error(err),
				)
				found = nil
			}
			pools[slot.MealType] = found
			pool = found
		}

		substitute, ok := pickSubstitute(pool, slot.Recipe, matches)
		if !ok {
			continue
		}

		delta := substitute.Nutrition.Sub(slot.Recipe.Nutrition)
		v.Changes = append(v.Changes, mealplan.VariationChange{
			Day:              slot.Day,
			MealNumber:       slot.MealNumber,
			OriginalRecipe:   slot.Recipe,
			NewRecipe:        substitute,
			Reason:           reasonFor(substitute),
			NutritionalDelta: delta,
			Confidence:       substituteConfidence(slot.Recipe, substitute),
		})
		v.NutritionalImpact = v.NutritionalImpact.Add(delta)
	}
	return v
}

// pickSubstitute chooses the matching candidate with the smallest
// calorie delta; name breaks ties so the choice is deterministic.
func pickSubstitute(pool []recipe.Recipe, original recipe.Recipe, matches func(recipe.Recipe) bool) (recipe.Recipe, bool) {
	candidates := make([]recipe.Recipe, 0, len(pool))
	for _, cand := range pool {
		if cand.ID == original.ID || !matches(cand) {
			continue
		}
		candidates = append(candidates, cand)
	}
	if len(candidates) == 0 {
		return recipe.Recipe{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		di := math.Abs(candidates[i].Nutrition.Calories - original.Nutrition.Calories)
		dj := math.Abs(candidates[j].Nutrition.Calories - original.Nutrition.Calories)
		if di != dj {
			return di < dj
		}
		return candidates[i].Name < candidates[j].Name
	})
	return candidates[0], true
}

// substituteConfidence shrinks as the substitution disturbs the slot's
// nutrition.
func substituteConfidence(original, substitute recipe.Recipe) float64 {
	if original.Nutrition.Calories <= 0 {
		return 0.5
	}
	drift := math.Abs(substitute.Nutrition.Calories-original.Nutrition.Calories) / original.Nutrition.Calories
	confidence := 1 - drift
	if confidence < 0.1 {
		confidence = 0.1
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

// varietyScore measures ingredient-set diversity across the plan's
// slots: distinct ingredients over total ingredient references.
func varietyScore(plan mealplan.MealPlan) float64 {
	distinct := make(map[string]bool)
	total := 0
	for _, slot := range plan.Meals {
		for _, name := range slot.Recipe.IngredientNames() {
			distinct[name] = true
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(len(distinct)) / float64(total)
}

func seasonalAlignment(plan mealplan.MealPlan, season recipe.Season) float64 {
	if len(plan.Meals) == 0 {
		return 0
	}
	aligned := 0
	for _, slot := range plan.Meals {
		if slot.Recipe.InSeason(season) {
			aligned++
		}
	}
	return float64(aligned) / float64(len(plan.Meals))
}

// customerFit averages the preference fit of the varied plan's recipes.
func (s *Service) customerFit(ctx context.Context, customerID uuid.UUID, plan mealplan.MealPlan) float64 {
	if len(plan.Meals) == 0 {
		return 0
	}
	profile, _ := s.prefs.GetCustomerPreferences(ctx, customerID)
	var sum float64
	for _, slot := range plan.Meals {
		sum += s.prefs.ScoreRecipeForCustomer(slot.Recipe, profile)
	}
	return sum / float64(len(plan.Meals))
}

// difficultyAdjustment reports the average difficulty rank shift from
// base to varied plan, normalized to [-1, 1].
func difficultyAdjustment(base, varied mealplan.MealPlan) float64 {
	if len(base.Meals) == 0 || len(base.Meals) != len(varied.Meals) {
		return 0
	}
	var shift int
	for i := range base.Meals {
		shift += varied.Meals[i].Recipe.Difficulty.Rank() - base.Meals[i].Recipe.Difficulty.Rank()
	}
	return float64(shift) / float64(2*len(base.Meals))
}

// rotationFrequency balances novelty against preference fatigue:
// highly engaged customers tolerate more frequent variation.
func rotationFrequency(profile *preference.Profile) int {
	if profile == nil {
		return 3
	}
	switch profile.Learning.EngagementLevel {
	case "high":
		return 2
	case "low":
		return 4
	default:
		return 3
	}
}

func rotationCuisines(profile *preference.Profile) []recipe.CuisineType {
	if profile != nil {
		var liked []recipe.CuisineType
		for cuisine, pref := range profile.CuisinePreferences {
			if pref.Label == preference.LabelLove || pref.Label == preference.LabelLike {
				liked = append(liked, cuisine)
			}
		}
		if len(liked) > 0 {
			sort.Slice(liked, func(i, j int) bool { return liked[i] < liked[j] })
			return liked
		}
	}
	return []recipe.CuisineType{recipe.CuisineMediterranean, recipe.CuisineMexican, recipe.CuisineJapanese}
}

func predictedEngagement(profile *preference.Profile, cycles []mealplan.RotationCycle, varietySum float64, frequency int) float64 {
	base := 0.5
	if profile != nil {
		base = profile.PreferenceScore
	}

	var avgVariety float64
	if len(cycles) > 0 {
		avgVariety = varietySum / float64(len(cycles))
	}

	// Shorter rotation intervals keep plans fresher, with diminishing
	// returns below two weeks.
	freshness := 1 / float64(frequency)
	if freshness > 0.5 {
		freshness = 0.5
	}

	engagement := 0.5*base + 0.3*avgVariety + 0.4*freshness
	if engagement > 1 {
		return 1
	}
	if engagement < 0 {
		return 0
	}
	return engagement
}
