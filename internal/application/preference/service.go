// Package preference provides the application layer that learns a
// customer taste profile from rated meal-plan history and scores
// candidate recipes against it.
//
// Profile construction is a fold over the full bounded history, never
// an incremental patch, so rebuilding is idempotent and side-effect
// free. A customer with no history yields a nil profile: the valid
// cold start state, not an error.
package preference

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fitplate/engine/internal/domain/preference"
	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/fitplate/engine/internal/ports/inbound"
	"github.com/fitplate/engine/internal/ports/outbound"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20

	// Weights for the recipe fit blend.
	ingredientWeight = 0.5
	cuisineWeight    = 0.3
	focusWeight      = 0.2

	neutralScore = 0.5

	// Repetition count at which a learned preference reaches full
	// confidence.
	fullConfidenceCount = 5
)

// Service implements the preference model use cases.
type Service struct {
	history      outbound.PlanHistoryStore
	historyLimit int
	logger       *zap.Logger
}

// NewService creates a preference service.
func NewService(history outbound.PlanHistoryStore, historyLimit int, logger *zap.Logger) inbound.PreferenceService {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &Service{
		history:      history,
		historyLimit: historyLimit,
		logger:       logger.Named("preference-service"),
	}
}

// GetCustomerPreferences folds the customer's rated plan history into a
// fresh profile. Returns nil (no error) for customers with no history,
// and degrades to nil when the history store is unavailable.
func (s *Service) GetCustomerPreferences(ctx context.Context, customerID uuid.UUID) (*preference.Profile, error) {
	rated, err := s.history.RatedPlans(ctx, customerID, s.historyLimit)
	if err != nil {
		s.logger.Warn("Plan history unavailable, treating customer as cold start",
			zap.String("customer_id", customerID.String()),
			zap.Error(err),
		)
		return nil, nil
	}
	if len(rated) == 0 {
		return nil, nil
	}

	profile := foldHistory(customerID, rated)

	s.logger.Debug("Preference profile rebuilt",
		zap.String("customer_id", customerID.String()),
		zap.Int("plans_rated", profile.Learning.PlansRated),
		zap.Float64("preference_score", profile.PreferenceScore),
	)
	return profile, nil
}

// ScoreRecipeForCustomer returns a fit score in [0,1]: a weighted blend
// of ingredient overlap, cuisine overlap and nutritional-focus
// alignment. A nil profile scores every recipe neutrally.
func (s *Service) ScoreRecipeForCustomer(r recipe.Recipe, profile *preference.Profile) float64 {
	if profile == nil {
		return neutralScore
	}

	score := ingredientWeight*ingredientComponent(r, profile) +
		cuisineWeight*cuisineComponent(r, profile) +
		focusWeight*focusComponent(r, profile)
	return clamp01(score)
}

// GeneratePreferenceAnalysis produces the human-oriented profile
// summary. Pure projection: no side effects, no new information.
func (s *Service) GeneratePreferenceAnalysis(profile *preference.Profile) preference.Analysis {
	if profile == nil {
		return preference.Analysis{CookingProfile: "no rating history yet"}
	}

	analysis := preference.Analysis{
		RecommendationStrength: profile.PreferenceScore,
	}

	type namedPref struct {
		name       string
		label      preference.Label
		confidence float64
	}
	var strong []namedPref
	for name, pref := range profile.IngredientPreferences {
		if pref.Label == preference.LabelNeutral || pref.Confidence < 0.4 {
			continue
		}
		strong = append(strong, namedPref{name, pref.Label, pref.Confidence})
	}
	sort.Slice(strong, func(i, j int) bool {
		if strong[i].confidence != strong[j].confidence {
			return strong[i].confidence > strong[j].confidence
		}
		return strong[i].name < strong[j].name
	})
	for _, p := range strong {
		analysis.StrongPreferences = append(analysis.StrongPreferences,
			fmt.Sprintf("%ss %s (confidence %.0f%%)", p.label, p.name, p.confidence*100))
	}

	var cuisines []string
	for cuisine, pref := range profile.CuisinePreferences {
		if pref.Label == preference.LabelLove || pref.Label == preference.LabelLike {
			cuisines = append(cuisines, string(cuisine))
		}
	}
	sort.Strings(cuisines)
	analysis.CuisineProfile = cuisines

	type namedFocus struct {
		focus      preference.Focus
		importance float64
	}
	var focuses []namedFocus
	for focus, pref := range profile.NutritionalFocus {
		focuses = append(focuses, namedFocus{focus, pref.Importance})
	}
	sort.Slice(focuses, func(i, j int) bool {
		if focuses[i].importance != focuses[j].importance {
			return focuses[i].importance > focuses[j].importance
		}
		return focuses[i].focus < focuses[j].focus
	})
	for _, f := range focuses {
		analysis.NutritionalPriorities = append(analysis.NutritionalPriorities,
			fmt.Sprintf("%s (importance %.0f%%)", strings.ReplaceAll(string(f.focus), "_", " "), f.importance*100))
	}

	analysis.CookingProfile = fmt.Sprintf(
		"%s cook, up to %s prep and %s cooking per meal, %d batch-cook sessions per week",
		profile.Cooking.SkillLevel,
		profile.Cooking.MaxPrepTime,
		profile.Cooking.MaxCookTime,
		profile.Cooking.BatchCookPerWeek,
	)
	return analysis
}

// foldHistory rebuilds the profile from scratch out of rated plans.
func foldHistory(customerID uuid.UUID, rated []outbound.RatedPlan) *preference.Profile {
	type acc struct {
		sum   float64
		count int
	}
	ingredients := make(map[string]*acc)
	cuisines := make(map[recipe.CuisineType]*acc)

	var (
		ratingSum     float64
		ratings       []float64
		likedRecipes  int
		totalTimeSum  time.Duration
		difficultySum int
		recipeCount   int
	)
	var proteinRatioSum, carbRatioSum, fatRatioSum float64

	for _, rp := range rated {
		// Center the rating so 3 stars is neutral: 5 -> +1, 1 -> -1.
		weight := (rp.Rating - 3) / 2
		ratingSum += rp.Rating
		ratings = append(ratings, rp.Rating)

		for _, slot := range rp.Plan.Meals {
			r := slot.Recipe
			recipeCount++
			totalTimeSum += r.TotalTime()
			difficultySum += r.Difficulty.Rank()

			for _, name := range r.IngredientNames() {
				a := ingredients[name]
				if a == nil {
					a = &acc{}
					ingredients[name] = a
				}
				a.sum += weight
				a.count++
			}

			if r.Cuisine != "" {
				a := cuisines[r.Cuisine]
				if a == nil {
					a = &acc{}
					cuisines[r.Cuisine] = a
				}
				a.sum += weight
				a.count++
			}

			if rp.Rating >= 4 {
				likedRecipes++
				p, c, f := macroCalorieRatios(r.Nutrition)
				proteinRatioSum += p
				carbRatioSum += c
				fatRatioSum += f
			}
		}
	}

	profile := &preference.Profile{
		CustomerID:            customerID,
		IngredientPreferences: make(map[string]preference.IngredientPreference, len(ingredients)),
		CuisinePreferences:    make(map[recipe.CuisineType]preference.CuisinePreference, len(cuisines)),
		NutritionalFocus:      make(map[preference.Focus]preference.FocusPreference),
		DietaryRestrictions:   []string{},
		Allergies:             []string{},
		Intolerances:          []string{},
		LastUpdated:           time.Now(),
	}

	for name, a := range ingredients {
		profile.IngredientPreferences[name] = preference.IngredientPreference{
			Label:      labelFor(a.sum / float64(a.count)),
			Confidence: confidenceFor(a.count),
		}
	}
	for cuisine, a := range cuisines {
		profile.CuisinePreferences[cuisine] = preference.CuisinePreference{
			Label:      labelFor(a.sum / float64(a.count)),
			Confidence: confidenceFor(a.count),
		}
	}

	if likedRecipes > 0 {
		n := float64(likedRecipes)
		focusConfidence := math.Min(1, n/10)
		pr, cr, fr := proteinRatioSum/n, carbRatioSum/n, fatRatioSum/n
		switch {
		case pr >= 0.30:
			profile.NutritionalFocus[preference.FocusHighProtein] = preference.FocusPreference{
				Importance: math.Min(1, pr/0.45),
				Confidence: focusConfidence,
			}
		case cr <= 0.35:
			profile.NutritionalFocus[preference.FocusLowCarb] = preference.FocusPreference{
				Importance: math.Min(1, (0.35-cr)/0.35+0.5),
				Confidence: focusConfidence,
			}
		case fr <= 0.20:
			profile.NutritionalFocus[preference.FocusLowFat] = preference.FocusPreference{
				Importance: math.Min(1, (0.20-fr)/0.20+0.5),
				Confidence: focusConfidence,
			}
		default:
			profile.NutritionalFocus[preference.FocusBalanced] = preference.FocusPreference{
				Importance: 0.5,
				Confidence: focusConfidence,
			}
		}
	}

	plansRated := len(rated)
	avgRating := ratingSum / float64(plansRated)
	consistency := ratingConsistency(ratings)
	stability := math.Min(1, float64(plansRated)/10)

	profile.Learning = preference.LearningMetrics{
		PlansRated:        plansRated,
		AverageRating:     avgRating,
		RatingConsistency: consistency,
		EngagementLevel:   engagementLevel(plansRated),
		ProfileStability:  stability,
	}
	profile.Cooking = cookingPreferences(recipeCount, totalTimeSum, difficultySum)
	profile.PreferenceScore = clamp01(0.5*(avgRating/5) + 0.3*consistency + 0.2*stability)

	return profile
}

func ingredientComponent(r recipe.Recipe, profile *preference.Profile) float64 {
	var sum float64
	var n int
	for _, name := range r.IngredientNames() {
		pref, ok := profile.IngredientPreferences[name]
		if !ok {
			continue
		}
		sum += pref.Label.Weight() * pref.Confidence
		n++
	}
	if n == 0 {
		return neutralScore
	}
	return clamp01(neutralScore + neutralScore*(sum/float64(n)))
}

func cuisineComponent(r recipe.Recipe, profile *preference.Profile) float64 {
	pref, ok := profile.CuisinePreferences[r.Cuisine]
	if !ok {
		return neutralScore
	}
	return clamp01(neutralScore + neutralScore*pref.Label.Weight()*pref.Confidence)
}

func focusComponent(r recipe.Recipe, profile *preference.Profile) float64 {
	if len(profile.NutritionalFocus) == 0 {
		return neutralScore
	}
	pr, cr, fr := macroCalorieRatios(r.Nutrition)

	var weighted, weights float64
	for focus, pref := range profile.NutritionalFocus {
		var alignment float64
		switch focus {
		case preference.FocusHighProtein:
			alignment = math.Min(1, pr/0.30)
		case preference.FocusLowCarb:
			if cr <= 0.35 {
				alignment = 1
			} else {
				alignment = 0.35 / cr
			}
		case preference.FocusLowFat:
			if fr <= 0.20 {
				alignment = 1
			} else {
				alignment = 0.20 / fr
			}
		default: // balanced
			alignment = 1 - math.Abs(pr-0.25) - math.Abs(cr-0.45)/2
			alignment = clamp01(alignment)
		}
		w := pref.Importance * pref.Confidence
		weighted += alignment * w
		weights += w
	}
	if weights == 0 {
		return neutralScore
	}
	return clamp01(weighted / weights)
}

// macroCalorieRatios converts per-serving macros to calorie share
// ratios (protein and carbs 4 kcal/g, fat 9 kcal/g).
func macroCalorieRatios(n recipe.NutritionInfo) (protein, carbs, fat float64) {
	pCal := n.Protein * 4
	cCal := n.Carbs * 4
	fCal := n.Fat * 9
	total := pCal + cCal + fCal
	if total <= 0 {
		return 0, 0, 0
	}
	return pCal / total, cCal / total, fCal / total
}

func labelFor(avgWeight float64) preference.Label {
	switch {
	case avgWeight >= 0.75:
		return preference.LabelLove
	case avgWeight >= 0.25:
		return preference.LabelLike
	case avgWeight > -0.25:
		return preference.LabelNeutral
	default:
		return preference.LabelDislike
	}
}

func confidenceFor(count int) float64 {
	return math.Min(1, float64(count)/fullConfidenceCount)
}

func ratingConsistency(ratings []float64) float64 {
	if len(ratings) < 2 {
		return 1
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	mean := sum / float64(len(ratings))
	var variance float64
	for _, r := range ratings {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(ratings))
	// Ratings live on a 1..5 scale; a stddev of 2 is as inconsistent
	// as real histories get.
	return clamp01(1 - math.Sqrt(variance)/2)
}

func engagementLevel(plansRated int) string {
	switch {
	case plansRated >= 8:
		return "high"
	case plansRated >= 3:
		return "moderate"
	default:
		return "low"
	}
}

func cookingPreferences(recipeCount int, totalTime time.Duration, difficultySum int) preference.CookingPreferences {
	prefs := preference.CookingPreferences{
		SkillLevel:       preference.SkillIntermediate,
		MaxPrepTime:      30 * time.Minute,
		MaxCookTime:      45 * time.Minute,
		BatchCookPerWeek: 2,
	}
	if recipeCount == 0 {
		return prefs
	}
	avgTime := totalTime / time.Duration(recipeCount)
	prefs.MaxPrepTime = avgTime / 2
	prefs.MaxCookTime = avgTime
	avgDifficulty := float64(difficultySum) / float64(recipeCount)
	switch {
	case avgDifficulty >= 1.5:
		prefs.SkillLevel = preference.SkillAdvanced
	case avgDifficulty < 0.5:
		prefs.SkillLevel = preference.SkillBeginner
	}
	return prefs
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
