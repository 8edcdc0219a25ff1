// Package preference contains the customer taste and nutrition profile
// learned from rating history. Profiles are rebuilt from the full
// bounded history on every refresh; they are never patched in place.
package preference

import (
	"time"

	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/google/uuid"
)

// Label classifies how a customer feels about an ingredient or cuisine.
type Label string

const (
	LabelLove    Label = "love"
	LabelLike    Label = "like"
	LabelNeutral Label = "neutral"
	LabelDislike Label = "dislike"
)

// Weight maps a label to its scoring contribution in [-1, 1].
func (l Label) Weight() float64 {
	switch l {
	case LabelLove:
		return 1.0
	case LabelLike:
		return 0.5
	case LabelDislike:
		return -1.0
	default:
		return 0
	}
}

// IngredientPreference is the learned stance toward one ingredient.
type IngredientPreference struct {
	Label      Label
	Confidence float64 // 0..1, grows with repetition
}

// CuisinePreference is the learned stance toward one cuisine.
type CuisinePreference struct {
	Label      Label
	Confidence float64
}

// Focus names a dominant nutritional pattern inferred from history.
type Focus string

const (
	FocusHighProtein Focus = "high_protein"
	FocusLowCarb     Focus = "low_carb"
	FocusLowFat      Focus = "low_fat"
	FocusBalanced    Focus = "balanced"
)

// FocusPreference weights a nutritional focus.
type FocusPreference struct {
	Importance float64 // 0..1
	Confidence float64 // 0..1
}

// SkillLevel is the customer's cooking skill band.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// CookingPreferences holds practical cooking constraints.
type CookingPreferences struct {
	SkillLevel       SkillLevel
	MaxPrepTime      time.Duration
	MaxCookTime      time.Duration
	BatchCookPerWeek int
}

// LearningMetrics summarizes how much signal the profile is built on.
type LearningMetrics struct {
	PlansRated        int
	AverageRating     float64 // 1..5
	RatingConsistency float64 // 0..1, 1 = perfectly consistent ratings
	EngagementLevel   string  // low, moderate, high
	ProfileStability  float64 // 0..1
}

// Profile is the full per-customer preference model. Nil profile means
// cold start: no rating history exists yet.
type Profile struct {
	CustomerID            uuid.UUID
	IngredientPreferences map[string]IngredientPreference
	CuisinePreferences    map[recipe.CuisineType]CuisinePreference
	NutritionalFocus      map[Focus]FocusPreference
	DietaryRestrictions   []string
	Allergies             []string
	Intolerances          []string
	Cooking               CookingPreferences
	Learning              LearningMetrics
	PreferenceScore       float64 // 0..1 overall recommendation strength
	LastUpdated           time.Time
}

// Analysis is a human-oriented projection of a profile. It adds no new
// information; RecommendationStrength equals the profile score.
type Analysis struct {
	StrongPreferences      []string
	CuisineProfile         []string
	NutritionalPriorities  []string
	CookingProfile         string
	RecommendationStrength float64
}
