package preference

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/fitplate/engine/internal/domain/preference"
	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/fitplate/engine/internal/infrastructure/persistence/memory"
	"github.com/fitplate/engine/internal/ports/outbound"
	"github.com/fitplate/engine/test/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingHistory struct{}

func (failingHistory) RatedPlans(ctx context.Context, customerID uuid.UUID, limit int) ([]outbound.RatedPlan, error) {
	return nil, errors.New("history store down")
}

func newService(history outbound.PlanHistoryStore) *Service {
	return NewService(history, 20, zap.NewNop()).(*Service)
}

func ratePlans(t *testing.T, history *memory.PlanHistoryStore, customerID uuid.UUID, rated ...outbound.RatedPlan) {
	t.Helper()
	for _, rp := range rated {
		history.Record(customerID, rp)
	}
}

func TestGetCustomerPreferencesColdStart(t *testing.T) {
	svc := newService(memory.NewPlanHistoryStore())

	profile, err := svc.GetCustomerPreferences(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, profile, "no history must yield a nil profile, not an error")
}

func TestGetCustomerPreferencesDegradedStoreIsColdStart(t *testing.T) {
	svc := newService(failingHistory{})

	profile, err := svc.GetCustomerPreferences(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestProfileLearnsLovedAndDislikedIngredients(t *testing.T) {
	history := memory.NewPlanHistoryStore()
	customerID := uuid.New()

	salmon := testutils.NewRecipeBuilder().
		WithName("Seared Salmon").
		WithIngredients(recipe.Ingredient{Name: "salmon", Amount: 200, Unit: "g"}).
		Build()
	liver := testutils.NewRecipeBuilder().
		WithName("Liver Stew").
		WithIngredients(recipe.Ingredient{Name: "liver", Amount: 200, Unit: "g"}).
		Build()

	lovedPlan := testutils.NewMealPlanBuilder().WithCustomer(customerID).WithShape(2, 3).WithRecipes(salmon).Build()
	hatedPlan := testutils.NewMealPlanBuilder().WithCustomer(customerID).WithShape(2, 3).WithRecipes(liver).Build()

	ratePlans(t, history, customerID,
		outbound.RatedPlan{Plan: lovedPlan, Rating: 5, RatedAt: time.Now().Add(-48 * time.Hour)},
		outbound.RatedPlan{Plan: hatedPlan, Rating: 1, RatedAt: time.Now().Add(-24 * time.Hour)},
	)

	svc := newService(history)
	profile, err := svc.GetCustomerPreferences(context.Background(), customerID)

	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, domain.LabelLove, profile.IngredientPreferences["salmon"].Label)
	assert.Equal(t, domain.LabelDislike, profile.IngredientPreferences["liver"].Label)

	lovedScore := svc.ScoreRecipeForCustomer(salmon, profile)
	dislikedScore := svc.ScoreRecipeForCustomer(liver, profile)
	assert.Greater(t, lovedScore, dislikedScore)
}

func TestScoreRecipeStaysWithinUnitInterval(t *testing.T) {
	history := memory.NewPlanHistoryStore()
	customerID := uuid.New()
	r := testutils.NewRecipeBuilder().Build()
	plan := testutils.NewMealPlanBuilder().WithCustomer(customerID).WithRecipes(r).Build()
	ratePlans(t, history, customerID, outbound.RatedPlan{Plan: plan, Rating: 5, RatedAt: time.Now()})

	svc := newService(history)
	profile, err := svc.GetCustomerPreferences(context.Background(), customerID)
	require.NoError(t, err)
	require.NotNil(t, profile)

	factory := testutils.NewRecipeFactory(11)
	for i := 0; i < 50; i++ {
		score := svc.ScoreRecipeForCustomer(factory.Recipe(), profile)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestNilProfileScoresNeutral(t *testing.T) {
	svc := newService(memory.NewPlanHistoryStore())

	score := svc.ScoreRecipeForCustomer(testutils.NewRecipeBuilder().Build(), nil)

	assert.Equal(t, 0.5, score)
}

func TestAnalysisIsDeterministicProjection(t *testing.T) {
	history := memory.NewPlanHistoryStore()
	customerID := uuid.New()
	r := testutils.NewRecipeBuilder().
		WithIngredients(
			recipe.Ingredient{Name: "chicken", Amount: 200, Unit: "g"},
			recipe.Ingredient{Name: "broccoli", Amount: 100, Unit: "g"},
		).
		Build()
	for w := 0; w < 5; w++ {
		plan := testutils.NewMealPlanBuilder().WithCustomer(customerID).WithRecipes(r).Build()
		ratePlans(t, history, customerID, outbound.RatedPlan{
			Plan:    plan,
			Rating:  5,
			RatedAt: time.Now().AddDate(0, 0, -w),
		})
	}

	svc := newService(history)
	profile, err := svc.GetCustomerPreferences(context.Background(), customerID)
	require.NoError(t, err)
	require.NotNil(t, profile)

	first := svc.GeneratePreferenceAnalysis(profile)
	second := svc.GeneratePreferenceAnalysis(profile)

	assert.Equal(t, first, second)
	assert.Equal(t, profile.PreferenceScore, first.RecommendationStrength)
	assert.NotEmpty(t, first.StrongPreferences)
}

func TestAnalysisOfNilProfile(t *testing.T) {
	svc := newService(memory.NewPlanHistoryStore())

	analysis := svc.GeneratePreferenceAnalysis(nil)

	assert.Empty(t, analysis.StrongPreferences)
	assert.Zero(t, analysis.RecommendationStrength)
	assert.Contains(t, analysis.CookingProfile, "no rating history")
}
