// Package schedule turns a finished meal plan into a weekly prep
// schedule: a 7-day calendar, batch-cook sessions grouped by shared
// ingredients, a shopping-timing plan and reminder notifications.
package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fitplate/engine/internal/domain/mealplan"
	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/fitplate/engine/internal/ports/inbound"
	"github.com/fitplate/engine/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Recipes qualify for one batch session when they share at least this
// many ingredients.
const batchSharedIngredients = 2

// Service implements the scheduling use case.
type Service struct {
	logger *zap.Logger
}

// NewService creates a schedule service.
func NewService(logger *zap.Logger) inbound.ScheduleService {
	return &Service{logger: logger.Named("schedule-service")}
}

// CreateIntelligentSchedule maps the plan's slots onto a 7-day
// calendar. Plans longer than 7 days are scheduled one week at a time
// by the caller; only the first week is covered here.
func (s *Service) CreateIntelligentSchedule(ctx context.Context, plan mealplan.MealPlan, customerID uuid.UUID) (*mealplan.Schedule, error) {
	if err := plan.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	weekDays := plan.Days
	if weekDays > 7 {
		weekDays = 7
	}

	sched := &mealplan.Schedule{
		PlanID:     plan.ID,
		CustomerID: customerID,
		Days:       make([]mealplan.DaySchedule, weekDays),
		CreatedAt:  time.Now(),
	}
	for d := 0; d < weekDays; d++ {
		sched.Days[d] = mealplan.DaySchedule{Weekday: d}
	}

	var totalActive time.Duration
	for _, slot := range plan.Meals {
		if slot.Day >= weekDays {
			continue
		}
		day := &sched.Days[slot.Day]
		day.Meals = append(day.Meals, mealplan.ScheduledMeal{
			Weekday:    slot.Day,
			MealNumber: slot.MealNumber,
			MealType:   slot.MealType,
			RecipeID:   slot.Recipe.ID,
			RecipeName: slot.Recipe.Name,
			PrepTime:   slot.Recipe.PrepTime,
			CookTime:   slot.Recipe.CookTime,
		})
		day.TotalPrepTime += slot.Recipe.PrepTime
		day.TotalCookTime += slot.Recipe.CookTime
		sched.TotalPrepTime += slot.Recipe.PrepTime
		totalActive += slot.Recipe.TotalTime()
	}
	for d := range sched.Days {
		sort.Slice(sched.Days[d].Meals, func(i, j int) bool {
			return sched.Days[d].Meals[i].MealNumber < sched.Days[d].Meals[j].MealNumber
		})
	}

	sched.BatchSessions = batchSessions(plan, weekDays)
	sched.EfficiencyScore = efficiencyScore(plan, weekDays, totalActive)
	sched.ShoppingTrips = shoppingTrips(plan, weekDays)
	sched.Notifications = s.notifications(plan, sched)

	s.logger.Info("Schedule created",
		zap.String("plan_id", plan.ID.String()),
		zap.Int("batch_sessions", len(sched.BatchSessions)),
		zap.Float64("efficiency", sched.EfficiencyScore),
	)
	return sched, nil
}

// batchSessions groups distinct recipes that share ingredients into
// prep sessions scheduled on the earliest day either recipe is used.
func batchSessions(plan mealplan.MealPlan, weekDays int) []mealplan.BatchSession {
	type entry struct {
		slotIdx  int
		firstDay int
		count    int
	}
	order := make([]uuid.UUID, 0)
	entries := make(map[uuid.UUID]*entry)
	for i, slot := range plan.Meals {
		if slot.Day >= weekDays {
			continue
		}
		e := entries[slot.Recipe.ID]
		if e == nil {
			entries[slot.Recipe.ID] = &entry{slotIdx: i, firstDay: slot.Day, count: 1}
			order = append(order, slot.Recipe.ID)
			continue
		}
		e.count++
		if slot.Day < e.firstDay {
			e.firstDay = slot.Day
		}
	}

	assigned := make(map[uuid.UUID]bool)
	var sessions []mealplan.BatchSession
	for i, idA := range order {
		if assigned[idA] {
			continue
		}
		a := plan.Meals[entries[idA].slotIdx].Recipe

		session := mealplan.BatchSession{
			Weekday:     entries[idA].firstDay,
			RecipeIDs:   []uuid.UUID{a.ID},
			RecipeNames: []string{a.Name},
		}
		estimated := a.TotalTime()
		shared := map[string]bool{}

		for _, idB := range order[i+1:] {
			if assigned[idB] {
				continue
			}
			b := plan.Meals[entries[idB].slotIdx].Recipe
			common := sharedIngredients(a, b)
			if len(common) < batchSharedIngredients {
				continue
			}
			assigned[idB] = true
			session.RecipeIDs = append(session.RecipeIDs, b.ID)
			session.RecipeNames = append(session.RecipeNames, b.Name)
			// Shared prep means the second recipe only adds part of
			// its active time to the session.
			estimated += b.TotalTime() / 2
			for _, name := range common {
				shared[name] = true
			}
			if entries[idB].firstDay < session.Weekday {
				session.Weekday = entries[idB].firstDay
			}
		}

		if len(session.RecipeIDs) < 2 {
			continue
		}
		assigned[idA] = true
		session.EstimatedTime = estimated
		for name := range shared {
			session.SharedIngredients = append(session.SharedIngredients, name)
		}
		sort.Strings(session.SharedIngredients)
		sessions = append(sessions, session)
	}
	return sessions
}

// sharedIngredients returns ingredient names present in both recipes.
func sharedIngredients(a, b recipe.Recipe) []string {
	inA := make(map[string]bool)
	for _, name := range a.IngredientNames() {
		inA[name] = true
	}
	var common []string
	for _, name := range b.IngredientNames() {
		if inA[name] {
			common = append(common, name)
			inA[name] = false
		}
	}
	sort.Strings(common)
	return common
}

// efficiencyScore rewards weeks with little redundant active cooking:
// repeated recipes and batchable overlap shrink the redundant share.
func efficiencyScore(plan mealplan.MealPlan, weekDays int, totalActive time.Duration) float64 {
	if totalActive <= 0 {
		return 1
	}
	seen := make(map[uuid.UUID]int)
	var redundant time.Duration
	for _, slot := range plan.Meals {
		if slot.Day >= weekDays {
			continue
		}
		seen[slot.Recipe.ID]++
		if seen[slot.Recipe.ID] > 1 {
			redundant += slot.Recipe.TotalTime()
		}
	}
	score := 1 - float64(redundant)/float64(totalActive)
	if score < 0 {
		return 0
	}
	return score
}

// shoppingTrips aggregates ingredient needs into at most two runs: one
// before the week starts and a mid-week top-up for longer weeks.
func shoppingTrips(plan mealplan.MealPlan, weekDays int) []mealplan.ShoppingTrip {
	const topUpDay = 3

	aggregate := func(fromDay, toDay int) []mealplan.ShoppingItem {
		type key struct{ name, unit string }
		amounts := make(map[key]float64)
		var order []key
		for _, slot := range plan.Meals {
			if slot.Day < fromDay || slot.Day >= toDay {
				continue
			}
			for _, ing := range slot.Recipe.Ingredients {
				k := key{name: ing.Name, unit: ing.Unit}
				if _, ok := amounts[k]; !ok {
					order = append(order, k)
				}
				amounts[k] += ing.Amount
			}
		}
		sort.Slice(order, func(i, j int) bool { return order[i].name < order[j].name })
		items := make([]mealplan.ShoppingItem, 0, len(order))
		for _, k := range order {
			items = append(items, mealplan.ShoppingItem{Name: k.name, Amount: amounts[k], Unit: k.unit})
		}
		return items
	}

	if weekDays <= topUpDay {
		items := aggregate(0, weekDays)
		if len(items) == 0 {
			return nil
		}
		return []mealplan.ShoppingTrip{{Weekday: 0, Items: items}}
	}

	var trips []mealplan.ShoppingTrip
	if items := aggregate(0, topUpDay); len(items) > 0 {
		trips = append(trips, mealplan.ShoppingTrip{Weekday: 0, Items: items})
	}
	if items := aggregate(topUpDay, weekDays); len(items) > 0 {
		trips = append(trips, mealplan.ShoppingTrip{Weekday: topUpDay, Items: items})
	}
	return trips
}

// notifications emits the reminder list. Any non-trivial plan gets at
// least one prep reminder and one shopping reminder; performance goals
// add workout nutrition and hydration entries.
func (s *Service) notifications(plan mealplan.MealPlan, sched *mealplan.Schedule) []mealplan.Notification {
	var out []mealplan.Notification

	for _, session := range sched.BatchSessions {
		out = append(out, mealplan.Notification{
			Kind:    mealplan.NotifyPrepReminder,
			Weekday: session.Weekday,
			Message: fmt.Sprintf("Batch-cook session: %d recipes, about %s", len(session.RecipeIDs), session.EstimatedTime),
		})
	}
	if len(sched.BatchSessions) == 0 && len(plan.Meals) > 0 {
		out = append(out, mealplan.Notification{
			Kind:    mealplan.NotifyPrepReminder,
			Weekday: 0,
			Message: fmt.Sprintf("Weekly prep: about %s total preparation time", sched.TotalPrepTime),
		})
	}

	for _, trip := range sched.ShoppingTrips {
		out = append(out, mealplan.Notification{
			Kind:    mealplan.NotifyShoppingReminder,
			Weekday: trip.Weekday,
			Message: fmt.Sprintf("Shopping run: %d items", len(trip.Items)),
		})
	}
	if len(sched.ShoppingTrips) == 0 && len(plan.Meals) > 0 {
		out = append(out, mealplan.Notification{
			Kind:    mealplan.NotifyShoppingReminder,
			Weekday: 0,
			Message: "Stock check before the week starts",
		})
	}

	if plan.FitnessGoal.ImpliesPerformance() {
		msg := "Time carbs and protein around training sessions"
		if plan.Timing != nil {
			msg = fmt.Sprintf("Pre-workout meal %d, post-workout meal %d", plan.Timing.PreWorkoutMealNumber, plan.Timing.PostWorkoutMealNumber)
		}
		out = append(out,
			mealplan.Notification{Kind: mealplan.NotifyWorkoutNutrition, Weekday: 0, Message: msg},
			mealplan.Notification{Kind: mealplan.NotifyHydration, Weekday: 0, Message: "Hit hydration targets on training days"},
		)
	}
	return out
}
