package mealplan

import (
	"time"

	"github.com/fitplate/engine/internal/domain/recipe"
	"github.com/google/uuid"
)

// ScheduledMeal places one plan slot on the weekly calendar.
type ScheduledMeal struct {
	Weekday    int // 0 = first day of the plan week
	MealNumber int
	MealType   recipe.MealType
	RecipeID   uuid.UUID
	RecipeName string
	PrepTime   time.Duration
	CookTime   time.Duration
}

// DaySchedule is one calendar day of the schedule.
type DaySchedule struct {
	Weekday       int
	Meals         []ScheduledMeal
	TotalPrepTime time.Duration
	TotalCookTime time.Duration
}

// BatchSession groups recipes that share ingredients so they can be
// prepped together.
type BatchSession struct {
	Weekday           int
	RecipeIDs         []uuid.UUID
	RecipeNames       []string
	SharedIngredients []string
	EstimatedTime     time.Duration
}

// ShoppingItem is an aggregated ingredient need.
type ShoppingItem struct {
	Name   string
	Amount float64
	Unit   string
}

// ShoppingTrip schedules one shopping run with the items it covers.
type ShoppingTrip struct {
	Weekday int
	Items   []ShoppingItem
}

// NotificationKind classifies schedule reminders.
type NotificationKind string

const (
	NotifyPrepReminder     NotificationKind = "prep_reminder"
	NotifyShoppingReminder NotificationKind = "shopping_reminder"
	NotifyWorkoutNutrition NotificationKind = "workout_nutrition"
	NotifyHydration        NotificationKind = "hydration_reminder"
)

// Notification is one scheduled reminder.
type Notification struct {
	Kind    NotificationKind
	Weekday int
	Message string
}

// Schedule is the weekly prep schedule derived from a finished plan.
type Schedule struct {
	PlanID          uuid.UUID
	CustomerID      uuid.UUID
	Days            []DaySchedule
	TotalPrepTime   time.Duration
	EfficiencyScore float64 // 0..1, higher means less redundant active cooking
	BatchSessions   []BatchSession
	ShoppingTrips   []ShoppingTrip
	Notifications   []Notification
	CreatedAt       time.Time
}
