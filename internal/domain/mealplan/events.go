package mealplan

import (
	"time"

	"github.com/google/uuid"
)

// Domain Events - Events that occur within the meal plan domain

// MealPlanGeneratedEvent is raised when a plan is fully assembled
type MealPlanGeneratedEvent struct {
	PlanID      uuid.UUID
	UserID      uuid.UUID
	Date        time.Time
	MealCount   int
	ItemCount   int
	GeneratedAt time.Time
}

func (e MealPlanGeneratedEvent) EventName() string {
	return "mealplan.generated"
}

func (e MealPlanGeneratedEvent) OccurredAt() time.Time {
	return e.GeneratedAt
}

// MealRepairedEvent is raised when diversity repair changed a meal
type MealRepairedEvent struct {
	PlanID     uuid.UUID
	Slot       SlotCode
	Categories []string
	RepairedAt time.Time
}

func (e MealRepairedEvent) EventName() string {
	return "mealplan.meal.repaired"
}

func (e MealRepairedEvent) OccurredAt() time.Time {
	return e.RepairedAt
}

// ItemCompletionChangedEvent is raised when a plan item is checked off
// or unchecked
type ItemCompletionChangedEvent struct {
	PlanID    uuid.UUID
	ItemID    uuid.UUID
	FoodID    uuid.UUID
	Completed bool
	ChangedAt time.Time
}

func (e ItemCompletionChangedEvent) EventName() string {
	return "mealplan.item.completion.changed"
}

func (e ItemCompletionChangedEvent) OccurredAt() time.Time {
	return e.ChangedAt
}
