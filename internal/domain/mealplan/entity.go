package mealplan

import (
	"time"

	"github.com/google/uuid"

	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/domain/shared"
)

// MealPlan is the aggregate root for one user's plan on one date.
// At most one plan exists per (user, date); creation is checked before
// insert, never upserted, and a plan is never mutated in place apart
// from item completion toggling.
type MealPlan struct {
	id        uuid.UUID
	userID    uuid.UUID
	date      time.Time
	target    nutrition.Target
	meals     []Meal
	createdAt time.Time

	// Domain events to be dispatched
	events []shared.DomainEvent
}

// NewMealPlan creates an empty plan for a user and date. The date is
// normalized to midnight UTC so (user, date) uniqueness is calendar-day
// based regardless of the caller's clock.
func NewMealPlan(userID uuid.UUID, date time.Time, target nutrition.Target) (*MealPlan, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if date.IsZero() {
		return nil, ErrZeroDate
	}

	return &MealPlan{
		id:        uuid.New(),
		userID:    userID,
		date:      NormalizeDate(date),
		target:    target,
		meals:     []Meal{},
		createdAt: time.Now(),
		events:    []shared.DomainEvent{},
	}, nil
}

// ReconstructMealPlan rebuilds a plan from persisted state without
// raising events. Field-complete by design: a reloaded plan must be
// indistinguishable from the one originally generated.
func ReconstructMealPlan(id, userID uuid.UUID, date time.Time, target nutrition.Target, meals []Meal, createdAt time.Time) *MealPlan {
	return &MealPlan{
		id:        id,
		userID:    userID,
		date:      NormalizeDate(date),
		target:    target,
		meals:     meals,
		createdAt: createdAt,
		events:    []shared.DomainEvent{},
	}
}

// NormalizeDate truncates a timestamp to its UTC calendar day.
func NormalizeDate(date time.Time) time.Time {
	utc := date.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// AddMeal appends the generated recommendations for one slot. Items
// without an id are assigned one here so the persisted plan and the
// returned plan carry identical ids.
func (p *MealPlan) AddMeal(slot Slot, target nutrition.MealTarget, recommendations []Recommendation) error {
	for _, meal := range p.meals {
		if meal.Slot.Code == slot.Code {
			return ErrDuplicateSlot
		}
	}

	items := make([]Recommendation, len(recommendations))
	copy(items, recommendations)
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}

	p.meals = append(p.meals, Meal{
		Slot:            slot,
		Target:          target,
		Recommendations: items,
	})
	return nil
}

// MarkRepaired records that diversity repair altered a slot's list.
func (p *MealPlan) MarkRepaired(slot SlotCode, categories []string) {
	if len(categories) == 0 {
		return
	}
	p.addEvent(MealRepairedEvent{
		PlanID:     p.id,
		Slot:       slot,
		Categories: categories,
		RepairedAt: time.Now(),
	})
}

// Finalize seals the plan after all slots were added and raises the
// generated event.
func (p *MealPlan) Finalize() error {
	if len(p.meals) == 0 {
		return ErrNoMeals
	}

	p.addEvent(MealPlanGeneratedEvent{
		PlanID:      p.id,
		UserID:      p.userID,
		Date:        p.date,
		MealCount:   len(p.meals),
		ItemCount:   p.ItemCount(),
		GeneratedAt: time.Now(),
	})
	return nil
}

// SetItemCompleted toggles the completion flag on one plan item. This is
// the only in-place mutation the aggregate allows after finalization.
func (p *MealPlan) SetItemCompleted(itemID uuid.UUID, completed bool, at time.Time) error {
	for mi := range p.meals {
		for ii := range p.meals[mi].Recommendations {
			item := &p.meals[mi].Recommendations[ii]
			if item.ID != itemID {
				continue
			}

			item.Completed = completed
			if completed {
				completedAt := at
				item.CompletedAt = &completedAt
			} else {
				item.CompletedAt = nil
			}

			p.addEvent(ItemCompletionChangedEvent{
				PlanID:    p.id,
				ItemID:    itemID,
				FoodID:    item.Food.ID,
				Completed: completed,
				ChangedAt: at,
			})
			return nil
		}
	}
	return ErrItemNotFound
}

// ID returns the plan id
func (p *MealPlan) ID() uuid.UUID {
	return p.id
}

// UserID returns the owning user id
func (p *MealPlan) UserID() uuid.UUID {
	return p.userID
}

// Date returns the normalized plan date
func (p *MealPlan) Date() time.Time {
	return p.date
}

// Target returns the daily nutrition target the plan was built against
func (p *MealPlan) Target() nutrition.Target {
	return p.target
}

// Meals returns the generated meals in slot order
func (p *MealPlan) Meals() []Meal {
	meals := make([]Meal, len(p.meals))
	copy(meals, p.meals)
	return meals
}

// ItemCount returns the total number of recommendations across slots
func (p *MealPlan) ItemCount() int {
	count := 0
	for _, meal := range p.meals {
		count += len(meal.Recommendations)
	}
	return count
}

// Actual estimates the nutrition delivered by all suggested servings
func (p *MealPlan) Actual() NutritionSummary {
	var total NutritionSummary
	for _, meal := range p.meals {
		total = total.Add(meal.Actual())
	}
	return total
}

// CreatedAt returns the creation timestamp
func (p *MealPlan) CreatedAt() time.Time {
	return p.createdAt
}

// addEvent records a domain event for dispatch
func (p *MealPlan) addEvent(event shared.DomainEvent) {
	p.events = append(p.events, event)
}

// Events returns and clears pending domain events
func (p *MealPlan) Events() []shared.DomainEvent {
	events := p.events
	p.events = []shared.DomainEvent{}
	return events
}
