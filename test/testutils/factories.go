// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/mealforge/v2/internal/domain/food"
	"github.com/mealforge/v2/internal/domain/mealplan"
	"github.com/mealforge/v2/internal/domain/nutrition"
)

// FoodFactory generates food candidates with plausible per-100g macro
// profiles for a given category.
type FoodFactory struct {
	faker *gofakeit.Faker
}

// NewFoodFactory creates a food factory with a seeded faker so test data
// is reproducible per seed.
func NewFoodFactory(seed int64) *FoodFactory {
	return &FoodFactory{
		faker: gofakeit.New(seed),
	}
}

// Candidate generates one candidate of the given category. Similarity is
// drawn from the range a real vector search would produce for a decent
// match.
func (ff *FoodFactory) Candidate(category food.Category) food.Candidate {
	c := food.Candidate{
		ID:          uuid.New(),
		RawCategory: string(category),
		Similarity:  ff.faker.Float64Range(0.55, 0.95),
	}

	switch category {
	case food.CategoryProtein:
		c.Name = ff.faker.Dinner()
		c.Calories = ff.faker.Float64Range(110, 250)
		c.Protein = ff.faker.Float64Range(18, 31)
		c.Carbs = ff.faker.Float64Range(0, 5)
		c.Fat = ff.faker.Float64Range(2, 15)
	case food.CategoryCarbs:
		c.Name = ff.faker.Lunch()
		c.Calories = ff.faker.Float64Range(100, 380)
		c.Protein = ff.faker.Float64Range(2, 13)
		c.Carbs = ff.faker.Float64Range(20, 80)
		c.Fat = ff.faker.Float64Range(0.5, 7)
	case food.CategoryVegetables:
		c.Name = ff.faker.Vegetable()
		c.Calories = ff.faker.Float64Range(15, 65)
		c.Protein = ff.faker.Float64Range(1, 4)
		c.Carbs = ff.faker.Float64Range(3, 12)
		c.Fat = ff.faker.Float64Range(0, 1)
		c.Fiber = ff.faker.Float64Range(1.5, 5)
	case food.CategoryFruits:
		c.Name = ff.faker.Fruit()
		c.Calories = ff.faker.Float64Range(30, 95)
		c.Protein = ff.faker.Float64Range(0.3, 2)
		c.Carbs = ff.faker.Float64Range(8, 23)
		c.Fat = ff.faker.Float64Range(0, 1)
		c.Fiber = ff.faker.Float64Range(1, 4)
	case food.CategoryDairy:
		c.Name = ff.faker.Breakfast()
		c.Calories = ff.faker.Float64Range(40, 130)
		c.Protein = ff.faker.Float64Range(3, 11)
		c.Carbs = ff.faker.Float64Range(3, 12)
		c.Fat = ff.faker.Float64Range(0.5, 8)
	case food.CategoryFats:
		c.Name = ff.faker.Snack()
		c.Calories = ff.faker.Float64Range(450, 900)
		c.Protein = ff.faker.Float64Range(0, 21)
		c.Carbs = ff.faker.Float64Range(0, 22)
		c.Fat = ff.faker.Float64Range(44, 100)
	default:
		c.Name = ff.faker.Snack()
		c.Calories = ff.faker.Float64Range(50, 400)
		c.Protein = ff.faker.Float64Range(1, 15)
		c.Carbs = ff.faker.Float64Range(5, 50)
		c.Fat = ff.faker.Float64Range(1, 20)
	}

	return c
}

// Candidates generates n candidates of the given category.
func (ff *FoodFactory) Candidates(category food.Category, n int) []food.Candidate {
	candidates := make([]food.Candidate, 0, n)
	for i := 0; i < n; i++ {
		candidates = append(candidates, ff.Candidate(category))
	}
	return candidates
}

// Recommendation wraps a generated candidate the way the engine would,
// with a serving sized against the given calorie limit.
func (ff *FoodFactory) Recommendation(category food.Category, calorieLimit float64) mealplan.Recommendation {
	candidate := ff.Candidate(category)
	return mealplan.Recommendation{
		Food:         candidate,
		Score:        ff.faker.Float64Range(0.4, 0.9),
		Reason:       "High similarity match",
		ServingGrams: ff.faker.Float64Range(60, 220),
		CalorieLimit: calorieLimit,
	}
}

// Target generates a daily nutrition target in the range the calculator
// produces for typical adult profiles.
func (ff *FoodFactory) Target() nutrition.Target {
	tdee := ff.faker.Float64Range(1800, 3200)
	calories := tdee * ff.faker.Float64Range(0.85, 1.1)
	return nutrition.Target{
		BMR:      tdee / 1.4,
		TDEE:     tdee,
		Calories: calories,
		ProteinG: calories * 0.3 / 4,
		CarbsG:   calories * 0.4 / 4,
		FatG:     calories * 0.3 / 9,
	}
}

// Slots returns the default slot configuration used across tests,
// matching the seeded meal_slots rows.
func Slots() []mealplan.Slot {
	return []mealplan.Slot{
		{Code: mealplan.SlotBreakfast, Name: "Breakfast", Percentage: 25, SortOrder: 1},
		{Code: mealplan.SlotLunch, Name: "Lunch", Percentage: 35, SortOrder: 2},
		{Code: mealplan.SlotDinner, Name: "Dinner", Percentage: 30, SortOrder: 3},
		{Code: mealplan.SlotSnack, Name: "Snack", Percentage: 10, SortOrder: 4},
	}
}

// Slot returns one of the default slots by code.
func Slot(code mealplan.SlotCode) mealplan.Slot {
	for _, slot := range Slots() {
		if slot.Code == code {
			return slot
		}
	}
	return mealplan.Slot{Code: code, Name: string(code), Percentage: 25, SortOrder: 1}
}

// PlanBuilder provides a fluent interface for building test meal plans
// through the domain constructors.
type PlanBuilder struct {
	userID uuid.UUID
	date   time.Time
	target nutrition.Target
	meals  []plannedMeal
}

type plannedMeal struct {
	slot            mealplan.Slot
	target          nutrition.MealTarget
	recommendations []mealplan.Recommendation
}

// NewPlanBuilder creates a plan builder with a fresh user and date.
func NewPlanBuilder() *PlanBuilder {
	return &PlanBuilder{
		userID: uuid.New(),
		date:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		target: NewFoodFactory(time.Now().UnixNano()).Target(),
	}
}

// WithUser sets the owning user
func (pb *PlanBuilder) WithUser(userID uuid.UUID) *PlanBuilder {
	pb.userID = userID
	return pb
}

// WithDate sets the plan date
func (pb *PlanBuilder) WithDate(date time.Time) *PlanBuilder {
	pb.date = date
	return pb
}

// WithTarget sets the daily nutrition target
func (pb *PlanBuilder) WithTarget(target nutrition.Target) *PlanBuilder {
	pb.target = target
	return pb
}

// WithMeal adds one slot with its recommendations. The meal target is
// derived from the slot's percentage of the daily target.
func (pb *PlanBuilder) WithMeal(slot mealplan.Slot, recommendations ...mealplan.Recommendation) *PlanBuilder {
	share := slot.Percentage / 100
	pb.meals = append(pb.meals, plannedMeal{
		slot: slot,
		target: nutrition.MealTarget{
			Calories: pb.target.Calories * share,
			ProteinG: pb.target.ProteinG * share,
			CarbsG:   pb.target.CarbsG * share,
			FatG:     pb.target.FatG * share,
		},
		recommendations: recommendations,
	})
	return pb
}

// Build constructs a finalized plan through the aggregate's own methods,
// so item ids are assigned and invariants checked the same way the
// planner does it.
func (pb *PlanBuilder) Build() (*mealplan.MealPlan, error) {
	plan, err := mealplan.NewMealPlan(pb.userID, pb.date, pb.target)
	if err != nil {
		return nil, err
	}

	for _, meal := range pb.meals {
		if err := plan.AddMeal(meal.slot, meal.target, meal.recommendations); err != nil {
			return nil, err
		}
	}

	if err := plan.Finalize(); err != nil {
		return nil, err
	}
	return plan, nil
}
