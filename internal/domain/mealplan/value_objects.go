// Package mealplan holds the meal plan aggregate and its value objects.
package mealplan

import (
	"time"

	"github.com/google/uuid"

	"github.com/mealforge/v2/internal/domain/food"
	"github.com/mealforge/v2/internal/domain/nutrition"
)

// SlotCode identifies a configured meal time.
type SlotCode string

const (
	SlotBreakfast SlotCode = "breakfast"
	SlotLunch     SlotCode = "lunch"
	SlotDinner    SlotCode = "dinner"
	SlotSnack     SlotCode = "snack"
)

// Slot is one meal time with its default share of daily calories.
// Slots are fixed, ordered, externally configured rows; the engine
// treats them as read-only lookup data.
type Slot struct {
	Code       SlotCode `json:"code"`
	Name       string   `json:"name"`
	Percentage float64  `json:"percentage"`
	SortOrder  int      `json:"sort_order"`
}

// RequiresVegetable reports whether the slot falls under the
// lunch/dinner variety rules (diversity bonus and vegetable guarantee).
func (s Slot) RequiresVegetable() bool {
	return s.Code == SlotLunch || s.Code == SlotDinner
}

// Recommendation is a food candidate augmented with the engine's
// composite score, a human-readable justification, a suggested serving
// and the calorie ceiling it was evaluated against. Created by the
// engine, persisted by the orchestrator as one plan item. The id is
// assigned when the item joins a plan; completion state is the only
// field that changes afterwards.
type Recommendation struct {
	ID           uuid.UUID      `json:"id"`
	Food         food.Candidate `json:"food"`
	Score        float64        `json:"score"`
	Reason       string         `json:"reason"`
	ServingGrams float64        `json:"serving_grams"`
	CalorieLimit float64        `json:"calorie_limit"`
	Completed    bool           `json:"completed"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

// ServingNutrition estimates the nutrition delivered by the suggested
// serving, scaling the per-100g profile.
func (r Recommendation) ServingNutrition() NutritionSummary {
	factor := r.ServingGrams / 100
	return NutritionSummary{
		Calories: r.Food.Calories * factor,
		ProteinG: r.Food.Protein * factor,
		CarbsG:   r.Food.Carbs * factor,
		FatG:     r.Food.Fat * factor,
	}
}

// NutritionSummary aggregates calories and macro grams, used for both
// the plan's target and the estimate from suggested servings.
type NutritionSummary struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// Add returns the element-wise sum of two summaries.
func (n NutritionSummary) Add(other NutritionSummary) NutritionSummary {
	return NutritionSummary{
		Calories: n.Calories + other.Calories,
		ProteinG: n.ProteinG + other.ProteinG,
		CarbsG:   n.CarbsG + other.CarbsG,
		FatG:     n.FatG + other.FatG,
	}
}

// Meal is the generated recommendation list for one slot together with
// the slot's share of the daily target.
type Meal struct {
	Slot            Slot                 `json:"slot"`
	Target          nutrition.MealTarget `json:"target"`
	Recommendations []Recommendation     `json:"recommendations"`
}

// Actual sums the serving nutrition over the meal's recommendations.
func (m Meal) Actual() NutritionSummary {
	var total NutritionSummary
	for _, rec := range m.Recommendations {
		total = total.Add(rec.ServingNutrition())
	}
	return total
}
