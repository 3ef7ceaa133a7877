package recommend

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mealforge/v2/internal/domain/food"
	"github.com/mealforge/v2/internal/domain/mealplan"
	"github.com/mealforge/v2/internal/domain/nutrition"
)

func newCandidate(name, category string, similarity, calories, protein, carbs, fat float64) food.Candidate {
	return food.Candidate{
		ID:          uuid.New(),
		Name:        name,
		NameEn:      name,
		RawCategory: category,
		Calories:    calories,
		Protein:     protein,
		Carbs:       carbs,
		Fat:         fat,
		Similarity:  similarity,
	}
}

func lunchContext(objective nutrition.Objective, target nutrition.MealTarget) MealContext {
	return MealContext{
		Slot:      mealplan.Slot{Code: mealplan.SlotLunch, Name: "Lunch", Percentage: 35, SortOrder: 2},
		Target:    target,
		Objective: objective,
	}
}

func breakfastContext(objective nutrition.Objective, target nutrition.MealTarget) MealContext {
	return MealContext{
		Slot:      mealplan.Slot{Code: mealplan.SlotBreakfast, Name: "Breakfast", Percentage: 25, SortOrder: 1},
		Target:    target,
		Objective: objective,
	}
}

func TestScoreCandidateSimilarityWeight(t *testing.T) {
	cfg := DefaultConfig()
	mealCtx := breakfastContext(nutrition.ObjectiveMaintain, nutrition.MealTarget{Calories: 500, ProteinG: 20, CarbsG: 40, FatG: 15})
	candidate := newCandidate("Plain Toast", "carbs", 0.8, 250, 8, 10, 3)

	score, reason := scoreCandidate(cfg, candidate, mealCtx)

	assert.InDelta(t, 0.8*0.6, score, 1e-9)
	assert.Equal(t, "balanced fit for this meal", reason)
}

func TestScoreCandidateNutritionBonuses(t *testing.T) {
	cfg := DefaultConfig()
	mealCtx := breakfastContext(nutrition.ObjectiveMaintain, nutrition.MealTarget{Calories: 900, ProteinG: 35, CarbsG: 60, FatG: 25})
	candidate := newCandidate("Chicken Rice Bowl", "protein", 0.5, 400, 28, 45, 9)

	score, reason := scoreCandidate(cfg, candidate, mealCtx)

	assert.InDelta(t, 0.5*0.6+0.10+0.05, score, 1e-9)
	assert.Contains(t, reason, "protein dense")
	assert.Contains(t, reason, "carb rich")
}

func TestScoreCandidateGoalBonuses(t *testing.T) {
	cfg := DefaultConfig()
	lowTarget := nutrition.MealTarget{Calories: 400, ProteinG: 20, CarbsG: 30, FatG: 10}

	tests := []struct {
		name      string
		objective nutrition.Objective
		candidate food.Candidate
		bonus     float64
	}{
		{"GainMuscle_HighProtein", nutrition.ObjectiveGainMuscle, newCandidate("Grilled Chicken", "protein", 0, 165, 31, 0, 4), 0.15},
		{"GainMuscle_LowProteinFallback", nutrition.ObjectiveGainMuscle, newCandidate("White Rice", "carbs", 0, 130, 3, 28, 0), 0.05},
		{"LoseFat_LowCalorie", nutrition.ObjectiveLoseFat, newCandidate("Cucumber Salad", "vegetables", 0, 45, 1, 8, 0), 0.15},
		{"LoseFat_HighCalorie", nutrition.ObjectiveLoseFat, newCandidate("Fried Noodles", "carbs", 0, 350, 9, 48, 12), 0},
		{"Endurance_HighCarb", nutrition.ObjectiveEndurance, newCandidate("Oatmeal", "carbs", 0, 180, 6, 32, 3), 0.15},
		{"Maintain_NoBonus", nutrition.ObjectiveMaintain, newCandidate("Grilled Chicken", "protein", 0, 165, 31, 0, 4), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mealCtx := breakfastContext(tc.objective, lowTarget)
			score, _ := scoreCandidate(cfg, tc.candidate, mealCtx)
			assert.InDelta(t, tc.bonus, score, 1e-9)
		})
	}
}

func TestScoreCandidateVarietyBonusLunchOnly(t *testing.T) {
	cfg := DefaultConfig()
	target := nutrition.MealTarget{Calories: 600, ProteinG: 20, CarbsG: 40, FatG: 15}
	spinach := newCandidate("Baby Spinach Salad", "vegetables", 0.5, 60, 3, 8, 1)

	atBreakfast, _ := scoreCandidate(cfg, spinach, breakfastContext(nutrition.ObjectiveMaintain, target))
	atLunch, _ := scoreCandidate(cfg, spinach, lunchContext(nutrition.ObjectiveMaintain, target))

	assert.InDelta(t, 0.5*0.6, atBreakfast, 1e-9)
	assert.InDelta(t, 0.5*0.6+0.12, atLunch, 1e-9)
}

func TestScoreCandidateVarietyTiers(t *testing.T) {
	cfg := DefaultConfig()
	target := nutrition.MealTarget{Calories: 600, ProteinG: 20, CarbsG: 40, FatG: 15}
	mealCtx := lunchContext(nutrition.ObjectiveMaintain, target)

	tests := []struct {
		name      string
		candidate food.Candidate
		bonus     float64
	}{
		{"Vegetable", newCandidate("Steamed Broccoli", "vegetables", 0, 35, 3, 7, 0), 0.12},
		{"RootVegetable", newCandidate("Roasted Sweet Potato", "carbs", 0, 90, 2, 21, 0), 0.10},
		{"NutSeed", newCandidate("Roasted Almonds", "fats", 0, 170, 6, 6, 15), 0.08},
		{"Dairy", newCandidate("Greek Yogurt", "dairy", 0, 100, 10, 4, 5), 0.06},
		{"PlainProtein", newCandidate("Grilled Chicken Breast", "protein", 0, 165, 31, 0, 4), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score, _ := scoreCandidate(cfg, tc.candidate, mealCtx)
			assert.InDelta(t, tc.bonus, score, 1e-9, "variety bonus for %s", tc.name)
		})
	}
}

func TestServingGrams(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name              string
		slotCalories      float64
		candidateCalories float64
		expected          float64
	}{
		{"TypicalDish", 980, 130, 190},
		{"DenseFoodClampedLow", 980, 800, 50},
		{"LightFoodClampedHigh", 980, 20, 300},
		{"ZeroCalorieDefault", 980, 0, 100},
		{"ExactIncrement", 800, 100, 200},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			grams := servingGrams(cfg, tc.slotCalories, tc.candidateCalories)
			assert.Equal(t, tc.expected, grams)
		})
	}
}

func TestScoreCandidatesSortsDescending(t *testing.T) {
	cfg := DefaultConfig()
	mealCtx := lunchContext(nutrition.ObjectiveMaintain, nutrition.MealTarget{Calories: 600, ProteinG: 20, CarbsG: 40, FatG: 15})
	candidates := []food.Candidate{
		newCandidate("Low Match", "protein", 0.2, 165, 31, 0, 4),
		newCandidate("High Match", "protein", 0.9, 165, 31, 0, 4),
		newCandidate("Mid Match", "protein", 0.5, 165, 31, 0, 4),
	}

	scored := scoreCandidates(cfg, candidates, mealCtx, 720)

	assert.Len(t, scored, 3)
	assert.Equal(t, "High Match", scored[0].Food.Name)
	assert.Equal(t, "Mid Match", scored[1].Food.Name)
	assert.Equal(t, "Low Match", scored[2].Food.Name)
	for _, item := range scored {
		assert.Equal(t, 720.0, item.CalorieLimit)
		assert.Greater(t, item.ServingGrams, 0.0)
	}
}
