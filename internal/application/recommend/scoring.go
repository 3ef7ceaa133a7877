package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/mealforge/v2/internal/domain/food"
	"github.com/mealforge/v2/internal/domain/mealplan"
	"github.com/mealforge/v2/internal/domain/nutrition"
)

// scoreCandidates converts raw search hits into scored recommendations,
// sorted by score descending. It is a pure stage: a new slice is
// returned and the input is not mutated.
func scoreCandidates(cfg Config, candidates []food.Candidate, mealCtx MealContext, calorieLimit float64) []mealplan.Recommendation {
	scored := make([]mealplan.Recommendation, 0, len(candidates))
	for _, candidate := range candidates {
		score, reason := scoreCandidate(cfg, candidate, mealCtx)
		scored = append(scored, mealplan.Recommendation{
			Food:         candidate,
			Score:        score,
			Reason:       reason,
			ServingGrams: servingGrams(cfg, mealCtx.Target.Calories, candidate.Calories),
			CalorieLimit: calorieLimit,
		})
	}
	sortByScore(scored)
	return scored
}

// scoreCandidate computes the composite score for one candidate:
// weighted similarity, a nutrition bonus against the slot targets, an
// objective-dependent goal bonus and, for lunch and dinner, a variety
// bonus tiered by food kind.
func scoreCandidate(cfg Config, candidate food.Candidate, mealCtx MealContext) (float64, string) {
	score := candidate.Similarity * cfg.SimilarityWeight
	reasons := make([]string, 0, 4)

	if mealCtx.Target.ProteinG >= cfg.HighProteinTargetG && candidate.Protein >= cfg.ProteinRichG {
		score += cfg.ProteinBonus
		reasons = append(reasons, "protein dense for this slot")
	}
	if mealCtx.Target.CarbsG >= cfg.HighCarbTargetG && candidate.Carbs >= cfg.CarbRichG {
		score += cfg.CarbBonus
		reasons = append(reasons, "carb rich for this slot")
	}

	switch mealCtx.Objective {
	case nutrition.ObjectiveGainMuscle:
		if candidate.Protein >= cfg.ProteinRichG {
			score += cfg.GoalBonus
			reasons = append(reasons, "supports muscle gain")
		} else {
			score += cfg.GoalFallbackBonus
		}
	case nutrition.ObjectiveLoseFat:
		if candidate.Calories <= cfg.LowCalorieCeiling {
			score += cfg.GoalBonus
			reasons = append(reasons, "light on calories")
		}
	case nutrition.ObjectiveEndurance:
		if candidate.Carbs >= cfg.CarbRichG {
			score += cfg.GoalBonus
			reasons = append(reasons, "fuels endurance training")
		}
	}

	if mealCtx.Slot.RequiresVegetable() {
		switch candidate.Diversity() {
		case food.DiversityVegetable:
			score += cfg.VegetableBonus
			reasons = append(reasons, "adds vegetable variety")
		case food.DiversityRootVegetable:
			score += cfg.RootVegetableBonus
			reasons = append(reasons, "adds root vegetable variety")
		case food.DiversityNutSeed:
			score += cfg.NutSeedBonus
			reasons = append(reasons, "adds nuts and seeds")
		case food.DiversityDairy:
			score += cfg.DairyBonus
			reasons = append(reasons, "adds dairy variety")
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "balanced fit for this meal")
	}
	return score, strings.Join(reasons, "; ")
}

// servingGrams suggests a portion in grams assuming the slot budget is
// split across several dishes. The raw value is clamped to the
// configured bounds and rounded to the serving increment.
func servingGrams(cfg Config, slotCalories, candidateCalories float64) float64 {
	grams := 100.0
	if candidateCalories > 0 {
		perDish := slotCalories / cfg.DishesPerMeal
		grams = perDish / candidateCalories * 100
	}
	grams = math.Min(math.Max(grams, cfg.MinServingGrams), cfg.MaxServingGrams)
	return math.Round(grams/cfg.ServingIncrementG) * cfg.ServingIncrementG
}

// sortByScore orders recommendations best-first. The sort is stable so
// equal scores keep their retrieval order.
func sortByScore(items []mealplan.Recommendation) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

// truncate caps the list at n items, returning the input when already
// within bounds.
func truncate(items []mealplan.Recommendation, n int) []mealplan.Recommendation {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
