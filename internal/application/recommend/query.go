package recommend

import (
	"fmt"
	"strings"

	"github.com/mealforge/v2/internal/domain/nutrition"
)

// objectivePhrases frames the semantic query per goal so the vector
// search leans toward the right kind of dish.
var objectivePhrases = map[nutrition.Objective]string{
	nutrition.ObjectiveGainMuscle: "Prioritize protein rich whole foods that support muscle gain.",
	nutrition.ObjectiveLoseFat:    "Prefer light, filling dishes that keep calories low for fat loss.",
	nutrition.ObjectiveEndurance:  "Prioritize carbohydrate dense foods that fuel endurance training.",
	nutrition.ObjectiveMaintain:   "Prefer balanced everyday dishes for weight maintenance.",
}

// buildQuery renders the structured query text for one slot. The text
// is embedded and matched against food description vectors, so it
// spells out the targets and preferences in plain sentences.
func buildQuery(mealCtx MealContext) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s meal with about %.0f kcal, %.0f g protein, %.0f g carbs and %.0f g fat.",
		mealCtx.Slot.Name,
		mealCtx.Target.Calories,
		mealCtx.Target.ProteinG,
		mealCtx.Target.CarbsG,
		mealCtx.Target.FatG)

	if phrase, ok := objectivePhrases[mealCtx.Objective]; ok {
		sb.WriteString(" ")
		sb.WriteString(phrase)
	}

	if mealCtx.TrainingDay {
		sb.WriteString(" Training day: include foods that refuel after a workout.")
	} else {
		sb.WriteString(" Rest day: lighter recovery nutrition.")
	}

	sb.WriteString(" Prefer steamed, grilled, boiled or fresh preparations with minimal processing.")

	if mealCtx.Slot.RequiresVegetable() {
		sb.WriteString(" Include vegetables, root vegetables, nuts or seeds for variety.")
	}

	if mealCtx.Profile != nil {
		fmt.Fprintf(&sb, " For a %.0f kg, %.0f cm %s.",
			mealCtx.Profile.WeightKg, mealCtx.Profile.HeightCm, mealCtx.Profile.Gender)
	}

	return sb.String()
}

// categoryPhrases are the dedicated query texts used for gap-repair
// searches, one per canonical category.
var categoryPhrases = map[string]string{
	"protein":    "Lean protein rich dish such as chicken, fish, eggs or tofu.",
	"carbs":      "Carbohydrate staple such as rice, potatoes, pasta or whole grains.",
	"vegetables": "Fresh or cooked vegetable dish, leafy greens or salad.",
	"fruits":     "Fresh fruit or fruit based snack.",
	"dairy":      "Dairy food such as yogurt, milk or cheese.",
	"fats":       "Healthy fat source such as nuts, seeds, avocado or olive oil.",
	"other":      "Simple wholesome side dish.",
}

// vegetableQueryPhrases back the lunch and dinner vegetable guarantee.
// The second phrase is only embedded when the first finds nothing.
var vegetableQueryPhrases = []string{
	"Vegetable side dish, leafy greens, salad or root vegetables.",
	"Nuts, seeds or plain dairy to round out the meal.",
}
