package nutrition

import "math"

// Calorie density per gram of each macronutrient
const (
	KcalPerGramProtein = 4.0
	KcalPerGramCarbs   = 4.0
	KcalPerGramFat     = 9.0
)

// activityMultipliers maps training-volume tiers to TDEE multipliers.
var activityMultipliers = map[ActivityTier]float64{
	ActivityLow:      1.375,
	ActivityModerate: 1.55,
	ActivityHigh:     1.725,
}

// adjustmentKind selects how the training-day calorie adjustment is applied.
type adjustmentKind int

const (
	adjustFlat adjustmentKind = iota
	adjustWorkoutRatio
)

// calorieRule is the per-objective calorie adjustment rule. On training
// days the adjustment is either a flat kcal amount or a ratio of the
// workout calories; rest days always apply the flat rest amount.
type calorieRule struct {
	kind     adjustmentKind
	training float64
	rest     float64
}

var calorieRules = map[Objective]calorieRule{
	ObjectiveGainMuscle: {kind: adjustFlat, training: 300, rest: 150},
	ObjectiveLoseFat:    {kind: adjustWorkoutRatio, training: -0.5, rest: -400},
	ObjectiveEndurance:  {kind: adjustWorkoutRatio, training: 0.25, rest: 0},
	ObjectiveMaintain:   {kind: adjustFlat, training: 0, rest: 0},
}

// macroSplits is the per-objective calorie share table.
var macroSplits = map[Objective]MacroSplit{
	ObjectiveGainMuscle: {Protein: 0.30, Carbs: 0.45, Fat: 0.25},
	ObjectiveLoseFat:    {Protein: 0.40, Carbs: 0.30, Fat: 0.30},
	ObjectiveEndurance:  {Protein: 0.25, Carbs: 0.55, Fat: 0.20},
	ObjectiveMaintain:   {Protein: 0.30, Carbs: 0.40, Fat: 0.30},
}

// Calculator derives daily and per-meal nutrition targets. All methods are
// pure arithmetic with no I/O; input validation is the caller's concern.
type Calculator struct{}

// NewCalculator creates a nutrition calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// BMR computes basal metabolic rate with the Mifflin-St Jeor equation.
// The equation distinguishes only male and female bodies; that is a
// documented limitation of the formula itself, not of this code.
func (c *Calculator) BMR(profile Profile) float64 {
	base := 10*profile.WeightKg + 6.25*profile.HeightCm - 5*float64(profile.Age)
	if profile.Gender == GenderMale {
		return base + 5
	}
	return base - 161
}

// TierForSessions bands weekly training sessions into an activity tier.
func TierForSessions(sessionsPerWeek int) ActivityTier {
	switch {
	case sessionsPerWeek <= 3:
		return ActivityLow
	case sessionsPerWeek <= 5:
		return ActivityModerate
	default:
		return ActivityHigh
	}
}

// TDEE scales a basal rate by the activity multiplier for the weekly
// training volume.
func (c *Calculator) TDEE(bmr float64, sessionsPerWeek int) float64 {
	return bmr * activityMultipliers[TierForSessions(sessionsPerWeek)]
}

// TargetCalories applies the objective's calorie adjustment on top of TDEE.
// Training days add the workout calories plus the objective's training
// adjustment; rest days apply the flat rest adjustment only, independent
// of workout calories.
func (c *Calculator) TargetCalories(tdee float64, objective Objective, trainingDay bool, workoutCalories float64) float64 {
	rule := calorieRules[objective]
	if !trainingDay {
		return math.Round(tdee + rule.rest)
	}

	adjustment := rule.training
	if rule.kind == adjustWorkoutRatio {
		adjustment = rule.training * workoutCalories
	}
	return math.Round(tdee + workoutCalories + adjustment)
}

// Macros splits daily calories into macro grams for the objective using
// 4 kcal/g for protein and carbs and 9 kcal/g for fat, each rounded to
// the nearest gram.
func (c *Calculator) Macros(calories float64, objective Objective) (proteinG, carbsG, fatG float64) {
	split := macroSplits[objective]
	proteinG = math.Round(calories * split.Protein / KcalPerGramProtein)
	carbsG = math.Round(calories * split.Carbs / KcalPerGramCarbs)
	fatG = math.Round(calories * split.Fat / KcalPerGramFat)
	return proteinG, carbsG, fatG
}

// DailyTarget runs the full derivation: BMR, TDEE, calorie target, macros.
func (c *Calculator) DailyTarget(profile Profile, goal Goal, trainingDay bool, workoutCalories float64) Target {
	bmr := c.BMR(profile)
	tdee := c.TDEE(bmr, goal.SessionsPerWeek)
	calories := c.TargetCalories(tdee, goal.Objective, trainingDay, workoutCalories)
	proteinG, carbsG, fatG := c.Macros(calories, goal.Objective)

	return Target{
		BMR:      bmr,
		TDEE:     tdee,
		Calories: calories,
		ProteinG: proteinG,
		CarbsG:   carbsG,
		FatG:     fatG,
	}
}

// MealTargetFor scales the daily target down to one slot's percentage
// share. Each field rounds independently, so summed slot values may
// drift from the daily total by a few units; consumers accept that.
func (c *Calculator) MealTargetFor(target Target, slotPercent float64) MealTarget {
	fraction := slotPercent / 100
	return MealTarget{
		Calories: math.Round(target.Calories * fraction),
		ProteinG: math.Round(target.ProteinG * fraction),
		CarbsG:   math.Round(target.CarbsG * fraction),
		FatG:     math.Round(target.FatG * fraction),
	}
}
