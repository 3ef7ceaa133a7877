// Package nutrition holds the pure calculation core: basal metabolic rate,
// total daily energy expenditure, calorie targets and macro splits.
package nutrition

// Gender selects the constant term of the Mifflin-St Jeor equation.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether the gender is one the formula distinguishes.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Objective is the fitness objective driving calorie adjustments and
// macro ratios.
type Objective string

const (
	ObjectiveGainMuscle Objective = "gain_muscle"
	ObjectiveLoseFat    Objective = "lose_fat"
	ObjectiveEndurance  Objective = "endurance"
	ObjectiveMaintain   Objective = "maintain"
)

// Valid reports whether the objective is a known value.
func (o Objective) Valid() bool {
	switch o {
	case ObjectiveGainMuscle, ObjectiveLoseFat, ObjectiveEndurance, ObjectiveMaintain:
		return true
	}
	return false
}

// ActivityTier bands weekly training volume for TDEE multipliers.
type ActivityTier string

const (
	ActivityLow      ActivityTier = "low"
	ActivityModerate ActivityTier = "moderate"
	ActivityHigh     ActivityTier = "high"
)

// Profile is an immutable snapshot of the body metrics feeding one
// calculation. It is owned by the caller and never persisted here.
type Profile struct {
	Gender   Gender  `json:"gender"`
	WeightKg float64 `json:"weight_kg"`
	HeightCm float64 `json:"height_cm"`
	Age      int     `json:"age"`
}

// Validate checks the numeric ranges the calculator assumes.
func (p Profile) Validate() error {
	if !p.Gender.Valid() {
		return ErrInvalidGender
	}
	if p.WeightKg <= 0 {
		return ErrInvalidWeight
	}
	if p.HeightCm <= 0 {
		return ErrInvalidHeight
	}
	if p.Age <= 0 {
		return ErrInvalidAge
	}
	return nil
}

// Goal is the active fitness goal for a user. Exactly one goal is active
// per user at a time; the store enforces that, this package only reads it.
type Goal struct {
	Objective       Objective `json:"objective"`
	SessionsPerWeek int       `json:"sessions_per_week"`
}

// Validate checks the goal fields the calculator assumes.
func (g Goal) Validate() error {
	if !g.Objective.Valid() {
		return ErrInvalidObjective
	}
	if g.SessionsPerWeek < 0 {
		return ErrInvalidSessions
	}
	return nil
}

// Target holds the derived daily nutrition targets. For a fixed
// (profile, goal, training day, workout calories) tuple the value is
// deterministic, so it can be persisted once and reused.
type Target struct {
	BMR      float64 `json:"bmr"`
	TDEE     float64 `json:"tdee"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// MealTarget is the share of a daily target assigned to one meal slot.
type MealTarget struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// MacroSplit is the calorie share per macronutrient for one objective.
// The three shares sum to 1.
type MacroSplit struct {
	Protein float64
	Carbs   float64
	Fat     float64
}
