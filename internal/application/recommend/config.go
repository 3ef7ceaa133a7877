// Package recommend implements the meal recommendation engine: query
// construction, candidate scoring, ranking and category-diversity
// enforcement for one meal slot at a time.
package recommend

import (
	"github.com/mealforge/v2/internal/domain/food"
)

// Config holds the engine's scoring and sizing constants. Values are
// tunable through configuration; the defaults below are the reference
// behavior.
type Config struct {
	// Scoring weights and thresholds
	SimilarityWeight   float64
	HighProteinTargetG float64
	ProteinRichG       float64
	HighCarbTargetG    float64
	CarbRichG          float64
	ProteinBonus       float64
	CarbBonus          float64
	GoalBonus          float64
	GoalFallbackBonus  float64
	LowCalorieCeiling  float64

	// Variety bonuses, lunch and dinner only
	VegetableBonus     float64
	RootVegetableBonus float64
	NutSeedBonus       float64
	DairyBonus         float64

	// Retrieval and serving sizing
	MaxCalorieRatio    float64
	DishesPerMeal      float64
	MinServingGrams    float64
	MaxServingGrams    float64
	ServingIncrementG  float64
	MaxRecommendations int
	PoolSize           int
	RepairPoolSize     int

	// Repair bounds
	MaxCategoryRepairs   int
	MaxVegetableSearches int

	// Per-category admission caps
	CategoryCaps map[food.Category]int
}

// DefaultConfig returns the reference engine constants.
func DefaultConfig() Config {
	return Config{
		SimilarityWeight:   0.6,
		HighProteinTargetG: 30,
		ProteinRichG:       15,
		HighCarbTargetG:    50,
		CarbRichG:          20,
		ProteinBonus:       0.10,
		CarbBonus:          0.05,
		GoalBonus:          0.15,
		GoalFallbackBonus:  0.05,
		LowCalorieCeiling:  120,

		VegetableBonus:     0.12,
		RootVegetableBonus: 0.10,
		NutSeedBonus:       0.08,
		DairyBonus:         0.06,

		MaxCalorieRatio:    1.2,
		DishesPerMeal:      4,
		MinServingGrams:    50,
		MaxServingGrams:    300,
		ServingIncrementG:  10,
		MaxRecommendations: 6,
		PoolSize:           20,
		RepairPoolSize:     10,

		MaxCategoryRepairs:   3,
		MaxVegetableSearches: 2,

		CategoryCaps: map[food.Category]int{
			food.CategoryProtein:    3,
			food.CategoryCarbs:      2,
			food.CategoryVegetables: 2,
			food.CategoryFruits:     1,
			food.CategoryDairy:      1,
			food.CategoryFats:       1,
			food.CategoryOther:      1,
		},
	}
}

// capFor returns the admission cap for a category, defaulting to 1 for
// anything the table does not name.
func (c Config) capFor(category food.Category) int {
	if cap, ok := c.CategoryCaps[category]; ok {
		return cap
	}
	return 1
}
