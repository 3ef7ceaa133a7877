// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PlannerService defines the meal planning use cases. This is the
// primary port the HTTP handlers and CLI adapters drive.
type PlannerService interface {
	// GeneratePlan builds and persists the plan for a user and date.
	// A plan that already exists for that day is returned unchanged.
	GeneratePlan(ctx context.Context, userID uuid.UUID, date time.Time) (*MealPlanDTO, error)

	// GetPlan returns the persisted plan for a user and date.
	GetPlan(ctx context.Context, userID uuid.UUID, date time.Time) (*MealPlanDTO, error)

	// SetItemCompleted toggles the completion flag on one plan item
	// owned by the user.
	SetItemCompleted(ctx context.Context, userID, itemID uuid.UUID, completed bool) (*MealPlanDTO, error)
}

// CatalogIndexer defines the embedding maintenance use cases consumed by
// the indexer CLI.
type CatalogIndexer interface {
	ReindexEmbeddings(ctx context.Context, cmd ReindexCommand) (*ReindexReport, error)
}

// ReindexCommand bounds one embedding backfill run.
type ReindexCommand struct {
	BatchSize int
	Workers   int
	MaxFoods  int
}

// ReindexReport summarizes one embedding backfill run.
type ReindexReport struct {
	Scanned   int           `json:"scanned"`
	Embedded  int           `json:"embedded"`
	Failed    int           `json:"failed"`
	Remaining int64         `json:"remaining"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Response DTOs

// MealPlanDTO is the data transfer object for a generated plan
type MealPlanDTO struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Date      string              `json:"date"`
	Target    TargetDTO           `json:"target"`
	Actual    NutritionSummaryDTO `json:"actual"`
	Meals     []MealDTO           `json:"meals"`
	CreatedAt string              `json:"created_at"`
}

// TargetDTO carries the daily nutrition target
type TargetDTO struct {
	BMR      float64 `json:"bmr"`
	TDEE     float64 `json:"tdee"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// NutritionSummaryDTO carries aggregate nutrition values
type NutritionSummaryDTO struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// MealDTO is one slot's generated meal
type MealDTO struct {
	SlotCode   string              `json:"slot_code"`
	SlotName   string              `json:"slot_name"`
	Percentage float64             `json:"percentage"`
	Target     NutritionSummaryDTO `json:"target"`
	Items      []RecommendationDTO `json:"items"`
}

// RecommendationDTO is one recommended food with serving guidance
type RecommendationDTO struct {
	ID           uuid.UUID `json:"id"`
	FoodID       uuid.UUID `json:"food_id"`
	Name         string    `json:"name"`
	NameEn       string    `json:"name_en,omitempty"`
	Category     string    `json:"category"`
	Score        float64   `json:"score"`
	Reason       string    `json:"reason"`
	ServingGrams float64   `json:"serving_grams"`
	CalorieLimit float64   `json:"calorie_limit"`
	Calories     float64   `json:"calories"`
	ProteinG     float64   `json:"protein_g"`
	CarbsG       float64   `json:"carbs_g"`
	FatG         float64   `json:"fat_g"`
	Completed    bool      `json:"completed"`
	CompletedAt  *string   `json:"completed_at,omitempty"`
}
