// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mealforge/v2/internal/domain/food"
	"github.com/mealforge/v2/internal/domain/mealplan"
	"github.com/mealforge/v2/internal/domain/nutrition"
)

// ProfileRepository reads the body profiles owned by the account system.
// Profiles are consumed as immutable snapshots; this engine never writes them.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*nutrition.Profile, error)
}

// ActiveGoal couples a stored goal row with its domain value. The row id
// keys the nutrition target derived from it.
type ActiveGoal struct {
	ID   uuid.UUID
	Goal nutrition.Goal
}

// GoalRepository reads fitness goals. The store guarantees at most one
// active goal per user.
type GoalRepository interface {
	// FindActiveByUserID returns nil when the user has no active goal.
	FindActiveByUserID(ctx context.Context, userID uuid.UUID) (*ActiveGoal, error)
}

// TargetRepository persists derived nutrition targets. A target is
// deterministic per (user, goal) and is written once, then reused.
type TargetRepository interface {
	// FindActive returns nil when no target was computed for the goal yet.
	FindActive(ctx context.Context, userID, goalID uuid.UUID) (*nutrition.Target, error)
	Save(ctx context.Context, userID, goalID uuid.UUID, target nutrition.Target) error
}

// SlotRepository reads the fixed meal slot configuration.
type SlotRepository interface {
	ListOrdered(ctx context.Context) ([]mealplan.Slot, error)
}

// TrainingContext describes the workout load scheduled for one date.
type TrainingContext struct {
	TrainingDay     bool
	WorkoutCalories float64
}

// WorkoutRepository reads workout sessions owned by the training system.
type WorkoutRepository interface {
	TrainingContextFor(ctx context.Context, userID uuid.UUID, date time.Time) (TrainingContext, error)
}

// PlanRepository persists meal plans. Create writes the header and all
// items in one transaction; a partial plan must never become visible.
type PlanRepository interface {
	Create(ctx context.Context, plan *mealplan.MealPlan) error

	// FindByUserAndDate returns nil when no plan exists for the day.
	FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*mealplan.MealPlan, error)

	// FindByItemID resolves the plan owning one item.
	FindByItemID(ctx context.Context, itemID uuid.UUID) (*mealplan.MealPlan, error)

	// UpdateItemCompletion persists a completion toggle.
	UpdateItemCompletion(ctx context.Context, itemID uuid.UUID, completed bool, completedAt *time.Time) error

	// CompletedFoodIDsSince lists foods the user completed after the
	// cutoff, used to keep recently eaten foods out of new searches.
	CompletedFoodIDsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]uuid.UUID, error)
}

// SearchFilters is the open predicate set of the candidate search. Nil
// fields are not applied.
type SearchFilters struct {
	Category    *food.Category
	MealSlot    *mealplan.SlotCode
	MinProtein  *float64
	MaxCalories *float64
}

// FoodSearchIndex is the nearest-neighbor view over the food catalog.
// Results come back ordered by descending similarity; an unmatched
// filter set yields an empty slice, not an error; excluded ids are
// removed before the limit is applied.
type FoodSearchIndex interface {
	Search(ctx context.Context, embedding []float32, filters SearchFilters, excludedIDs []uuid.UUID, limit int) ([]food.Candidate, error)
}

// CatalogEntry is one catalog row seen by embedding maintenance.
type CatalogEntry struct {
	ID          uuid.UUID
	Name        string
	NameEn      string
	Category    string
	Description string
}

// FoodCatalogMaintenance covers the batch (re)population of catalog
// embeddings, outside the recommendation path.
type FoodCatalogMaintenance interface {
	ListMissingEmbeddings(ctx context.Context, limit int) ([]CatalogEntry, error)
	CountMissingEmbeddings(ctx context.Context) (int64, error)
	UpdateEmbedding(ctx context.Context, foodID uuid.UUID, embedding []float32) error
}

// EmbeddingClient computes text embeddings with a fixed dimensionality.
// Failures propagate to the caller; no retries happen at this layer.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
