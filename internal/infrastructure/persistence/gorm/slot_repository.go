package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/mealforge/v2/internal/domain/mealplan"
	"github.com/mealforge/v2/internal/ports/outbound"
)

// SlotRepository implements the meal slot repository interface using GORM
type SlotRepository struct {
	db *gorm.DB
}

// NewSlotRepository creates a new meal slot repository
func NewSlotRepository(db *gorm.DB) outbound.SlotRepository {
	return &SlotRepository{db: db}
}

// ListOrdered returns the configured meal slots in serving order
func (r *SlotRepository) ListOrdered(ctx context.Context) ([]mealplan.Slot, error) {
	var models []MealSlotModel

	result := r.db.WithContext(ctx).Order("sort_order").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	slots := make([]mealplan.Slot, len(models))
	for i := range models {
		slots[i] = ModelToSlot(&models[i])
	}

	return slots, nil
}
