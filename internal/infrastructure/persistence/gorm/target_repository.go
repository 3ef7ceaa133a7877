package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/ports/outbound"
)

// TargetRepository implements the nutrition target repository using GORM
type TargetRepository struct {
	db *gorm.DB
}

// NewTargetRepository creates a new nutrition target repository
func NewTargetRepository(db *gorm.DB) outbound.TargetRepository {
	return &TargetRepository{db: db}
}

// FindActive returns the stored target for a (user, goal) pair, or nil
// when none was computed yet.
func (r *TargetRepository) FindActive(ctx context.Context, userID, goalID uuid.UUID) (*nutrition.Target, error) {
	var model NutritionTargetModel

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND goal_id = ?", userID, goalID).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return ModelToTarget(&model), nil
}

// Save stores a derived target. Targets are deterministic per (user,
// goal), so a concurrent save of the same pair is harmless and the first
// row wins.
func (r *TargetRepository) Save(ctx context.Context, userID, goalID uuid.UUID, target nutrition.Target) error {
	model := &NutritionTargetModel{
		UserID:   userID,
		GoalID:   goalID,
		BMR:      target.BMR,
		TDEE:     target.TDEE,
		Calories: target.Calories,
		ProteinG: target.ProteinG,
		CarbsG:   target.CarbsG,
		FatG:     target.FatG,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "goal_id"}},
			DoNothing: true,
		}).
		Create(model).Error
}
