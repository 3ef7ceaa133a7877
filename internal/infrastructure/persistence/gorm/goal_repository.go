package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealforge/v2/internal/ports/outbound"
)

// GoalRepository implements the goal repository interface using GORM
type GoalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *gorm.DB) outbound.GoalRepository {
	return &GoalRepository{db: db}
}

// FindActiveByUserID returns the user's active goal, or nil when none is
// active. The schema allows at most one active goal per user.
func (r *GoalRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID) (*outbound.ActiveGoal, error) {
	var model GoalModel

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active", userID).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return ModelToActiveGoal(&model), nil
}
