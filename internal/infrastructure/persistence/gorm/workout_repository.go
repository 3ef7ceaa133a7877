package gorm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealforge/v2/internal/domain/mealplan"
	"github.com/mealforge/v2/internal/ports/outbound"
)

// WorkoutRepository implements the workout repository interface using GORM
type WorkoutRepository struct {
	db *gorm.DB
}

// NewWorkoutRepository creates a new workout repository
func NewWorkoutRepository(db *gorm.DB) outbound.WorkoutRepository {
	return &WorkoutRepository{db: db}
}

// TrainingContextFor aggregates the workout load scheduled for one date.
// A day with no sessions is a rest day with zero workout calories.
func (r *WorkoutRepository) TrainingContextFor(ctx context.Context, userID uuid.UUID, date time.Time) (outbound.TrainingContext, error) {
	var row struct {
		SessionCount  int64
		TotalCalories float64
	}

	result := r.db.WithContext(ctx).
		Model(&WorkoutSessionModel{}).
		Select("COUNT(*) AS session_count, COALESCE(SUM(calories_burned), 0) AS total_calories").
		Where("user_id = ? AND session_date = ?", userID, mealplan.NormalizeDate(date)).
		Scan(&row)

	if result.Error != nil {
		return outbound.TrainingContext{}, result.Error
	}

	return outbound.TrainingContext{
		TrainingDay:     row.SessionCount > 0,
		WorkoutCalories: row.TotalCalories,
	}, nil
}
