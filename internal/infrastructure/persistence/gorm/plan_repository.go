// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	"github.com/mealforge/v2/internal/domain/mealplan"
	"github.com/mealforge/v2/internal/ports/outbound"
	pkgerrors "github.com/mealforge/v2/pkg/errors"
)

const uniqueViolationCode = "23505"

// PlanRepository implements the meal plan repository interface using GORM
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new meal plan repository
func NewPlanRepository(db *gorm.DB) outbound.PlanRepository {
	return &PlanRepository{db: db}
}

// Create persists the plan header, meals and items in one transaction.
// A concurrent insert for the same (user, date) surfaces as a plan
// exists error so the caller can fall back to the stored winner.
func (r *PlanRepository) Create(ctx context.Context, plan *mealplan.MealPlan) error {
	model := PlanToModel(plan)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return pkgerrors.NewPlanExistsError(plan.UserID().String(), plan.Date().Format("2006-01-02"))
		}
		return err
	}

	return nil
}

// FindByUserAndDate returns the plan for a user on a calendar day, or nil
// when none exists.
func (r *PlanRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*mealplan.MealPlan, error) {
	var model MealPlanModel

	result := r.db.WithContext(ctx).
		Preload("Meals.Items").
		Where("user_id = ? AND plan_date = ?", userID, mealplan.NormalizeDate(date)).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return ModelToPlan(&model), nil
}

// FindByItemID resolves the plan owning one item, or nil when the item
// does not exist.
func (r *PlanRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) (*mealplan.MealPlan, error) {
	var row struct {
		PlanID uuid.UUID
	}

	result := r.db.WithContext(ctx).
		Table("meal_plan_items").
		Select("meal_plan_meals.plan_id AS plan_id").
		Joins("JOIN meal_plan_meals ON meal_plan_meals.id = meal_plan_items.meal_id").
		Where("meal_plan_items.id = ?", itemID).
		Take(&row)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	var model MealPlanModel
	if err := r.db.WithContext(ctx).Preload("Meals.Items").First(&model, "id = ?", row.PlanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return ModelToPlan(&model), nil
}

// UpdateItemCompletion persists a completion toggle on one item
func (r *PlanRepository) UpdateItemCompletion(ctx context.Context, itemID uuid.UUID, completed bool, completedAt *time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&MealPlanItemModel{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"completed":    completed,
			"completed_at": completedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("plan item not found")
	}

	return nil
}

// CompletedFoodIDsSince lists distinct foods the user completed after the
// cutoff.
func (r *PlanRepository) CompletedFoodIDsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	result := r.db.WithContext(ctx).
		Table("meal_plan_items").
		Distinct().
		Joins("JOIN meal_plan_meals ON meal_plan_meals.id = meal_plan_items.meal_id").
		Joins("JOIN meal_plans ON meal_plans.id = meal_plan_meals.plan_id").
		Where("meal_plans.user_id = ? AND meal_plan_items.completed AND meal_plan_items.completed_at >= ?", userID, since).
		Pluck("meal_plan_items.food_id", &ids)

	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}
