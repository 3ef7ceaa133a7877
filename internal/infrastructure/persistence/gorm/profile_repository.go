package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/ports/outbound"
)

// ProfileRepository implements the profile repository interface using GORM
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) outbound.ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByUserID returns the user's body profile, or nil when none exists
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*nutrition.Profile, error) {
	var model ProfileModel

	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return ModelToProfile(&model), nil
}
