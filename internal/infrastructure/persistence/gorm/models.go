// Package gorm provides GORM model definitions for the application
package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileModel represents the GORM model for body profiles. Rows are
// owned by the account system; this engine only reads them.
type ProfileModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Gender    string    `gorm:"type:varchar(10);not null"`
	WeightKg  float64   `gorm:"not null"`
	HeightCm  float64   `gorm:"not null"`
	Age       int       `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GoalModel represents the GORM model for fitness goals. At most one row
// per user is active; a partial unique index in the schema enforces it.
type GoalModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Objective       string    `gorm:"type:varchar(20);not null"`
	SessionsPerWeek int       `gorm:"default:0"`
	IsActive        bool      `gorm:"default:false;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NutritionTargetModel represents the GORM model for derived daily
// targets, one row per (user, goal).
type NutritionTargetModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_targets_user_goal"`
	GoalID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_targets_user_goal"`
	BMR       float64   `gorm:"not null"`
	TDEE      float64   `gorm:"not null"`
	Calories  float64   `gorm:"not null"`
	ProteinG  float64   `gorm:"not null"`
	CarbsG    float64   `gorm:"not null"`
	FatG      float64   `gorm:"not null"`
	CreatedAt time.Time
}

// MealSlotModel represents the GORM model for the fixed meal slot
// configuration.
type MealSlotModel struct {
	Code       string  `gorm:"type:varchar(20);primaryKey"`
	Name       string  `gorm:"type:varchar(50);not null"`
	Percentage float64 `gorm:"not null"`
	SortOrder  int     `gorm:"not null"`
}

// MealPlanModel represents the GORM model for meal plan headers. The
// (user_id, plan_date) pair is unique so concurrent generation cannot
// produce two plans for one day.
type MealPlanModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_plans_user_date"`
	PlanDate       time.Time `gorm:"type:date;not null;uniqueIndex:idx_plans_user_date"`
	TargetBMR      float64   `gorm:"not null"`
	TargetTDEE     float64   `gorm:"not null"`
	TargetCalories float64   `gorm:"not null"`
	TargetProteinG float64   `gorm:"not null"`
	TargetCarbsG   float64   `gorm:"not null"`
	TargetFatG     float64   `gorm:"not null"`
	CreatedAt      time.Time

	Meals []MealPlanMealModel `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}

// MealPlanMealModel represents one generated meal within a plan. Slot
// fields are snapshots: reconfiguring slots later must not change plans
// already generated.
type MealPlanMealModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlanID         uuid.UUID `gorm:"type:uuid;not null;index"`
	SlotCode       string    `gorm:"type:varchar(20);not null"`
	SlotName       string    `gorm:"type:varchar(50);not null"`
	SlotPercentage float64   `gorm:"not null"`
	SlotSortOrder  int       `gorm:"not null"`
	TargetCalories float64   `gorm:"not null"`
	TargetProteinG float64   `gorm:"not null"`
	TargetCarbsG   float64   `gorm:"not null"`
	TargetFatG     float64   `gorm:"not null"`

	Items []MealPlanItemModel `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE"`
}

// MealPlanItemModel represents one recommendation within a meal. Food
// macros are per-100g snapshots taken at generation time.
type MealPlanItemModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	MealID       uuid.UUID `gorm:"type:uuid;not null;index"`
	FoodID       uuid.UUID `gorm:"type:uuid;not null;index"`
	FoodName     string    `gorm:"type:varchar(255);not null"`
	FoodNameEn   string    `gorm:"type:varchar(255)"`
	FoodCategory string    `gorm:"type:varchar(50)"`
	Calories     float64   `gorm:"not null"`
	Protein      float64   `gorm:"not null"`
	Carbs        float64   `gorm:"not null"`
	Fat          float64   `gorm:"not null"`
	Fiber        float64   `gorm:"default:0"`
	Similarity   float64   `gorm:"default:0"`
	Score        float64   `gorm:"not null"`
	Reason       string    `gorm:"type:text"`
	ServingGrams float64   `gorm:"not null"`
	CalorieLimit float64   `gorm:"not null"`
	Completed    bool      `gorm:"default:false;index"`
	CompletedAt  *time.Time
	Position     int `gorm:"not null;default:0"`
}

// WorkoutSessionModel represents the GORM model for workout sessions.
// Rows are owned by the training system; this engine only reads them.
type WorkoutSessionModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_workouts_user_date"`
	SessionDate    time.Time `gorm:"type:date;not null;index:idx_workouts_user_date"`
	Name           string    `gorm:"type:varchar(255)"`
	DurationMin    int       `gorm:"default:0"`
	CaloriesBurned float64   `gorm:"default:0"`
	CreatedAt      time.Time
}

// BeforeCreate hook for ProfileModel
func (p *ProfileModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for GoalModel
func (g *GoalModel) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for NutritionTargetModel
func (t *NutritionTargetModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealPlanMealModel
func (m *MealPlanMealModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for WorkoutSessionModel
func (w *WorkoutSessionModel) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (ProfileModel) TableName() string {
	return "profiles"
}

func (GoalModel) TableName() string {
	return "goals"
}

func (NutritionTargetModel) TableName() string {
	return "nutrition_targets"
}

func (MealSlotModel) TableName() string {
	return "meal_slots"
}

func (MealPlanModel) TableName() string {
	return "meal_plans"
}

func (MealPlanMealModel) TableName() string {
	return "meal_plan_meals"
}

func (MealPlanItemModel) TableName() string {
	return "meal_plan_items"
}

func (WorkoutSessionModel) TableName() string {
	return "workout_sessions"
}
