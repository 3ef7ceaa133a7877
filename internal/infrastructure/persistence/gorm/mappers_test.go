package gorm

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealforge/v2/internal/domain/food"
	"github.com/mealforge/v2/internal/domain/mealplan"
	"github.com/mealforge/v2/test/testutils"
)

func TestPlanModelRoundTrip(t *testing.T) {
	foods := testutils.NewFoodFactory(42)
	userID := uuid.New()
	date := time.Date(2025, 6, 2, 13, 45, 0, 0, time.FixedZone("JST", 9*3600))

	plan, err := testutils.NewPlanBuilder().
		WithUser(userID).
		WithDate(date).
		WithTarget(foods.Target()).
		WithMeal(testutils.Slot(mealplan.SlotBreakfast),
			foods.Recommendation(food.CategoryCarbs, 180),
			foods.Recommendation(food.CategoryDairy, 120),
		).
		WithMeal(testutils.Slot(mealplan.SlotLunch),
			foods.Recommendation(food.CategoryProtein, 250),
			foods.Recommendation(food.CategoryCarbs, 200),
			foods.Recommendation(food.CategoryVegetables, 80),
		).
		Build()
	require.NoError(t, err)

	completedAt := time.Date(2025, 6, 2, 12, 30, 0, 0, time.UTC)
	lunchItems := plan.Meals()[1].Recommendations
	require.NoError(t, plan.SetItemCompleted(lunchItems[0].ID, true, completedAt))

	restored := ModelToPlan(PlanToModel(plan))

	assert.Equal(t, plan.ID(), restored.ID())
	assert.Equal(t, plan.UserID(), restored.UserID())
	assert.True(t, restored.Date().Equal(mealplan.NormalizeDate(date)))
	assert.Equal(t, plan.Target(), restored.Target())
	assert.True(t, restored.CreatedAt().Equal(plan.CreatedAt()))
	assert.Equal(t, plan.Meals(), restored.Meals())
	assert.Equal(t, 5, restored.ItemCount())
}

func TestModelToPlanRestoresSlotAndItemOrder(t *testing.T) {
	planID := uuid.New()
	model := &MealPlanModel{
		ID:             planID,
		UserID:         uuid.New(),
		PlanDate:       time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		TargetCalories: 2000,
		CreatedAt:      time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC),
		Meals: []MealPlanMealModel{
			{
				PlanID:        planID,
				SlotCode:      "dinner",
				SlotName:      "Dinner",
				SlotSortOrder: 3,
				Items: []MealPlanItemModel{
					{ID: uuid.New(), FoodID: uuid.New(), FoodName: "Grilled salmon", Position: 1},
					{ID: uuid.New(), FoodID: uuid.New(), FoodName: "Brown rice", Position: 0},
				},
			},
			{
				PlanID:        planID,
				SlotCode:      "breakfast",
				SlotName:      "Breakfast",
				SlotSortOrder: 1,
				Items: []MealPlanItemModel{
					{ID: uuid.New(), FoodID: uuid.New(), FoodName: "Oatmeal", Position: 0},
				},
			},
		},
	}

	meals := ModelToPlan(model).Meals()

	require.Len(t, meals, 2)
	assert.Equal(t, mealplan.SlotBreakfast, meals[0].Slot.Code)
	assert.Equal(t, mealplan.SlotDinner, meals[1].Slot.Code)

	require.Len(t, meals[1].Recommendations, 2)
	assert.Equal(t, "Brown rice", meals[1].Recommendations[0].Food.Name)
	assert.Equal(t, "Grilled salmon", meals[1].Recommendations[1].Food.Name)
}

func TestFoodFactoryCandidatesCanonicalize(t *testing.T) {
	foods := testutils.NewFoodFactory(7)

	// The raw label takes precedence over name keywords, so generated
	// candidates must resolve to the category they were built for no
	// matter which food name the faker picked.
	for _, category := range food.All() {
		candidate := foods.Candidate(category)
		assert.NotEmpty(t, candidate.Name)
		assert.Equal(t, category, candidate.CanonicalCategory())
	}
}
