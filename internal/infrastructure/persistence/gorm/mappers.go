// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"sort"

	"github.com/mealforge/v2/internal/domain/food"
	"github.com/mealforge/v2/internal/domain/mealplan"
	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/ports/outbound"
)

// ModelToProfile converts a profile model to the domain snapshot
func ModelToProfile(model *ProfileModel) *nutrition.Profile {
	return &nutrition.Profile{
		Gender:   nutrition.Gender(model.Gender),
		WeightKg: model.WeightKg,
		HeightCm: model.HeightCm,
		Age:      model.Age,
	}
}

// ModelToActiveGoal converts a goal model to the active goal view
func ModelToActiveGoal(model *GoalModel) *outbound.ActiveGoal {
	return &outbound.ActiveGoal{
		ID: model.ID,
		Goal: nutrition.Goal{
			Objective:       nutrition.Objective(model.Objective),
			SessionsPerWeek: model.SessionsPerWeek,
		},
	}
}

// ModelToTarget converts a target model to the domain value
func ModelToTarget(model *NutritionTargetModel) *nutrition.Target {
	return &nutrition.Target{
		BMR:      model.BMR,
		TDEE:     model.TDEE,
		Calories: model.Calories,
		ProteinG: model.ProteinG,
		CarbsG:   model.CarbsG,
		FatG:     model.FatG,
	}
}

// ModelToSlot converts a slot model to the domain value
func ModelToSlot(model *MealSlotModel) mealplan.Slot {
	return mealplan.Slot{
		Code:       mealplan.SlotCode(model.Code),
		Name:       model.Name,
		Percentage: model.Percentage,
		SortOrder:  model.SortOrder,
	}
}

// PlanToModel converts a meal plan aggregate to its persistence models
func PlanToModel(plan *mealplan.MealPlan) *MealPlanModel {
	target := plan.Target()
	model := &MealPlanModel{
		ID:             plan.ID(),
		UserID:         plan.UserID(),
		PlanDate:       plan.Date(),
		TargetBMR:      target.BMR,
		TargetTDEE:     target.TDEE,
		TargetCalories: target.Calories,
		TargetProteinG: target.ProteinG,
		TargetCarbsG:   target.CarbsG,
		TargetFatG:     target.FatG,
		CreatedAt:      plan.CreatedAt(),
	}

	for _, meal := range plan.Meals() {
		mealModel := MealPlanMealModel{
			PlanID:         plan.ID(),
			SlotCode:       string(meal.Slot.Code),
			SlotName:       meal.Slot.Name,
			SlotPercentage: meal.Slot.Percentage,
			SlotSortOrder:  meal.Slot.SortOrder,
			TargetCalories: meal.Target.Calories,
			TargetProteinG: meal.Target.ProteinG,
			TargetCarbsG:   meal.Target.CarbsG,
			TargetFatG:     meal.Target.FatG,
		}

		for i, rec := range meal.Recommendations {
			mealModel.Items = append(mealModel.Items, MealPlanItemModel{
				ID:           rec.ID,
				FoodID:       rec.Food.ID,
				FoodName:     rec.Food.Name,
				FoodNameEn:   rec.Food.NameEn,
				FoodCategory: rec.Food.RawCategory,
				Calories:     rec.Food.Calories,
				Protein:      rec.Food.Protein,
				Carbs:        rec.Food.Carbs,
				Fat:          rec.Food.Fat,
				Fiber:        rec.Food.Fiber,
				Similarity:   rec.Food.Similarity,
				Score:        rec.Score,
				Reason:       rec.Reason,
				ServingGrams: rec.ServingGrams,
				CalorieLimit: rec.CalorieLimit,
				Completed:    rec.Completed,
				CompletedAt:  rec.CompletedAt,
				Position:     i,
			})
		}

		model.Meals = append(model.Meals, mealModel)
	}

	return model
}

// ModelToPlan reconstructs a meal plan aggregate from persistence models
func ModelToPlan(model *MealPlanModel) *mealplan.MealPlan {
	target := nutrition.Target{
		BMR:      model.TargetBMR,
		TDEE:     model.TargetTDEE,
		Calories: model.TargetCalories,
		ProteinG: model.TargetProteinG,
		CarbsG:   model.TargetCarbsG,
		FatG:     model.TargetFatG,
	}

	mealModels := make([]MealPlanMealModel, len(model.Meals))
	copy(mealModels, model.Meals)
	sort.SliceStable(mealModels, func(i, j int) bool {
		return mealModels[i].SlotSortOrder < mealModels[j].SlotSortOrder
	})

	meals := make([]mealplan.Meal, 0, len(mealModels))
	for _, mealModel := range mealModels {
		items := make([]MealPlanItemModel, len(mealModel.Items))
		copy(items, mealModel.Items)
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Position < items[j].Position
		})

		recommendations := make([]mealplan.Recommendation, 0, len(items))
		for _, item := range items {
			recommendations = append(recommendations, mealplan.Recommendation{
				ID: item.ID,
				Food: food.Candidate{
					ID:          item.FoodID,
					Name:        item.FoodName,
					NameEn:      item.FoodNameEn,
					RawCategory: item.FoodCategory,
					Calories:    item.Calories,
					Protein:     item.Protein,
					Carbs:       item.Carbs,
					Fat:         item.Fat,
					Fiber:       item.Fiber,
					Similarity:  item.Similarity,
				},
				Score:        item.Score,
				Reason:       item.Reason,
				ServingGrams: item.ServingGrams,
				CalorieLimit: item.CalorieLimit,
				Completed:    item.Completed,
				CompletedAt:  item.CompletedAt,
			})
		}

		meals = append(meals, mealplan.Meal{
			Slot: mealplan.Slot{
				Code:       mealplan.SlotCode(mealModel.SlotCode),
				Name:       mealModel.SlotName,
				Percentage: mealModel.SlotPercentage,
				SortOrder:  mealModel.SlotSortOrder,
			},
			Target: nutrition.MealTarget{
				Calories: mealModel.TargetCalories,
				ProteinG: mealModel.TargetProteinG,
				CarbsG:   mealModel.TargetCarbsG,
				FatG:     mealModel.TargetFatG,
			},
			Recommendations: recommendations,
		})
	}

	return mealplan.ReconstructMealPlan(model.ID, model.UserID, model.PlanDate, target, meals, model.CreatedAt)
}
