// Package planner provides the application layer for meal plan
// generation. It implements the use cases defined in the inbound ports.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealforge/v2/internal/application/recommend"
	"github.com/mealforge/v2/internal/domain/food"
	"github.com/mealforge/v2/internal/domain/mealplan"
	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/domain/shared"
	"github.com/mealforge/v2/internal/ports/inbound"
	"github.com/mealforge/v2/internal/ports/outbound"
	"github.com/mealforge/v2/pkg/errors"
)

const (
	dateLayout = "2006-01-02"

	// Foods completed within this window are excluded from new searches.
	recencyWindow = 48 * time.Hour

	planCacheTTL = 15 * time.Minute

	// A target is immutable per (user, goal); the cache only saves the
	// repository lookup.
	targetCacheTTL = 12 * time.Hour
)

// PlannerService implements the meal planning use cases.
type PlannerService struct {
	profiles    outbound.ProfileRepository
	goals       outbound.GoalRepository
	targets     outbound.TargetRepository
	slots       outbound.SlotRepository
	workouts    outbound.WorkoutRepository
	plans       outbound.PlanRepository
	recommender recommend.SlotRecommender
	calculator  *nutrition.Calculator
	cache       outbound.CacheRepository
	events      shared.EventDispatcher
	logger      *zap.Logger
}

// NewPlannerService creates a new planner service.
func NewPlannerService(
	profiles outbound.ProfileRepository,
	goals outbound.GoalRepository,
	targets outbound.TargetRepository,
	slots outbound.SlotRepository,
	workouts outbound.WorkoutRepository,
	plans outbound.PlanRepository,
	recommender recommend.SlotRecommender,
	calculator *nutrition.Calculator,
	cache outbound.CacheRepository,
	events shared.EventDispatcher,
	logger *zap.Logger,
) inbound.PlannerService {
	return &PlannerService{
		profiles:    profiles,
		goals:       goals,
		targets:     targets,
		slots:       slots,
		workouts:    workouts,
		plans:       plans,
		recommender: recommender,
		calculator:  calculator,
		cache:       cache,
		events:      events,
		logger:      logger.Named("planner-service"),
	}
}

// GeneratePlan builds and persists the meal plan for one user and day.
// Generation is idempotent: an existing plan for that day is returned
// verbatim without touching the embedding or search collaborators.
func (s *PlannerService) GeneratePlan(ctx context.Context, userID uuid.UUID, date time.Time) (*inbound.MealPlanDTO, error) {
	day := mealplan.NormalizeDate(date)
	s.logger.Info("Generating meal plan",
		zap.String("user_id", userID.String()),
		zap.String("date", day.Format(dateLayout)),
	)

	if dto := s.getCachedPlan(ctx, userID, day); dto != nil {
		return dto, nil
	}

	existing, err := s.plans.FindByUserAndDate(ctx, userID, day)
	if err != nil {
		return nil, errors.NewDatabaseError("find meal plan", err)
	}
	if existing != nil {
		dto := s.planToDTO(existing)
		s.cachePlan(ctx, dto)
		return dto, nil
	}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("find profile", err)
	}
	if profile == nil {
		return nil, errors.NewProfileNotFoundError(userID.String())
	}
	if err := profile.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	activeGoal, err := s.goals.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("find active goal", err)
	}
	if activeGoal == nil {
		return nil, errors.NewGoalNotFoundError(userID.String())
	}
	if err := activeGoal.Goal.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	training, err := s.workouts.TrainingContextFor(ctx, userID, day)
	if err != nil {
		return nil, errors.NewDatabaseError("load training context", err)
	}

	target, err := s.resolveTarget(ctx, userID, activeGoal, *profile, training)
	if err != nil {
		return nil, err
	}

	slots, err := s.slots.ListOrdered(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list meal slots", err)
	}
	if len(slots) == 0 {
		return nil, errors.NewInternalError("no meal slots configured")
	}

	excluded := s.recentFoodIDs(ctx, userID, day)

	plan, err := mealplan.NewMealPlan(userID, day, target)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create meal plan")
	}

	for _, slot := range slots {
		mealTarget := s.calculator.MealTargetFor(target, slot.Percentage)
		result, err := s.recommender.RecommendForSlot(ctx, recommend.MealContext{
			Slot:            slot,
			Target:          mealTarget,
			Objective:       activeGoal.Goal.Objective,
			TrainingDay:     training.TrainingDay,
			Profile:         profile,
			ExcludedFoodIDs: excluded,
		})
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("failed to fill %s slot", slot.Code))
		}
		if err := plan.AddMeal(slot, mealTarget, result.Recommendations); err != nil {
			return nil, errors.Wrap(err, "failed to add meal")
		}
		if len(result.RepairedCategories) > 0 {
			plan.MarkRepaired(slot.Code, categoryNames(result.RepairedCategories))
		}
	}

	if err := plan.Finalize(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize meal plan")
	}

	if err := s.plans.Create(ctx, plan); err != nil {
		if errors.GetCode(err) == errors.CodePlanExists {
			// Lost a generation race. The stored plan wins so repeated
			// requests stay idempotent.
			winner, findErr := s.plans.FindByUserAndDate(ctx, userID, day)
			if findErr != nil || winner == nil {
				return nil, errors.NewDatabaseError("find meal plan", findErr)
			}
			dto := s.planToDTO(winner)
			s.cachePlan(ctx, dto)
			return dto, nil
		}
		return nil, errors.NewDatabaseError("create meal plan", err)
	}

	s.publishEvents(plan)

	dto := s.planToDTO(plan)
	s.cachePlan(ctx, dto)

	s.logger.Info("Meal plan generated",
		zap.String("plan_id", dto.ID.String()),
		zap.Int("meals", len(dto.Meals)),
	)

	return dto, nil
}

// GetPlan returns the persisted plan for a user and date.
func (s *PlannerService) GetPlan(ctx context.Context, userID uuid.UUID, date time.Time) (*inbound.MealPlanDTO, error) {
	day := mealplan.NormalizeDate(date)

	if dto := s.getCachedPlan(ctx, userID, day); dto != nil {
		return dto, nil
	}

	plan, err := s.plans.FindByUserAndDate(ctx, userID, day)
	if err != nil {
		return nil, errors.NewDatabaseError("find meal plan", err)
	}
	if plan == nil {
		return nil, errors.NewPlanNotFoundError(userID.String(), day.Format(dateLayout))
	}

	dto := s.planToDTO(plan)
	s.cachePlan(ctx, dto)
	return dto, nil
}

// SetItemCompleted toggles the completion flag on one plan item owned by
// the user and returns the updated plan.
func (s *PlannerService) SetItemCompleted(ctx context.Context, userID, itemID uuid.UUID, completed bool) (*inbound.MealPlanDTO, error) {
	plan, err := s.plans.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, errors.NewDatabaseError("find plan item", err)
	}
	// Items of other users are reported as missing rather than forbidden.
	if plan == nil || plan.UserID() != userID {
		return nil, errors.NewNotFoundError("plan item")
	}

	now := time.Now().UTC()
	if err := plan.SetItemCompleted(itemID, completed, now); err != nil {
		return nil, errors.NewNotFoundError("plan item")
	}

	var completedAt *time.Time
	if completed {
		completedAt = &now
	}
	if err := s.plans.UpdateItemCompletion(ctx, itemID, completed, completedAt); err != nil {
		return nil, errors.NewDatabaseError("update item completion", err)
	}

	s.publishEvents(plan)
	s.invalidatePlanCache(ctx, plan.UserID(), plan.Date())

	s.logger.Info("Plan item completion changed",
		zap.String("item_id", itemID.String()),
		zap.Bool("completed", completed),
	)

	return s.planToDTO(plan), nil
}

// resolveTarget loads the stored target for the user's active goal or
// computes and stores a fresh one. The target is reused until the goal
// changes.
func (s *PlannerService) resolveTarget(
	ctx context.Context,
	userID uuid.UUID,
	activeGoal *outbound.ActiveGoal,
	profile nutrition.Profile,
	training outbound.TrainingContext,
) (nutrition.Target, error) {
	if cached := s.getCachedTarget(ctx, userID, activeGoal.ID); cached != nil {
		return *cached, nil
	}

	stored, err := s.targets.FindActive(ctx, userID, activeGoal.ID)
	if err != nil {
		return nutrition.Target{}, errors.NewDatabaseError("find nutrition target", err)
	}
	if stored != nil {
		s.cacheTarget(ctx, userID, activeGoal.ID, *stored)
		return *stored, nil
	}

	target := s.calculator.DailyTarget(profile, activeGoal.Goal, training.TrainingDay, training.WorkoutCalories)
	if err := s.targets.Save(ctx, userID, activeGoal.ID, target); err != nil {
		return nutrition.Target{}, errors.NewDatabaseError("save nutrition target", err)
	}
	s.cacheTarget(ctx, userID, activeGoal.ID, target)

	s.logger.Info("Computed nutrition target",
		zap.String("user_id", userID.String()),
		zap.String("objective", string(activeGoal.Goal.Objective)),
		zap.Float64("calories", target.Calories),
	)
	return target, nil
}

// recentFoodIDs loads the foods eaten within the recency window. The
// exclusion list is an enhancement, so a failed lookup degrades to an
// empty list instead of failing generation.
func (s *PlannerService) recentFoodIDs(ctx context.Context, userID uuid.UUID, day time.Time) []uuid.UUID {
	ids, err := s.plans.CompletedFoodIDsSince(ctx, userID, day.Add(-recencyWindow))
	if err != nil {
		s.logger.Warn("Could not load recently eaten foods",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil
	}
	return ids
}

func (s *PlannerService) publishEvents(plan *mealplan.MealPlan) {
	for _, event := range plan.Events() {
		if err := s.events.Dispatch(event); err != nil {
			s.logger.Error("Failed to publish event",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
		}
	}
}

// Cache operations

func planCacheKey(userID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("plan:%s:%s", userID.String(), day.Format(dateLayout))
}

func (s *PlannerService) getCachedPlan(ctx context.Context, userID uuid.UUID, day time.Time) *inbound.MealPlanDTO {
	data, err := s.cache.Get(ctx, planCacheKey(userID, day))
	if err != nil || len(data) == 0 {
		return nil
	}
	var dto inbound.MealPlanDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		s.logger.Warn("Dropping undecodable cached plan", zap.Error(err))
		return nil
	}
	return &dto
}

func (s *PlannerService) cachePlan(ctx context.Context, dto *inbound.MealPlanDTO) {
	data, err := json.Marshal(dto)
	if err != nil {
		return
	}
	key := fmt.Sprintf("plan:%s:%s", dto.UserID.String(), dto.Date)
	if err := s.cache.Set(ctx, key, data, planCacheTTL); err != nil {
		s.logger.Debug("Failed to cache plan", zap.String("key", key), zap.Error(err))
	}
}

func (s *PlannerService) invalidatePlanCache(ctx context.Context, userID uuid.UUID, day time.Time) {
	if err := s.cache.Delete(ctx, planCacheKey(userID, day)); err != nil {
		s.logger.Debug("Failed to invalidate plan cache", zap.Error(err))
	}
}

func targetCacheKey(userID, goalID uuid.UUID) string {
	return fmt.Sprintf("target:%s:%s", userID.String(), goalID.String())
}

func (s *PlannerService) getCachedTarget(ctx context.Context, userID, goalID uuid.UUID) *nutrition.Target {
	data, err := s.cache.Get(ctx, targetCacheKey(userID, goalID))
	if err != nil || len(data) == 0 {
		return nil
	}
	var target nutrition.Target
	if err := json.Unmarshal(data, &target); err != nil {
		s.logger.Warn("Dropping undecodable cached target", zap.Error(err))
		return nil
	}
	return &target
}

func (s *PlannerService) cacheTarget(ctx context.Context, userID, goalID uuid.UUID, target nutrition.Target) {
	data, err := json.Marshal(target)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, targetCacheKey(userID, goalID), data, targetCacheTTL); err != nil {
		s.logger.Debug("Failed to cache target", zap.Error(err))
	}
}

// DTO conversion

func (s *PlannerService) planToDTO(plan *mealplan.MealPlan) *inbound.MealPlanDTO {
	target := plan.Target()
	dto := &inbound.MealPlanDTO{
		ID:     plan.ID(),
		UserID: plan.UserID(),
		Date:   plan.Date().Format(dateLayout),
		Target: inbound.TargetDTO{
			BMR:      target.BMR,
			TDEE:     target.TDEE,
			Calories: target.Calories,
			ProteinG: target.ProteinG,
			CarbsG:   target.CarbsG,
			FatG:     target.FatG,
		},
		Actual:    toSummaryDTO(plan.Actual()),
		CreatedAt: plan.CreatedAt().Format(time.RFC3339),
	}

	for _, meal := range plan.Meals() {
		mealDTO := inbound.MealDTO{
			SlotCode:   string(meal.Slot.Code),
			SlotName:   meal.Slot.Name,
			Percentage: meal.Slot.Percentage,
			Target: inbound.NutritionSummaryDTO{
				Calories: meal.Target.Calories,
				ProteinG: meal.Target.ProteinG,
				CarbsG:   meal.Target.CarbsG,
				FatG:     meal.Target.FatG,
			},
		}
		for _, item := range meal.Recommendations {
			mealDTO.Items = append(mealDTO.Items, itemToDTO(item))
		}
		dto.Meals = append(dto.Meals, mealDTO)
	}
	return dto
}

func itemToDTO(item mealplan.Recommendation) inbound.RecommendationDTO {
	serving := item.ServingNutrition()
	dto := inbound.RecommendationDTO{
		ID:           item.ID,
		FoodID:       item.Food.ID,
		Name:         item.Food.Name,
		NameEn:       item.Food.NameEn,
		Category:     string(item.Food.CanonicalCategory()),
		Score:        item.Score,
		Reason:       item.Reason,
		ServingGrams: item.ServingGrams,
		CalorieLimit: item.CalorieLimit,
		Calories:     serving.Calories,
		ProteinG:     serving.ProteinG,
		CarbsG:       serving.CarbsG,
		FatG:         serving.FatG,
		Completed:    item.Completed,
	}
	if item.CompletedAt != nil {
		ts := item.CompletedAt.Format(time.RFC3339)
		dto.CompletedAt = &ts
	}
	return dto
}

func toSummaryDTO(summary mealplan.NutritionSummary) inbound.NutritionSummaryDTO {
	return inbound.NutritionSummaryDTO{
		Calories: summary.Calories,
		ProteinG: summary.ProteinG,
		CarbsG:   summary.CarbsG,
		FatG:     summary.FatG,
	}
}

func categoryNames(categories []food.Category) []string {
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, string(category))
	}
	return names
}
