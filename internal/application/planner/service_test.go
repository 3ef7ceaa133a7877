package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mealforge/v2/internal/application/recommend"
	"github.com/mealforge/v2/internal/domain/food"
	"github.com/mealforge/v2/internal/domain/mealplan"
	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/domain/shared"
	"github.com/mealforge/v2/internal/ports/inbound"
	"github.com/mealforge/v2/internal/ports/outbound"
	"github.com/mealforge/v2/pkg/errors"
)

// MockProfileRepository is a mock implementation of the profile repository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*nutrition.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nutrition.Profile), args.Error(1)
}

// MockGoalRepository is a mock implementation of the goal repository
type MockGoalRepository struct {
	mock.Mock
}

func (m *MockGoalRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID) (*outbound.ActiveGoal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.ActiveGoal), args.Error(1)
}

// MockTargetRepository is a mock implementation of the target repository
type MockTargetRepository struct {
	mock.Mock
}

func (m *MockTargetRepository) FindActive(ctx context.Context, userID, goalID uuid.UUID) (*nutrition.Target, error) {
	args := m.Called(ctx, userID, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nutrition.Target), args.Error(1)
}

func (m *MockTargetRepository) Save(ctx context.Context, userID, goalID uuid.UUID, target nutrition.Target) error {
	args := m.Called(ctx, userID, goalID, target)
	return args.Error(0)
}

// MockSlotRepository is a mock implementation of the slot repository
type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) ListOrdered(ctx context.Context) ([]mealplan.Slot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]mealplan.Slot), args.Error(1)
}

// MockWorkoutRepository is a mock implementation of the workout repository
type MockWorkoutRepository struct {
	mock.Mock
}

func (m *MockWorkoutRepository) TrainingContextFor(ctx context.Context, userID uuid.UUID, date time.Time) (outbound.TrainingContext, error) {
	args := m.Called(ctx, userID, date)
	return args.Get(0).(outbound.TrainingContext), args.Error(1)
}

// MockPlanRepository is a mock implementation of the plan repository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Create(ctx context.Context, plan *mealplan.MealPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*mealplan.MealPlan, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mealplan.MealPlan), args.Error(1)
}

func (m *MockPlanRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) (*mealplan.MealPlan, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mealplan.MealPlan), args.Error(1)
}

func (m *MockPlanRepository) UpdateItemCompletion(ctx context.Context, itemID uuid.UUID, completed bool, completedAt *time.Time) error {
	args := m.Called(ctx, itemID, completed, completedAt)
	return args.Error(0)
}

func (m *MockPlanRepository) CompletedFoodIDsSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockCacheRepository is a mock implementation of the cache repository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockSlotRecommender is a mock implementation of the recommendation engine
type MockSlotRecommender struct {
	mock.Mock
}

func (m *MockSlotRecommender) RecommendForSlot(ctx context.Context, mealCtx recommend.MealContext) (*recommend.SlotResult, error) {
	args := m.Called(ctx, mealCtx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recommend.SlotResult), args.Error(1)
}

// MockEventDispatcher is a mock implementation of the event dispatcher
type MockEventDispatcher struct {
	mock.Mock
}

func (m *MockEventDispatcher) Dispatch(event shared.DomainEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockEventDispatcher) Register(eventName string, handler shared.EventHandler) {
	m.Called(eventName, handler)
}

// Test fixtures

type plannerMocks struct {
	profiles    *MockProfileRepository
	goals       *MockGoalRepository
	targets     *MockTargetRepository
	slots       *MockSlotRepository
	workouts    *MockWorkoutRepository
	plans       *MockPlanRepository
	cache       *MockCacheRepository
	recommender *MockSlotRecommender
	events      *MockEventDispatcher
}

func newServiceForTest(t *testing.T) (inbound.PlannerService, *plannerMocks) {
	m := &plannerMocks{
		profiles:    new(MockProfileRepository),
		goals:       new(MockGoalRepository),
		targets:     new(MockTargetRepository),
		slots:       new(MockSlotRepository),
		workouts:    new(MockWorkoutRepository),
		plans:       new(MockPlanRepository),
		cache:       new(MockCacheRepository),
		recommender: new(MockSlotRecommender),
		events:      new(MockEventDispatcher),
	}
	svc := NewPlannerService(
		m.profiles, m.goals, m.targets, m.slots, m.workouts, m.plans,
		m.recommender, nutrition.NewCalculator(), m.cache, m.events,
		zaptest.NewLogger(t),
	)
	return svc, m
}

func (m *plannerMocks) cacheMisses() {
	m.cache.On("Get", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("cache miss"))
	m.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.cache.On("Delete", mock.Anything, mock.Anything).Return(nil)
}

func testProfile() *nutrition.Profile {
	return &nutrition.Profile{Gender: nutrition.GenderMale, WeightKg: 80, HeightCm: 178, Age: 25}
}

func testActiveGoal() *outbound.ActiveGoal {
	return &outbound.ActiveGoal{
		ID:   uuid.New(),
		Goal: nutrition.Goal{Objective: nutrition.ObjectiveGainMuscle, SessionsPerWeek: 5},
	}
}

func testSlots() []mealplan.Slot {
	return []mealplan.Slot{
		{Code: mealplan.SlotBreakfast, Name: "Breakfast", Percentage: 25, SortOrder: 1},
		{Code: mealplan.SlotLunch, Name: "Lunch", Percentage: 35, SortOrder: 2},
		{Code: mealplan.SlotDinner, Name: "Dinner", Percentage: 30, SortOrder: 3},
		{Code: mealplan.SlotSnack, Name: "Snack", Percentage: 10, SortOrder: 4},
	}
}

func slotResultFor(name string) *recommend.SlotResult {
	return &recommend.SlotResult{
		Recommendations: []mealplan.Recommendation{{
			Food: food.Candidate{
				ID:          uuid.New(),
				Name:        name,
				RawCategory: "protein",
				Calories:    165,
				Protein:     31,
				Similarity:  0.9,
			},
			Score:        0.8,
			Reason:       "supports muscle gain",
			ServingGrams: 150,
			CalorieLimit: 1176,
		}},
		SearchCalls: 1,
	}
}

func matchSlot(code mealplan.SlotCode) interface{} {
	return mock.MatchedBy(func(mc recommend.MealContext) bool {
		return mc.Slot.Code == code
	})
}

var testDate = time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)

func TestGeneratePlanFullFlow(t *testing.T) {
	svc, m := newServiceForTest(t)
	userID := uuid.New()
	day := mealplan.NormalizeDate(testDate)
	profile := testProfile()
	activeGoal := testActiveGoal()
	training := outbound.TrainingContext{TrainingDay: true, WorkoutCalories: 400}

	m.cacheMisses()
	m.plans.On("FindByUserAndDate", mock.Anything, userID, day).Return(nil, nil)
	m.profiles.On("FindByUserID", mock.Anything, userID).Return(profile, nil)
	m.goals.On("FindActiveByUserID", mock.Anything, userID).Return(activeGoal, nil)
	m.workouts.On("TrainingContextFor", mock.Anything, userID, day).Return(training, nil)
	m.targets.On("FindActive", mock.Anything, userID, activeGoal.ID).Return(nil, nil)
	m.targets.On("Save", mock.Anything, userID, activeGoal.ID, mock.Anything).Return(nil)
	m.slots.On("ListOrdered", mock.Anything).Return(testSlots(), nil)
	m.plans.On("CompletedFoodIDsSince", mock.Anything, userID, mock.Anything).Return([]uuid.UUID{}, nil)
	for _, slot := range testSlots() {
		m.recommender.On("RecommendForSlot", mock.Anything, matchSlot(slot.Code)).
			Return(slotResultFor("Dish for "+slot.Name), nil)
	}
	m.plans.On("Create", mock.Anything, mock.MatchedBy(func(p *mealplan.MealPlan) bool {
		return p.UserID() == userID && len(p.Meals()) == 4 && p.ItemCount() == 4
	})).Return(nil)
	m.events.On("Dispatch", mock.Anything).Return(nil)

	dto, err := svc.GeneratePlan(context.Background(), userID, testDate)

	require.NoError(t, err)
	require.NotNil(t, dto)
	assert.Equal(t, userID, dto.UserID)
	assert.Equal(t, "2025-06-02", dto.Date)
	require.Len(t, dto.Meals, 4)
	assert.Equal(t, "breakfast", dto.Meals[0].SlotCode)
	assert.Equal(t, "snack", dto.Meals[3].SlotCode)

	calculator := nutrition.NewCalculator()
	expected := calculator.DailyTarget(*profile, activeGoal.Goal, true, 400)
	assert.Equal(t, expected.Calories, dto.Target.Calories)
	assert.Equal(t, expected.ProteinG, dto.Target.ProteinG)

	breakfast := calculator.MealTargetFor(expected, 25)
	assert.Equal(t, breakfast.Calories, dto.Meals[0].Target.Calories)

	m.targets.AssertCalled(t, "Save", mock.Anything, userID, activeGoal.ID, mock.Anything)
	m.events.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestGeneratePlanExistingPlanSkipsCollaborators(t *testing.T) {
	svc, m := newServiceForTest(t)
	userID := uuid.New()
	day := mealplan.NormalizeDate(testDate)

	existing := mealplan.ReconstructMealPlan(
		uuid.New(), userID, day,
		nutrition.Target{BMR: 1793, TDEE: 2779, Calories: 3479, ProteinG: 261, CarbsG: 391, FatG: 97},
		[]mealplan.Meal{{
			Slot:   mealplan.Slot{Code: mealplan.SlotBreakfast, Name: "Breakfast", Percentage: 25, SortOrder: 1},
			Target: nutrition.MealTarget{Calories: 870, ProteinG: 65, CarbsG: 98, FatG: 24},
		}},
		time.Now().UTC(),
	)

	m.cacheMisses()
	m.plans.On("FindByUserAndDate", mock.Anything, userID, day).Return(existing, nil)

	dto, err := svc.GeneratePlan(context.Background(), userID, testDate)

	require.NoError(t, err)
	assert.Equal(t, existing.ID(), dto.ID)
	m.recommender.AssertNotCalled(t, "RecommendForSlot", mock.Anything, mock.Anything)
	m.profiles.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
	m.targets.AssertNotCalled(t, "FindActive", mock.Anything, mock.Anything, mock.Anything)
}

func TestGeneratePlanReusesStoredTarget(t *testing.T) {
	svc, m := newServiceForTest(t)
	userID := uuid.New()
	day := mealplan.NormalizeDate(testDate)
	activeGoal := testActiveGoal()
	stored := &nutrition.Target{BMR: 1800, TDEE: 2790, Calories: 3490, ProteinG: 262, CarbsG: 393, FatG: 97}

	m.cacheMisses()
	m.plans.On("FindByUserAndDate", mock.Anything, userID, day).Return(nil, nil)
	m.profiles.On("FindByUserID", mock.Anything, userID).Return(testProfile(), nil)
	m.goals.On("FindActiveByUserID", mock.Anything, userID).Return(activeGoal, nil)
	m.workouts.On("TrainingContextFor", mock.Anything, userID, day).Return(outbound.TrainingContext{}, nil)
	m.targets.On("FindActive", mock.Anything, userID, activeGoal.ID).Return(stored, nil)
	m.slots.On("ListOrdered", mock.Anything).Return(testSlots(), nil)
	m.plans.On("CompletedFoodIDsSince", mock.Anything, userID, mock.Anything).Return([]uuid.UUID{}, nil)
	m.recommender.On("RecommendForSlot", mock.Anything, mock.Anything).Return(slotResultFor("Dish"), nil)
	m.plans.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.events.On("Dispatch", mock.Anything).Return(nil)

	dto, err := svc.GeneratePlan(context.Background(), userID, testDate)

	require.NoError(t, err)
	assert.Equal(t, stored.Calories, dto.Target.Calories)
	m.targets.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGeneratePlanCachedTargetSkipsRepository(t *testing.T) {
	svc, m := newServiceForTest(t)
	userID := uuid.New()
	day := mealplan.NormalizeDate(testDate)
	activeGoal := testActiveGoal()
	target := nutrition.Target{BMR: 1800, TDEE: 2790, Calories: 3490, ProteinG: 262, CarbsG: 393, FatG: 97}
	payload, err := json.Marshal(target)
	require.NoError(t, err)

	targetKey := fmt.Sprintf("target:%s:%s", userID, activeGoal.ID)
	m.cache.On("Get", mock.Anything, targetKey).Return(payload, nil)
	m.cacheMisses()
	m.plans.On("FindByUserAndDate", mock.Anything, userID, day).Return(nil, nil)
	m.profiles.On("FindByUserID", mock.Anything, userID).Return(testProfile(), nil)
	m.goals.On("FindActiveByUserID", mock.Anything, userID).Return(activeGoal, nil)
	m.workouts.On("TrainingContextFor", mock.Anything, userID, day).Return(outbound.TrainingContext{}, nil)
	m.slots.On("ListOrdered", mock.Anything).Return(testSlots(), nil)
	m.plans.On("CompletedFoodIDsSince", mock.Anything, userID, mock.Anything).Return([]uuid.UUID{}, nil)
	m.recommender.On("RecommendForSlot", mock.Anything, mock.Anything).Return(slotResultFor("Dish"), nil)
	m.plans.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.events.On("Dispatch", mock.Anything).Return(nil)

	dto, err := svc.GeneratePlan(context.Background(), userID, testDate)

	require.NoError(t, err)
	assert.Equal(t, target.Calories, dto.Target.Calories)
	m.targets.AssertNotCalled(t, "FindActive", mock.Anything, mock.Anything, mock.Anything)
}

func TestGeneratePlanMissingProfile(t *testing.T) {
	svc, m := newServiceForTest(t)
	userID := uuid.New()

	m.cacheMisses()
	m.plans.On("FindByUserAndDate", mock.Anything, userID, mock.Anything).Return(nil, nil)
	m.profiles.On("FindByUserID", mock.Anything, userID).Return(nil, nil)

	dto, err := svc.GeneratePlan(context.Background(), userID, testDate)

	require.Error(t, err)
	assert.Nil(t, dto)
	assert.Equal(t, errors.CodeProfileNotFound, errors.GetCode(err))
	m.recommender.AssertNotCalled(t, "RecommendForSlot", mock.Anything, mock.Anything)
}

func TestGeneratePlanInvalidProfile(t *testing.T) {
	svc, m := newServiceForTest(t)
	userID := uuid.New()
	bad := &nutrition.Profile{Gender: nutrition.GenderMale, WeightKg: -10, HeightCm: 178, Age: 25}

	m.cacheMisses()
	m.plans.On("FindByUserAndDate", mock.Anything, userID, mock.Anything).Return(nil, nil)
	m.profiles.On("FindByUserID", mock.Anything, userID).Return(bad, nil)

	_, err := svc.GeneratePlan(context.Background(), userID, testDate)

	require.Error(t, err)
	assert.Equal(t, errors.CodeValidationFailed, errors.GetCode(err))
}

func TestGeneratePlanMissingGoal(t *testing.T) {
	svc, m := newServiceForTest(t)
	userID := uuid.New()

	m.cacheMisses()
	m.plans.On("FindByUserAndDate", mock.Anything, userID, mock.Anything).Return(nil, nil)
	m.profiles.On("FindByUserID", mock.Anything, userID).Return(testProfile(), nil)
	m.goals.On("FindActiveByUserID", mock.Anything, userID).Return(nil, nil)

	_, err := svc.GeneratePlan(context.Background(), userID, testDate)

	require.Error(t, err)
	assert.Equal(t, errors.CodeGoalNotFound, errors.GetCode(err))
}

func TestGeneratePlanSlotFailureFailsGeneration(t *testing.T) {
	svc, m := newServiceForTest(t)
	userID := uuid.New()
	day := mealplan.NormalizeDate(testDate)
	activeGoal := testActiveGoal()

	m.cacheMisses()
	m.plans.On("FindByUserAndDate", mock.Anything, userID, day).Return(nil, nil)
	m.profiles.On("FindByUserID", mock.Anything, userID).Return(testProfile(), nil)
	m.goals.On("FindActiveByUserID", mock.Anything, userID).Return(activeGoal, nil)
	m.workouts.On("TrainingContextFor", mock.Anything, userID, day).Return(outbound.TrainingContext{}, nil)
	m.targets.On("FindActive", mock.Anything, userID, activeGoal.ID).Return(&nutrition.Target{Calories: 2400}, nil)
	m.slots.On("ListOrdered", mock.Anything).Return(testSlots(), nil)
	m.plans.On("CompletedFoodIDsSince", mock.Anything, userID, mock.Anything).Return([]uuid.UUID{}, nil)
	m.recommender.On("RecommendForSlot", mock.Anything, matchSlot(mealplan.SlotBreakfast)).
		Return(slotResultFor("Breakfast Dish"), nil)
	m.recommender.On("RecommendForSlot", mock.Anything, matchSlot(mealplan.SlotLunch)).
		Return(nil, errors.NewSearchError(fmt.Errorf("index offline")))

	dto, err := svc.GeneratePlan(context.Background(), userID, testDate)

	require.Error(t, err)
	assert.Nil(t, dto)
	m.plans.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGeneratePlanLosesCreateRace(t *testing.T) {
	svc, m := newServiceForTest(t)
	userID := uuid.New()
	day := mealplan.NormalizeDate(testDate)
	activeGoal := testActiveGoal()

	winner := mealplan.ReconstructMealPlan(
		uuid.New(), userID, day,
		nutrition.Target{Calories: 2400},
		[]mealplan.Meal{{Slot: mealplan.Slot{Code: mealplan.SlotBreakfast, Name: "Breakfast", Percentage: 25}}},
		time.Now().UTC(),
	)

	m.cacheMisses()
	m.plans.On("FindByUserAndDate", mock.Anything, userID, day).Return(nil, nil).Once()
	m.profiles.On("FindByUserID", mock.Anything, userID).Return(testProfile(), nil)
	m.goals.On("FindActiveByUserID", mock.Anything, userID).Return(activeGoal, nil)
	m.workouts.On("TrainingContextFor", mock.Anything, userID, day).Return(outbound.TrainingContext{}, nil)
	m.targets.On("FindActive", mock.Anything, userID, activeGoal.ID).Return(&nutrition.Target{Calories: 2400}, nil)
	m.slots.On("ListOrdered", mock.Anything).Return(testSlots(), nil)
	m.plans.On("CompletedFoodIDsSince", mock.Anything, userID, mock.Anything).Return([]uuid.UUID{}, nil)
	m.recommender.On("RecommendForSlot", mock.Anything, mock.Anything).Return(slotResultFor("Dish"), nil)
	m.plans.On("Create", mock.Anything, mock.Anything).
		Return(errors.NewPlanExistsError(userID.String(), "2025-06-02"))
	m.plans.On("FindByUserAndDate", mock.Anything, userID, day).Return(winner, nil).Once()

	dto, err := svc.GeneratePlan(context.Background(), userID, testDate)

	require.NoError(t, err, "a concurrent create resolves to the stored plan")
	assert.Equal(t, winner.ID(), dto.ID)
}

func TestGetPlanNotFound(t *testing.T) {
	svc, m := newServiceForTest(t)
	userID := uuid.New()

	m.cacheMisses()
	m.plans.On("FindByUserAndDate", mock.Anything, userID, mock.Anything).Return(nil, nil)

	dto, err := svc.GetPlan(context.Background(), userID, testDate)

	require.Error(t, err)
	assert.Nil(t, dto)
	assert.Equal(t, errors.CodePlanNotFound, errors.GetCode(err))
}

func TestSetItemCompleted(t *testing.T) {
	svc, m := newServiceForTest(t)
	userID := uuid.New()
	day := mealplan.NormalizeDate(testDate)

	plan, err := mealplan.NewMealPlan(userID, day, nutrition.Target{Calories: 2400})
	require.NoError(t, err)
	require.NoError(t, plan.AddMeal(
		mealplan.Slot{Code: mealplan.SlotLunch, Name: "Lunch", Percentage: 35, SortOrder: 2},
		nutrition.MealTarget{Calories: 840},
		slotResultFor("Grilled Chicken").Recommendations,
	))
	itemID := plan.Meals()[0].Recommendations[0].ID

	m.cacheMisses()
	m.plans.On("FindByItemID", mock.Anything, itemID).Return(plan, nil)
	m.plans.On("UpdateItemCompletion", mock.Anything, itemID, true, mock.MatchedBy(func(at *time.Time) bool {
		return at != nil
	})).Return(nil)
	m.events.On("Dispatch", mock.MatchedBy(func(event shared.DomainEvent) bool {
		return event.EventName() == "mealplan.item.completion.changed"
	})).Return(nil)

	dto, err := svc.SetItemCompleted(context.Background(), userID, itemID, true)

	require.NoError(t, err)
	require.Len(t, dto.Meals, 1)
	require.Len(t, dto.Meals[0].Items, 1)
	assert.True(t, dto.Meals[0].Items[0].Completed)
	assert.NotNil(t, dto.Meals[0].Items[0].CompletedAt)
	m.cache.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSetItemCompletedWrongUser(t *testing.T) {
	svc, m := newServiceForTest(t)
	owner := uuid.New()
	intruder := uuid.New()
	day := mealplan.NormalizeDate(testDate)

	plan, err := mealplan.NewMealPlan(owner, day, nutrition.Target{Calories: 2400})
	require.NoError(t, err)
	require.NoError(t, plan.AddMeal(
		mealplan.Slot{Code: mealplan.SlotLunch, Name: "Lunch", Percentage: 35, SortOrder: 2},
		nutrition.MealTarget{Calories: 840},
		slotResultFor("Grilled Chicken").Recommendations,
	))
	itemID := plan.Meals()[0].Recommendations[0].ID

	m.cacheMisses()
	m.plans.On("FindByItemID", mock.Anything, itemID).Return(plan, nil)

	dto, err := svc.SetItemCompleted(context.Background(), intruder, itemID, true)

	require.Error(t, err)
	assert.Nil(t, dto)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	m.plans.AssertNotCalled(t, "UpdateItemCompletion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
