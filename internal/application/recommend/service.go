package recommend

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealforge/v2/internal/domain/food"
	"github.com/mealforge/v2/internal/domain/mealplan"
	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/ports/outbound"
	"github.com/mealforge/v2/pkg/errors"
)

// MealContext carries everything the engine needs to fill one slot.
type MealContext struct {
	Slot            mealplan.Slot
	Target          nutrition.MealTarget
	Objective       nutrition.Objective
	TrainingDay     bool
	Profile         *nutrition.Profile
	ExcludedFoodIDs []uuid.UUID
}

// SlotResult is the engine's answer for one slot: the final ranked
// recommendations plus repair bookkeeping for events and metrics.
type SlotResult struct {
	Recommendations    []mealplan.Recommendation
	RepairedCategories []food.Category
	SearchCalls        int
}

// SlotRecommender fills a single meal slot with scored, diversity
// enforced recommendations.
type SlotRecommender interface {
	RecommendForSlot(ctx context.Context, mealCtx MealContext) (*SlotResult, error)
}

// Engine is the recommendation pipeline: query, embed, search, score,
// cap, repair, sort. Collaborators are injected so both can be swapped
// in tests.
type Engine struct {
	embedder outbound.EmbeddingClient
	index    outbound.FoodSearchIndex
	config   Config
	logger   *zap.Logger
}

// NewEngine creates a recommendation engine.
func NewEngine(
	embedder outbound.EmbeddingClient,
	index outbound.FoodSearchIndex,
	config Config,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		embedder: embedder,
		index:    index,
		config:   config,
		logger:   logger.Named("recommend-engine"),
	}
}

// RecommendForSlot runs the full pipeline for one slot. The primary
// embed and search are load-bearing and fail the slot; everything after
// them degrades gracefully.
func (e *Engine) RecommendForSlot(ctx context.Context, mealCtx MealContext) (*SlotResult, error) {
	query := buildQuery(mealCtx)
	embedding, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, errors.NewEmbeddingError(err)
	}

	ceiling := mealCtx.Target.Calories * e.config.MaxCalorieRatio
	code := mealCtx.Slot.Code
	filters := outbound.SearchFilters{MealSlot: &code, MaxCalories: &ceiling}
	candidates, err := e.index.Search(ctx, embedding, filters, mealCtx.ExcludedFoodIDs, e.config.PoolSize)
	if err != nil {
		return nil, errors.NewSearchError(err)
	}
	searchCalls := 1

	scored := scoreCandidates(e.config, candidates, mealCtx, ceiling)
	kept, overflow := enforceCaps(e.config, scored)
	kept = backfillFromOverflow(e.config, kept, overflow)

	relaxed := ceiling * 2
	gaps := detectGaps(kept)
	kept, repaired, repairCalls := e.repairGaps(ctx, kept, gaps, mealCtx, relaxed)
	searchCalls += repairCalls

	kept, vegetableCalls := e.ensureVegetablePresence(ctx, kept, mealCtx, relaxed)
	searchCalls += vegetableCalls

	sortByScore(kept)
	kept = truncate(kept, e.config.MaxRecommendations)

	e.logger.Debug("Slot recommendations ready",
		zap.String("slot", string(mealCtx.Slot.Code)),
		zap.Int("candidates", len(candidates)),
		zap.Int("items", len(kept)),
		zap.Int("repairs", len(repaired)),
		zap.Int("search_calls", searchCalls))

	return &SlotResult{
		Recommendations:    kept,
		RepairedCategories: repaired,
		SearchCalls:        searchCalls,
	}, nil
}
