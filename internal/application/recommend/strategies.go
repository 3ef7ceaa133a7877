package recommend

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealforge/v2/internal/domain/food"
	"github.com/mealforge/v2/internal/domain/mealplan"
	"github.com/mealforge/v2/internal/ports/outbound"
)

// retrievalStrategy describes one step of the category search fallback
// chain. Steps run in order; each later step only fires when the
// previous one produced zero usable candidates.
type retrievalStrategy struct {
	name           string
	useCategory    bool
	useSlot        bool
	limit          int
	manualCategory bool
}

// repairStrategies is the fallback chain for category-scoped repair
// searches. It starts narrow and widens: drop the slot filter, then
// drop the category filter and re-filter the larger pool in memory.
var repairStrategies = []retrievalStrategy{
	{name: "category_slot", useCategory: true, useSlot: true, limit: 10},
	{name: "category_only", useCategory: true, useSlot: false, limit: 10},
	{name: "slot_refilter", useCategory: false, useSlot: true, limit: 20, manualCategory: true},
	{name: "unfiltered_refilter", useCategory: false, useSlot: false, limit: 30, manualCategory: true},
}

// searchCategory walks the fallback chain for one category and returns
// the first non-empty batch of candidates whose canonical category
// matches. Search errors are treated as empty results so a flaky index
// degrades the search instead of failing it. The returned count is the
// number of index calls issued.
func (e *Engine) searchCategory(
	ctx context.Context,
	embedding []float32,
	category food.Category,
	slot mealplan.SlotCode,
	maxCalories float64,
	excluded []uuid.UUID,
) ([]food.Candidate, int) {
	calls := 0
	for _, strategy := range repairStrategies {
		filters := outbound.SearchFilters{MaxCalories: &maxCalories}
		if strategy.useCategory {
			cat := category
			filters.Category = &cat
		}
		if strategy.useSlot {
			code := slot
			filters.MealSlot = &code
		}

		calls++
		candidates, err := e.index.Search(ctx, embedding, filters, excluded, strategy.limit)
		if err != nil {
			e.logger.Warn("Repair search step failed",
				zap.String("strategy", strategy.name),
				zap.String("category", string(category)),
				zap.Error(err))
			continue
		}
		if strategy.manualCategory {
			candidates = filterByCategory(candidates, category)
		}
		if len(candidates) > 0 {
			return candidates, calls
		}
	}
	return nil, calls
}

// filterByCategory keeps only candidates whose canonical category
// matches. Used when the index could not filter server-side.
func filterByCategory(candidates []food.Candidate, category food.Category) []food.Candidate {
	filtered := make([]food.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.CanonicalCategory() == category {
			filtered = append(filtered, candidate)
		}
	}
	return filtered
}
