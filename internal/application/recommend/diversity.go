package recommend

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealforge/v2/internal/domain/food"
	"github.com/mealforge/v2/internal/domain/mealplan"
	"github.com/mealforge/v2/internal/ports/outbound"
)

// mustHaveCategories are always repaired when absent. The order fixes
// repair priority.
var mustHaveCategories = []food.Category{
	food.CategoryProtein,
	food.CategoryCarbs,
	food.CategoryVegetables,
}

// niceToHaveCategories are only repaired when two or more of them are
// missing at once.
var niceToHaveCategories = []food.Category{
	food.CategoryFruits,
	food.CategoryDairy,
	food.CategoryFats,
}

// enforceCaps walks the scored list best-first and admits items while
// their category is under its cap and the slot has room. Rejected items
// are set aside for backfill rather than discarded.
func enforceCaps(cfg Config, scored []mealplan.Recommendation) (kept, overflow []mealplan.Recommendation) {
	kept = make([]mealplan.Recommendation, 0, cfg.MaxRecommendations)
	counts := make(map[food.Category]int)
	for _, item := range scored {
		category := item.Food.CanonicalCategory()
		if len(kept) < cfg.MaxRecommendations && counts[category] < cfg.capFor(category) {
			kept = append(kept, item)
			counts[category]++
			continue
		}
		overflow = append(overflow, item)
	}
	return kept, overflow
}

// backfillFromOverflow refills a short list from the set-aside items.
// Unrepresented categories go first, then anything still under its cap.
func backfillFromOverflow(cfg Config, kept, overflow []mealplan.Recommendation) []mealplan.Recommendation {
	if len(kept) >= cfg.MaxRecommendations {
		return kept
	}

	counts := make(map[food.Category]int)
	for _, item := range kept {
		counts[item.Food.CanonicalCategory()]++
	}
	taken := make(map[uuid.UUID]bool)

	for _, item := range overflow {
		if len(kept) >= cfg.MaxRecommendations {
			return kept
		}
		category := item.Food.CanonicalCategory()
		if counts[category] == 0 {
			kept = append(kept, item)
			counts[category]++
			taken[item.Food.ID] = true
		}
	}
	for _, item := range overflow {
		if len(kept) >= cfg.MaxRecommendations {
			return kept
		}
		if taken[item.Food.ID] {
			continue
		}
		category := item.Food.CanonicalCategory()
		if counts[category] < cfg.capFor(category) {
			kept = append(kept, item)
			counts[category]++
		}
	}
	return kept
}

// detectGaps returns the categories to repair, must-haves first.
func detectGaps(items []mealplan.Recommendation) []food.Category {
	present := make(map[food.Category]bool)
	for _, item := range items {
		present[item.Food.CanonicalCategory()] = true
	}

	var gaps []food.Category
	for _, category := range mustHaveCategories {
		if !present[category] {
			gaps = append(gaps, category)
		}
	}

	var missingNice []food.Category
	for _, category := range niceToHaveCategories {
		if !present[category] {
			missingNice = append(missingNice, category)
		}
	}
	if len(missingNice) >= 2 {
		gaps = append(gaps, missingNice...)
	}
	return gaps
}

// repairGaps runs one category-scoped secondary search per missing
// category, bounded by MaxCategoryRepairs. Each successful repair adds
// the best-scoring replacement; afterwards the lowest-scoring original
// items are displaced so the list never grows past the slot size. A
// failed embed or search skips that repair instead of failing the slot.
func (e *Engine) repairGaps(
	ctx context.Context,
	items []mealplan.Recommendation,
	gaps []food.Category,
	mealCtx MealContext,
	relaxedCalories float64,
) ([]mealplan.Recommendation, []food.Category, int) {
	if len(gaps) > e.config.MaxCategoryRepairs {
		gaps = gaps[:e.config.MaxCategoryRepairs]
	}

	out := append([]mealplan.Recommendation(nil), items...)
	repaired := make([]food.Category, 0, len(gaps))
	protected := make(map[uuid.UUID]bool)
	searchCalls := 0

	for _, category := range gaps {
		phrase := categoryPhrases[string(category)]
		embedding, err := e.embedder.Embed(ctx, phrase)
		if err != nil {
			e.logger.Warn("Repair embedding failed, skipping category",
				zap.String("category", string(category)),
				zap.Error(err))
			continue
		}

		candidates, calls := e.searchCategory(ctx, embedding, category, mealCtx.Slot.Code, relaxedCalories, excludedWith(mealCtx.ExcludedFoodIDs, out))
		searchCalls += calls
		if len(candidates) == 0 {
			e.logger.Debug("No repair candidates found",
				zap.String("category", string(category)),
				zap.String("slot", string(mealCtx.Slot.Code)))
			continue
		}

		scored := scoreCandidates(e.config, candidates, mealCtx, relaxedCalories)
		best := scored[0]
		out = append(out, best)
		protected[best.Food.ID] = true
		repaired = append(repaired, category)
	}

	out = displaceLowest(out, protected, e.config.MaxRecommendations)
	return out, repaired, searchCalls
}

// ensureVegetablePresence enforces the lunch/dinner variety rule: at
// least one vegetable, root vegetable, nut/seed or dairy item. With
// none present it searches the vegetable phrase and then the nut/dairy
// phrase, swapping in up to two finds over the lowest scorers. With
// exactly one present it tries to add a single extra without displacing
// anything.
func (e *Engine) ensureVegetablePresence(
	ctx context.Context,
	items []mealplan.Recommendation,
	mealCtx MealContext,
	relaxedCalories float64,
) ([]mealplan.Recommendation, int) {
	if !mealCtx.Slot.RequiresVegetable() {
		return items, 0
	}

	present := 0
	for _, item := range items {
		if item.Food.CountsForVegetableGuarantee() {
			present++
		}
	}
	if present >= 2 {
		return items, 0
	}
	if present == 1 && len(items) >= e.config.MaxRecommendations {
		return items, 0
	}

	out := append([]mealplan.Recommendation(nil), items...)
	searchCalls := 0
	wanted := 2 - present
	protected := make(map[uuid.UUID]bool)

	for attempt := 0; attempt < e.config.MaxVegetableSearches && wanted > 0; attempt++ {
		if present == 1 && attempt > 0 {
			break
		}
		phrase := vegetableQueryPhrases[attempt]
		embedding, err := e.embedder.Embed(ctx, phrase)
		if err != nil {
			e.logger.Warn("Vegetable search embedding failed", zap.Error(err))
			continue
		}

		code := mealCtx.Slot.Code
		filters := outbound.SearchFilters{MealSlot: &code, MaxCalories: &relaxedCalories}
		searchCalls++
		candidates, err := e.index.Search(ctx, embedding, filters, excludedWith(mealCtx.ExcludedFoodIDs, out), e.config.RepairPoolSize)
		if err != nil {
			e.logger.Warn("Vegetable search failed", zap.Error(err))
			continue
		}

		usable := make([]food.Candidate, 0, len(candidates))
		for _, candidate := range candidates {
			if candidate.CountsForVegetableGuarantee() {
				usable = append(usable, candidate)
			}
		}
		if len(usable) == 0 {
			continue
		}

		scored := scoreCandidates(e.config, usable, mealCtx, relaxedCalories)
		for _, item := range scored {
			if wanted == 0 {
				break
			}
			out = append(out, item)
			protected[item.Food.ID] = true
			wanted--
		}
	}

	if present == 0 {
		out = displaceLowest(out, protected, e.config.MaxRecommendations)
	}
	return out, searchCalls
}

// displaceLowest trims the list back to max by repeatedly removing the
// lowest-scoring unprotected item. Protected items are the freshly
// added replacements, which must survive the displacement that made
// room for them.
func displaceLowest(items []mealplan.Recommendation, protected map[uuid.UUID]bool, max int) []mealplan.Recommendation {
	for len(items) > max {
		lowest := -1
		for i, item := range items {
			if protected[item.Food.ID] {
				continue
			}
			if lowest == -1 || item.Score < items[lowest].Score {
				lowest = i
			}
		}
		if lowest == -1 {
			break
		}
		items = append(items[:lowest], items[lowest+1:]...)
	}
	return items
}

// excludedWith extends the base exclusion list with the foods already
// recommended, so secondary searches never return duplicates.
func excludedWith(base []uuid.UUID, items []mealplan.Recommendation) []uuid.UUID {
	excluded := make([]uuid.UUID, 0, len(base)+len(items))
	excluded = append(excluded, base...)
	for _, item := range items {
		excluded = append(excluded, item.Food.ID)
	}
	return excluded
}
