package monitoring

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mealforge/v2/internal/application/recommend"
	"github.com/mealforge/v2/internal/ports/inbound"
)

const dateLayout = "2006-01-02"

// instrumentedPlanner decorates a PlannerService with spans and request
// metrics. The wrapped service never sees the difference; the container
// swaps it in front of the real planner.
type instrumentedPlanner struct {
	next    inbound.PlannerService
	tracing *TracingProvider
	metrics *EngineMetrics
}

// InstrumentPlanner wraps a planner service with tracing and metrics.
func InstrumentPlanner(next inbound.PlannerService, tracing *TracingProvider, metrics *EngineMetrics) inbound.PlannerService {
	return &instrumentedPlanner{
		next:    next,
		tracing: tracing,
		metrics: metrics,
	}
}

func (p *instrumentedPlanner) GeneratePlan(ctx context.Context, userID uuid.UUID, date time.Time) (*inbound.MealPlanDTO, error) {
	ctx, span := p.tracing.StartSpan(ctx, "planner.GeneratePlan",
		trace.WithAttributes(attribute.String("plan.date", date.Format(dateLayout))),
	)
	defer span.End()

	start := time.Now()
	dto, err := p.next.GeneratePlan(ctx, userID, date)
	p.metrics.RecordPlannerRequest("generate_plan", time.Since(start), err)
	if err != nil {
		p.tracing.RecordError(ctx, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("plan.meals", len(dto.Meals)))
	return dto, nil
}

func (p *instrumentedPlanner) GetPlan(ctx context.Context, userID uuid.UUID, date time.Time) (*inbound.MealPlanDTO, error) {
	ctx, span := p.tracing.StartSpan(ctx, "planner.GetPlan",
		trace.WithAttributes(attribute.String("plan.date", date.Format(dateLayout))),
	)
	defer span.End()

	start := time.Now()
	dto, err := p.next.GetPlan(ctx, userID, date)
	p.metrics.RecordPlannerRequest("get_plan", time.Since(start), err)
	if err != nil {
		p.tracing.RecordError(ctx, err)
		return nil, err
	}
	return dto, nil
}

func (p *instrumentedPlanner) SetItemCompleted(ctx context.Context, userID, itemID uuid.UUID, completed bool) (*inbound.MealPlanDTO, error) {
	ctx, span := p.tracing.StartSpan(ctx, "planner.SetItemCompleted",
		trace.WithAttributes(attribute.Bool("item.completed", completed)),
	)
	defer span.End()

	start := time.Now()
	dto, err := p.next.SetItemCompleted(ctx, userID, itemID, completed)
	p.metrics.RecordPlannerRequest("set_item_completed", time.Since(start), err)
	if err != nil {
		p.tracing.RecordError(ctx, err)
		return nil, err
	}
	p.metrics.RecordItemCompletion(completed)
	return dto, nil
}

// instrumentedRecommender decorates a SlotRecommender with a span per
// slot fill and the engine metrics derived from its result.
type instrumentedRecommender struct {
	next    recommend.SlotRecommender
	tracing *TracingProvider
	metrics *EngineMetrics
}

// InstrumentSlotRecommender wraps a slot recommender with tracing and
// metrics.
func InstrumentSlotRecommender(next recommend.SlotRecommender, tracing *TracingProvider, metrics *EngineMetrics) recommend.SlotRecommender {
	return &instrumentedRecommender{
		next:    next,
		tracing: tracing,
		metrics: metrics,
	}
}

func (r *instrumentedRecommender) RecommendForSlot(ctx context.Context, mealCtx recommend.MealContext) (*recommend.SlotResult, error) {
	slot := string(mealCtx.Slot.Code)
	ctx, span := r.tracing.StartSpan(ctx, "engine.RecommendForSlot",
		trace.WithAttributes(
			attribute.String("meal.slot", slot),
			attribute.Float64("meal.target_calories", mealCtx.Target.Calories),
		),
	)
	defer span.End()

	start := time.Now()
	result, err := r.next.RecommendForSlot(ctx, mealCtx)
	r.metrics.RecordSlotFill(slot, result, time.Since(start), err)
	if err != nil {
		r.tracing.RecordError(ctx, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("slot.items", len(result.Recommendations)),
		attribute.Int("slot.search_calls", result.SearchCalls),
		attribute.Int("slot.repairs", len(result.RepairedCategories)),
	)
	return result, nil
}
