package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mealforge/v2/internal/application/recommend"
)

// EngineMetrics collects Prometheus metrics for plan generation and the
// recommendation pipeline.
type EngineMetrics struct {
	plannerRequests *prometheus.CounterVec
	plannerDuration *prometheus.HistogramVec
	itemCompletions *prometheus.CounterVec

	slotFills       *prometheus.CounterVec
	slotDuration    *prometheus.HistogramVec
	slotItems       *prometheus.HistogramVec
	vectorSearches  prometheus.Counter
	categoryRepairs *prometheus.CounterVec
}

// NewEngineMetrics registers the engine collectors on the given
// registerer. Production wiring passes prometheus.DefaultRegisterer;
// tests pass a fresh registry so repeated construction does not collide.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	factory := promauto.With(reg)
	return &EngineMetrics{
		plannerRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mealforge",
			Subsystem: "planner",
			Name:      "requests_total",
			Help:      "Planner requests by operation and outcome",
		}, []string{"operation", "status"}),
		plannerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mealforge",
			Subsystem: "planner",
			Name:      "request_duration_seconds",
			Help:      "Planner request duration by operation",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		itemCompletions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mealforge",
			Subsystem: "planner",
			Name:      "item_completions_total",
			Help:      "Plan item completion toggles by final state",
		}, []string{"completed"}),
		slotFills: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mealforge",
			Subsystem: "engine",
			Name:      "slot_fills_total",
			Help:      "Slot recommendation runs by slot and outcome",
		}, []string{"slot", "status"}),
		slotDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mealforge",
			Subsystem: "engine",
			Name:      "slot_fill_duration_seconds",
			Help:      "Time spent filling one meal slot",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"slot"}),
		slotItems: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mealforge",
			Subsystem: "engine",
			Name:      "slot_items",
			Help:      "Recommendations returned per slot fill",
			Buckets:   []float64{1, 2, 4, 6, 8, 10, 15},
		}, []string{"slot"}),
		vectorSearches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mealforge",
			Subsystem: "engine",
			Name:      "vector_searches_total",
			Help:      "Vector similarity searches issued, repairs included",
		}),
		categoryRepairs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mealforge",
			Subsystem: "engine",
			Name:      "category_repairs_total",
			Help:      "Category gaps repaired by relaxed retrieval",
		}, []string{"category"}),
	}
}

// RecordPlannerRequest records one planner operation and its duration.
func (m *EngineMetrics) RecordPlannerRequest(operation string, duration time.Duration, err error) {
	m.plannerRequests.WithLabelValues(operation, statusLabel(err)).Inc()
	m.plannerDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordItemCompletion records a completion toggle by its final state.
func (m *EngineMetrics) RecordItemCompletion(completed bool) {
	m.itemCompletions.WithLabelValues(strconv.FormatBool(completed)).Inc()
}

// RecordSlotFill records one slot recommendation run. Search and repair
// counters only move on success; a failed run never produced a result.
func (m *EngineMetrics) RecordSlotFill(slot string, result *recommend.SlotResult, duration time.Duration, err error) {
	m.slotFills.WithLabelValues(slot, statusLabel(err)).Inc()
	m.slotDuration.WithLabelValues(slot).Observe(duration.Seconds())
	if err != nil || result == nil {
		return
	}
	m.slotItems.WithLabelValues(slot).Observe(float64(len(result.Recommendations)))
	m.vectorSearches.Add(float64(result.SearchCalls))
	for _, category := range result.RepairedCategories {
		m.categoryRepairs.WithLabelValues(string(category)).Inc()
	}
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
