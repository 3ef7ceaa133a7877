package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/mealforge/v2/internal/infrastructure/persistence/postgres"
)

const defaultSlowQueryLimit = 50

// DebugHandlers exposes operational introspection endpoints. These are
// meant for operators, not API consumers.
type DebugHandlers struct {
	monitor *postgres.QueryMonitor
	logger  *zap.Logger
}

// NewDebugHandlers creates a new debug handlers instance
func NewDebugHandlers(monitor *postgres.QueryMonitor, logger *zap.Logger) *DebugHandlers {
	return &DebugHandlers{
		monitor: monitor,
		logger:  logger,
	}
}

// SlowQueries handles GET /debug/queries/slow
func (h *DebugHandlers) SlowQueries(w http.ResponseWriter, r *http.Request) {
	limit := defaultSlowQueryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(h.logger, w, http.StatusBadRequest, APIResponse{
				Success: false,
				Error:   "BAD_REQUEST",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	queries := h.monitor.GetSlowQueries(limit)

	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"count":   len(queries),
			"queries": queries,
		},
	})
}
