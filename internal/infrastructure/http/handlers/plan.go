package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealforge/v2/internal/ports/inbound"
	pkgerrors "github.com/mealforge/v2/pkg/errors"
)

const dateLayout = "2006-01-02"

// PlanHandlers handles meal plan API requests. There is no auth layer;
// the account gateway in front of this service vouches for user_id.
type PlanHandlers struct {
	planner  inbound.PlannerService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewPlanHandlers creates a new plan handlers instance
func NewPlanHandlers(planner inbound.PlannerService, logger *zap.Logger) *PlanHandlers {
	return &PlanHandlers{
		planner:  planner,
		validate: validator.New(),
		logger:   logger,
	}
}

type generatePlanRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Date   string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type completeItemRequest struct {
	UserID    string `json:"user_id" validate:"required,uuid"`
	Completed *bool  `json:"completed" validate:"required"`
}

// GeneratePlan handles POST /api/v1/plans. Generation is idempotent per
// (user, date), so a repeated request returns the existing plan.
func (h *PlanHandlers) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req generatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, pkgerrors.NewBadRequestError("Request body must be valid JSON"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(h.logger, w, validationError(err))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(h.logger, w, pkgerrors.NewValidationError("user_id must be a valid UUID"))
		return
	}

	date := time.Now()
	if req.Date != "" {
		date, err = time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(h.logger, w, pkgerrors.NewValidationError("date must use the YYYY-MM-DD format"))
			return
		}
	}

	plan, err := h.planner.GeneratePlan(r.Context(), userID, date)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Data:    plan,
	})
}

// GetPlan handles GET /api/v1/plans/{date}
func (h *PlanHandlers) GetPlan(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(dateLayout, chi.URLParam(r, "date"))
	if err != nil {
		writeError(h.logger, w, pkgerrors.NewValidationError("date must use the YYYY-MM-DD format"))
		return
	}

	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(h.logger, w, pkgerrors.NewValidationError("user_id query parameter must be a valid UUID"))
		return
	}

	plan, err := h.planner.GetPlan(r.Context(), userID, date)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Data:    plan,
	})
}

// SetItemCompleted handles PATCH /api/v1/plans/items/{itemID}
func (h *PlanHandlers) SetItemCompleted(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(h.logger, w, pkgerrors.NewValidationError("item id must be a valid UUID"))
		return
	}

	var req completeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, pkgerrors.NewBadRequestError("Request body must be valid JSON"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(h.logger, w, validationError(err))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(h.logger, w, pkgerrors.NewValidationError("user_id must be a valid UUID"))
		return
	}

	plan, err := h.planner.SetItemCompleted(r.Context(), userID, itemID, *req.Completed)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Data:    plan,
	})
}
