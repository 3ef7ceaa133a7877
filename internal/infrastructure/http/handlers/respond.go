// Package handlers provides HTTP handlers for the JSON API
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	pkgerrors "github.com/mealforge/v2/pkg/errors"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// writeJSON writes a JSON response
func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError maps an application error onto the response envelope
func writeError(logger *zap.Logger, w http.ResponseWriter, err error) {
	var appErr *pkgerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = pkgerrors.NewInternalError("")
	}

	if appErr.StatusCode() >= 500 {
		logger.Error("Request failed",
			zap.String("code", string(appErr.Code)),
			zap.Error(err),
		)
	}

	message := appErr.Message
	if appErr.Details != "" {
		message = fmt.Sprintf("%s: %s", appErr.Message, appErr.Details)
	}

	writeJSON(logger, w, appErr.StatusCode(), APIResponse{
		Success: false,
		Error:   string(appErr.Code),
		Message: message,
	})
}

// validationError converts validator field errors into the application's
// validation error shape.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return pkgerrors.NewValidationError(err.Error())
	}

	converted := make([]pkgerrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		converted = append(converted, pkgerrors.ValidationError{
			Field:   fe.Field(),
			Value:   fe.Value(),
			Tag:     fe.Tag(),
			Message: fmt.Sprintf("field %s failed on the %s rule", fe.Field(), fe.Tag()),
		})
	}
	return pkgerrors.NewValidationErrors(converted)
}
