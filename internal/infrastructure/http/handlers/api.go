// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	apperrors "github.com/springdish/v1/pkg/errors"
	"go.uber.org/zap"
)

var validate = validator.New()

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError translates an application error into the wire error
// shape. Unknown errors are masked as internal faults so repository
// details never leak to clients.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Error("Unhandled error", zap.Error(err))
		appErr = apperrors.NewInternalError("an unexpected error occurred")
	}

	if appErr.StatusCode() >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("code", string(appErr.Code)), zap.Error(appErr))
	}

	writeJSON(w, appErr.StatusCode(), apperrors.DetailResponse{Detail: appErr.Message})
}

// decodeJSON decodes and validates a request body, rejecting unknown
// fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return apperrors.NewValidationError("request failed validation")
	}
	return nil
}

// parseUUIDParam parses a UUID path parameter.
func parseUUIDParam(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("invalid identifier format")
	}
	return id, nil
}
