// Package handlers provides HTTP handlers for pantry API endpoints
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/springdish/v1/internal/infrastructure/http/middleware"
	"github.com/springdish/v1/internal/ports/inbound"
	apperrors "github.com/springdish/v1/pkg/errors"
	"go.uber.org/zap"
)

// PantryAPIHandlers handles pantry API requests
type PantryAPIHandlers struct {
	pantryService inbound.PantryService
	logger        *zap.Logger
}

// NewPantryAPIHandlers creates a new pantry API handlers instance
func NewPantryAPIHandlers(pantryService inbound.PantryService, logger *zap.Logger) *PantryAPIHandlers {
	return &PantryAPIHandlers{
		pantryService: pantryService,
		logger:        logger,
	}
}

// RegisterIngredientRequest represents an ingredient registration request
type RegisterIngredientRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=100"`
	Category string  `json:"category" validate:"required,max=50"`
	Quantity string  `json:"quantity,omitempty" validate:"max=50"`
	ImageURL string  `json:"image_url,omitempty" validate:"omitempty,url"`
	AddedAt  *string `json:"added_at,omitempty"`
	LimitAt  *string `json:"limit_at,omitempty"`
}

// UpdateIngredientRequest represents an ingredient update request.
// Absent fields are left unchanged.
type UpdateIngredientRequest struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=50"`
	Quantity *string `json:"quantity,omitempty" validate:"omitempty,max=50"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
	AddedAt  *string `json:"added_at,omitempty"`
	LimitAt  *string `json:"limit_at,omitempty"`
}

// Register handles POST /api/v1/ingredients
func (h *PantryAPIHandlers) Register(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperrors.NewUnauthenticatedError("authentication required"))
		return
	}

	var req RegisterIngredientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	addedAt, err := parseTimePtr(req.AddedAt)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	limitAt, err := parseTimePtr(req.LimitAt)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	dto, err := h.pantryService.RegisterIngredient(r.Context(), inbound.RegisterIngredientCommand{
		UserID:   userID,
		Name:     req.Name,
		Category: req.Category,
		Quantity: req.Quantity,
		ImageURL: req.ImageURL,
		AddedAt:  addedAt,
		LimitAt:  limitAt,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto)
}

// List handles GET /api/v1/ingredients
func (h *PantryAPIHandlers) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperrors.NewUnauthenticatedError("authentication required"))
		return
	}

	items, err := h.pantryService.ListIngredients(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ingredients": items})
}

// ListExpiring handles GET /api/v1/ingredients/expiring
func (h *PantryAPIHandlers) ListExpiring(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperrors.NewUnauthenticatedError("authentication required"))
		return
	}

	withinDays := 0
	if raw := r.URL.Query().Get("within_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, h.logger, apperrors.NewValidationError("within_days must be a non-negative integer"))
			return
		}
		withinDays = parsed
	}

	items, err := h.pantryService.ListExpiring(r.Context(), userID, withinDays)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ingredients": items})
}

// Get handles GET /api/v1/ingredients/{id}
func (h *PantryAPIHandlers) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperrors.NewUnauthenticatedError("authentication required"))
		return
	}

	id, err := parseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	dto, err := h.pantryService.GetIngredient(r.Context(), userID, id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// Update handles PATCH /api/v1/ingredients/{id}
func (h *PantryAPIHandlers) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperrors.NewUnauthenticatedError("authentication required"))
		return
	}

	id, err := parseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	var req UpdateIngredientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	addedAt, err := parseTimePtr(req.AddedAt)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	limitAt, err := parseTimePtr(req.LimitAt)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	dto, err := h.pantryService.UpdateIngredient(r.Context(), inbound.UpdateIngredientCommand{
		UserID:   userID,
		ID:       id,
		Name:     req.Name,
		Category: req.Category,
		Quantity: req.Quantity,
		ImageURL: req.ImageURL,
		AddedAt:  addedAt,
		LimitAt:  limitAt,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// Remove handles DELETE /api/v1/ingredients/{id}
func (h *PantryAPIHandlers) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperrors.NewUnauthenticatedError("authentication required"))
		return
	}

	id, err := parseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.pantryService.RemoveIngredient(r.Context(), userID, id); err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "ingredient removed"})
}

// Freeze handles POST /api/v1/ingredients/{id}/freeze
func (h *PantryAPIHandlers) Freeze(w http.ResponseWriter, r *http.Request) {
	h.toggleFrozen(w, r, h.pantryService.FreezeIngredient)
}

// Thaw handles POST /api/v1/ingredients/{id}/thaw
func (h *PantryAPIHandlers) Thaw(w http.ResponseWriter, r *http.Request) {
	h.toggleFrozen(w, r, h.pantryService.ThawIngredient)
}

func (h *PantryAPIHandlers) toggleFrozen(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID int64, id uuid.UUID) (*inbound.IngredientDTO, error),
) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperrors.NewUnauthenticatedError("authentication required"))
		return
	}

	id, err := parseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	dto, err := op(r.Context(), userID, id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// parseTimePtr parses an optional RFC 3339 timestamp.
func parseTimePtr(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, apperrors.NewValidationError("timestamps must be RFC 3339")
	}
	return &parsed, nil
}
