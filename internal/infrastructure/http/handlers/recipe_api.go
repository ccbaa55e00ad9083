// Package handlers provides HTTP handlers for recipe API endpoints
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/springdish/v1/internal/infrastructure/http/middleware"
	"github.com/springdish/v1/internal/infrastructure/monitoring"
	"github.com/springdish/v1/internal/ports/inbound"
	apperrors "github.com/springdish/v1/pkg/errors"
	"go.uber.org/zap"
)

// RecipeAPIHandlers handles recipe API requests
type RecipeAPIHandlers struct {
	recipeService inbound.RecipeService
	metrics       *monitoring.MetricsCollector
	logger        *zap.Logger
}

// NewRecipeAPIHandlers creates a new recipe API handlers instance
func NewRecipeAPIHandlers(
	recipeService inbound.RecipeService,
	metrics *monitoring.MetricsCollector,
	logger *zap.Logger,
) *RecipeAPIHandlers {
	return &RecipeAPIHandlers{
		recipeService: recipeService,
		metrics:       metrics,
		logger:        logger,
	}
}

// GenerateRecipeRequest represents a generation request. Ingredients
// optionally narrows generation to a subset of the eligible pantry.
type GenerateRecipeRequest struct {
	Ingredients []string `json:"ingredients,omitempty"`
}

// Generate handles POST /api/v1/recipes/generate
func (h *RecipeAPIHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperrors.NewUnauthenticatedError("authentication required"))
		return
	}

	req := GenerateRecipeRequest{}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, h.logger, err)
			return
		}
	}

	start := time.Now()
	dto, err := h.recipeService.GenerateRecipe(r.Context(), inbound.GenerateRecipeCommand{
		UserID:      userID,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		h.metrics.RecordGenerationFailure(string(apperrors.GetCode(err)))
		respondError(w, h.logger, err)
		return
	}

	h.metrics.RecordRecipeGenerated(time.Since(start))
	writeJSON(w, http.StatusCreated, dto)
}

// List handles GET /api/v1/recipes
func (h *RecipeAPIHandlers) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperrors.NewUnauthenticatedError("authentication required"))
		return
	}

	params := paginationFromQuery(r)
	list, err := h.recipeService.ListRecipes(r.Context(), userID, params)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// ListStarred handles GET /api/v1/recipes/starred
func (h *RecipeAPIHandlers) ListStarred(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperrors.NewUnauthenticatedError("authentication required"))
		return
	}

	recipes, err := h.recipeService.ListStarredRecipes(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"recipes": recipes})
}

// Get handles GET /api/v1/recipes/{id}
func (h *RecipeAPIHandlers) Get(w http.ResponseWriter, r *http.Request) {
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

	dto, err := h.recipeService.GetRecipe(r.Context(), id, userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// ToggleStar handles POST /api/v1/recipes/{id}/star
func (h *RecipeAPIHandlers) ToggleStar(w http.ResponseWriter, r *http.Request) {
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

	state, err := h.recipeService.ToggleStar(r.Context(), id, userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.metrics.RecordStarToggled()
	writeJSON(w, http.StatusOK, state)
}

// Save handles POST /api/v1/recipes/{id}/save
func (h *RecipeAPIHandlers) Save(w http.ResponseWriter, r *http.Request) {
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

	if err := h.recipeService.SaveRecipe(r.Context(), id, userID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "recipe saved"})
}

// Delete handles DELETE /api/v1/recipes/{id}
func (h *RecipeAPIHandlers) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.recipeService.DeleteRecipe(r.Context(), id, userID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "recipe deleted"})
}

func paginationFromQuery(r *http.Request) inbound.PaginationParams {
	params := inbound.PaginationParams{Page: 0, PageSize: 0}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			params.Page = page
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil {
			params.PageSize = size
		}
	}
	return params
}
