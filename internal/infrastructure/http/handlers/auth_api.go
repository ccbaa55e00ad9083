// Package handlers provides HTTP handlers for authentication API endpoints
package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/springdish/v1/internal/infrastructure/http/middleware"
	"github.com/springdish/v1/internal/ports/inbound"
	"github.com/springdish/v1/internal/ports/outbound"
	apperrors "github.com/springdish/v1/pkg/errors"
	"go.uber.org/zap"
)

const oauthStateTTL = 10 * time.Minute

// AuthAPIHandlers handles authentication API requests
type AuthAPIHandlers struct {
	authService inbound.AuthService
	cache       outbound.CacheRepository
	logger      *zap.Logger
}

// NewAuthAPIHandlers creates a new authentication API handlers instance
func NewAuthAPIHandlers(
	authService inbound.AuthService,
	cache outbound.CacheRepository,
	logger *zap.Logger,
) *AuthAPIHandlers {
	return &AuthAPIHandlers{
		authService: authService,
		cache:       cache,
		logger:      logger,
	}
}

// Authorize handles GET /api/v1/auth/authorize. It issues a one-time
// CSRF state and redirects the client to the provider consent page.
func (h *AuthAPIHandlers) Authorize(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()
	if err := h.cache.Set(r.Context(), stateKey(state), []byte("pending"), oauthStateTTL); err != nil {
		h.logger.Error("Failed to store oauth state", zap.Error(err))
		respondError(w, h.logger, apperrors.NewInternalError("could not start login"))
		return
	}

	http.Redirect(w, r, h.authService.AuthorizationURL(state), http.StatusFound)
}

// Callback handles GET /api/v1/auth/callback. The provider redirects
// here with the authorization code and the state we issued.
func (h *AuthAPIHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errCode := query.Get("error"); errCode != "" {
		respondError(w, h.logger, apperrors.NewUnauthenticatedError("authorization was denied"))
		return
	}

	code := query.Get("code")
	state := query.Get("state")
	if code == "" || state == "" {
		respondError(w, h.logger, apperrors.NewValidationError("code and state are required"))
		return
	}

	if !h.consumeState(r, state) {
		respondError(w, h.logger, apperrors.NewUnauthenticatedError("invalid or expired state"))
		return
	}

	result, err := h.authService.Login(r.Context(), code)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Profile handles GET /api/v1/auth/me
func (h *AuthAPIHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	kakaoID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperrors.NewUnauthenticatedError("authentication required"))
		return
	}

	profile, err := h.authService.Profile(r.Context(), kakaoID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Logout handles POST /api/v1/auth/logout. The presented token is
// revoked for the remainder of its lifetime.
func (h *AuthAPIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := middleware.GetTokenIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperrors.NewUnauthenticatedError("authentication required"))
		return
	}

	if err := h.authService.Logout(r.Context(), tokenID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Unlink handles POST /api/v1/auth/unlink. Severs the provider
// connection and removes the account with everything it owns.
func (h *AuthAPIHandlers) Unlink(w http.ResponseWriter, r *http.Request) {
	kakaoID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, apperrors.NewUnauthenticatedError("authentication required"))
		return
	}

	if err := h.authService.Unlink(r.Context(), kakaoID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	// The account is gone; retire the presented token as well.
	if tokenID, ok := middleware.GetTokenIDFromContext(r.Context()); ok {
		if err := h.authService.Logout(r.Context(), tokenID); err != nil {
			h.logger.Warn("Failed to revoke token after unlink", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "account unlinked"})
}

// consumeState checks the one-time state entry and burns it.
func (h *AuthAPIHandlers) consumeState(r *http.Request, state string) bool {
	key := stateKey(state)
	exists, err := h.cache.Exists(r.Context(), key)
	if err != nil {
		h.logger.Warn("Failed to check oauth state", zap.Error(err))
		return false
	}
	if !exists {
		return false
	}

	if err := h.cache.Delete(r.Context(), key); err != nil {
		h.logger.Warn("Failed to burn oauth state", zap.Error(err))
	}
	return true
}

func stateKey(state string) string {
	return "oauth_state:" + state
}
