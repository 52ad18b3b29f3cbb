package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/application/services"
	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/Therapistdirectorydesign/backend/pkg/errors"
)

// ProviderHandler handles provider-related HTTP requests
type ProviderHandler struct {
	providerService *services.ProviderService
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(providerService *services.ProviderService) *ProviderHandler {
	return &ProviderHandler{
		providerService: providerService,
	}
}

// ListProviders handles GET /api/providers
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	filter := ParseProviderFilter(r.URL.Query())

	page, err := h.providerService.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(r.Context(), w, err, "failed to list providers")
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

// GetProvider handles GET /api/providers/{id}
func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	providerID := r.PathValue("id")
	if providerID == "" {
		respondWithAppError(r.Context(), w, apperrors.NewValidationError("provider ID is required"), "failed to get provider")
		return
	}

	// Malformed ids are a client error, not a missing record
	if _, err := uuid.Parse(providerID); err != nil {
		respondWithAppError(r.Context(), w, apperrors.NewValidationError("provider ID must be a valid UUID"), "failed to get provider")
		return
	}

	provider, err := h.providerService.GetByID(r.Context(), providerID)
	if err != nil {
		respondWithAppError(r.Context(), w, err, "failed to get provider")
		return
	}

	respondWithJSON(w, http.StatusOK, provider)
}

// GetFilterOptions handles GET /api/providers/_filters/options
func (h *ProviderHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.providerService.FilterOptions(r.Context())
	if err != nil {
		respondWithAppError(r.Context(), w, err, "failed to get filter options")
		return
	}

	respondWithJSON(w, http.StatusOK, options)
}

// Health handles GET /health
func (h *ProviderHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps domain errors onto HTTP statuses; anything
// unexpected is logged and becomes an opaque 500.
func respondWithAppError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		default:
			observability.LoggerFromContext(ctx).Error().Err(err).Msg(fallback)
			respondWithError(w, http.StatusInternalServerError, fallback)
		}
		return
	}
	observability.LoggerFromContext(ctx).Error().Err(err).Msg(fallback)
	respondWithError(w, http.StatusInternalServerError, fallback)
}
