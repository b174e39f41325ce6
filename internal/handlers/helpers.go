package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"brainwave-backend/internal/models"
	"brainwave-backend/internal/repository"
	"brainwave-backend/internal/services"
)

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

// handlePipelineError maps generation pipeline failures to structured
// responses. Upstream and malformed-response failures are the model's
// fault, so they surface as 502; anything unrecognized collapses to a
// generic 500.
func handlePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	switch err.(type) {
	case *services.UpstreamError:
		writeJSON(w, http.StatusBadGateway, errorResp("UPSTREAM_ERROR", "Generation service call failed", r))
	case *services.UnparseableError:
		writeJSON(w, http.StatusBadGateway, errorResp("UNPARSEABLE_RESPONSE", "Could not parse generation service response", r))
	case *services.ShapeError:
		writeJSON(w, http.StatusBadGateway, errorResp("BAD_SHAPE", "Generation service returned an unexpected format", r))
	case *services.CountError:
		writeJSON(w, http.StatusBadGateway, errorResp("BAD_COUNT", err.Error(), r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}

// handleStoreError maps document-store failures.
func handleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Resource not found", r))
	case errors.Is(err, repository.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Concurrent update conflict, please retry", r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("PERSISTENCE_ERROR", "Failed to save changes", r))
	}
}
