package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"brainwave-backend/internal/middleware"
	"brainwave-backend/internal/models"
)

type checkoutService interface {
	CreateSession(ctx context.Context, userID uuid.UUID, plan string) (string, error)
}

type CheckoutHandler struct {
	checkout checkoutService
}

func NewCheckoutHandler(checkout checkoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// CreateSession creates a Stripe checkout session and returns its id for
// the client-side redirect.
func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Plan == "" {
		req.Plan = "pro"
	}

	userID := middleware.GetUserID(r.Context())

	sessionID, err := h.checkout.CreateSession(r.Context(), userID, req.Plan)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("CHECKOUT_ERROR", "Failed to create checkout session", r))
		return
	}

	writeJSON(w, http.StatusOK, models.CheckoutSessionResponse{ID: sessionID})
}
