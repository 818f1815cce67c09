package http

import (
	"context"
	"net/http"
	"time"

	"github.com/petpoint/pet_point/internal/checkout/domain"
)

// CheckoutAPI is the slice of the checkout orchestrator the gateway consumes.
type CheckoutAPI interface {
	Checkout(ctx context.Context, userID string) (*domain.Result, error)
}

type CheckoutHandler struct {
	checkout CheckoutAPI
	timeout  time.Duration
}

func NewCheckoutHandler(checkout CheckoutAPI, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	result, err := h.checkout.Checkout(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if result.Outcome == domain.OutcomeOrderFailed {
		status = http.StatusConflict
	}
	respondJSON(w, status, result)
}
