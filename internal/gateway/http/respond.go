package http

import (
	"encoding/json"
	"errors"
	"net/http"

	cartrepo "github.com/petpoint/pet_point/internal/cart/repository"
	cartservice "github.com/petpoint/pet_point/internal/cart/service"
	"github.com/petpoint/pet_point/internal/catalog/store"
	checkoutservice "github.com/petpoint/pet_point/internal/checkout/service"
	reportsrepo "github.com/petpoint/pet_point/internal/reports/repository"
	reportsservice "github.com/petpoint/pet_point/internal/reports/service"
	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError converts service sentinels to HTTP status codes
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cartservice.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, cartservice.ErrStockExceeded):
		respondError(w, http.StatusConflict, "stock_exceeded", err.Error())
	case errors.Is(err, cartservice.ErrOutOfStock):
		respondError(w, http.StatusConflict, "out_of_stock", err.Error())
	case errors.Is(err, checkoutservice.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, reportsservice.ErrInvalidReport):
		respondError(w, http.StatusBadRequest, "invalid_report", err.Error())
	case errors.Is(err, reportsservice.ErrNotOwner):
		respondError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, cartrepo.ErrCartNotFound),
		errors.Is(err, cartrepo.ErrLineNotFound),
		errors.Is(err, reportsrepo.ErrReportNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		log.WithError(err).Error("internal error")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
