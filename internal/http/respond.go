package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_order/internal/catalog"
	"github.com/fjod/go_order/internal/inventory"
	"github.com/fjod/go_order/internal/payment"
	"github.com/fjod/go_order/internal/repository"
	"github.com/fjod/go_order/internal/service"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: code, Message: message})
}

// handleServiceError maps the order core's failure values onto HTTP codes.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, payment.ErrUnsupportedPaymentMethod):
		respondError(w, http.StatusBadRequest, "unsupported_payment_method", err.Error())
	case errors.Is(err, service.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, service.ErrNoMatchingItems):
		respondError(w, http.StatusBadRequest, "no_matching_items", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, inventory.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, inventory.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
