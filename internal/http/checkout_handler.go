package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/retrorack/storefront/internal/checkout"
	"github.com/retrorack/storefront/internal/domain"
)

type CheckoutHandler struct {
	checkout *checkout.Service
	timeout  time.Duration
}

func NewCheckoutHandler(service *checkout.Service, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: service,
		timeout:  timeout,
	}
}

type InitiateCheckoutRequestDTO struct {
	IdempotencyKey string `json:"idempotency_key"`
}

type CheckoutResponseDTO struct {
	CheckoutID  string  `json:"checkout_id"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"total_amount"`
	Currency    string  `json:"currency"`
}

func checkoutDTO(session *domain.CheckoutSession) CheckoutResponseDTO {
	return CheckoutResponseDTO{
		CheckoutID:  session.ID,
		Status:      session.Status.String(),
		TotalAmount: session.Snapshot.TotalAmount,
		Currency:    session.Snapshot.Currency,
	}
}

// POST /api/v1/checkout
func (h *CheckoutHandler) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if getUserIDFromContext(r.Context()) == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req InitiateCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.IdempotencyKey == "" {
		respondError(w, http.StatusBadRequest, "missing_idempotency_key",
			"idempotency_key is required")
		return
	}

	session, err := h.checkout.Checkout(ctx, req.IdempotencyKey)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, http.StatusConflict, "empty_cart", "cart is empty, nothing to checkout")
			return
		}
		log.Printf("checkout handler: %v (request %s)", err, getRequestID(r.Context()))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, checkoutDTO(session))
}

// GET /api/v1/checkout/{checkout_id}
func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if getUserIDFromContext(r.Context()) == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	checkoutID := chi.URLParam(r, "checkout_id")
	session, err := h.checkout.GetSession(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, checkout.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "checkout session not found")
			return
		}
		log.Printf("checkout handler: %v (request %s)", err, getRequestID(r.Context()))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, checkoutDTO(session))
}
