package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/modybick/pos/internal/domain"
	"github.com/modybick/pos/internal/service"
)

type CartHandler struct {
	session *service.Session
}

func NewCartHandler(session *service.Session) *CartHandler {
	return &CartHandler{session: session}
}

type CartResponseDTO struct {
	Entries []domain.CartEntry `json:"entries"`
	Total   int64              `json:"total"`
}

type AdjustQuantityRequestDTO struct {
	Delta int `json:"delta"`
}

type CheckoutRequestDTO struct {
	TenderedAmount int64  `json:"tendered_amount"`
	PaymentMethod  string `json:"payment_method"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CartResponseDTO{
		Entries: h.session.Entries(),
		Total:   h.session.Total(),
	})
}

func (h *CartHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")
	if barcode == "" {
		respondError(w, http.StatusBadRequest, "invalid_barcode", "barcode must not be empty")
		return
	}

	var req AdjustQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Delta == 0 {
		respondError(w, http.StatusBadRequest, "invalid_delta", "delta must not be zero")
		return
	}

	h.session.AdjustQuantity(barcode, req.Delta)
	respondJSON(w, http.StatusOK, CartResponseDTO{
		Entries: h.session.Entries(),
		Total:   h.session.Total(),
	})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.session.Clear()
	respondJSON(w, http.StatusOK, CartResponseDTO{
		Entries: []domain.CartEntry{},
		Total:   0,
	})
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PaymentMethod == "" {
		respondError(w, http.StatusBadRequest, "invalid_payment_method", "payment_method must not be empty")
		return
	}

	sale, err := h.session.Checkout(r.Context(), req.TenderedAmount, req.PaymentMethod)
	if errors.Is(err, service.ErrEmptyCart) {
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
		return
	}
	if errors.Is(err, service.ErrInsufficientTender) {
		respondError(w, http.StatusConflict, "insufficient_tender", err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, sale)
}

// RestorePending pulls a pending cart-reproduction snapshot into the cart.
func (h *CartHandler) RestorePending(w http.ResponseWriter, r *http.Request) {
	restored, err := h.session.RestorePending(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	if !restored {
		respondError(w, http.StatusNotFound, "no_pending_handoff", "no pending cart reproduction")
		return
	}

	respondJSON(w, http.StatusOK, CartResponseDTO{
		Entries: h.session.Entries(),
		Total:   h.session.Total(),
	})
}
