package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/optimistic"
	"github.com/fjod/go_cart/storefront/internal/session"
)

type CartCounter interface {
	Count(ctx context.Context, sessionID string) (int, optimistic.State, error)
	Add(ctx context.Context, sessionID string, productID int64, quantity int) (int, error)
}

type CartHandler struct {
	base
	counter CartCounter
}

func NewCartHandler(counter CartCounter, timeout time.Duration, log *slog.Logger) *CartHandler {
	return &CartHandler{base: base{timeout: timeout, log: log}, counter: counter}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type CartCountResponseDTO struct {
	Count int              `json:"count"`
	State optimistic.State `json:"state"`
}

func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	count, state, err := h.counter.Count(ctx, session.IDFromContext(ctx))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, CartCountResponseDTO{Count: count, State: state})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	var req AddItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	count, err := h.counter.Add(ctx, session.IDFromContext(ctx), req.ProductID, req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, CartCountResponseDTO{Count: count, State: optimistic.StateCommitted})
}
