package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/session"
)

type WishlistToggler interface {
	Toggle(ctx context.Context, sessionID string, productID int64) (bool, error)
}

type WishlistHandler struct {
	base
	toggler WishlistToggler
}

func NewWishlistHandler(toggler WishlistToggler, timeout time.Duration, log *slog.Logger) *WishlistHandler {
	return &WishlistHandler{base: base{timeout: timeout, log: log}, toggler: toggler}
}

type WishlistResponseDTO struct {
	ProductID int64 `json:"productId"`
	Wished    bool  `json:"wished"`
}

func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	productID, ok := pathID(r, "productId")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be a positive integer")
		return
	}

	wished, err := h.toggler.Toggle(ctx, session.IDFromContext(ctx), productID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, WishlistResponseDTO{ProductID: productID, Wished: wished})
}
