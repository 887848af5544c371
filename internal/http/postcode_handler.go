package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/go_cart/storefront/internal/postcode"
)

type PostcodeLookup interface {
	Lookup(ctx context.Context, code string) (postcode.Address, error)
}

type PostcodeHandler struct {
	base
	lookup PostcodeLookup
}

func NewPostcodeHandler(lookup PostcodeLookup, timeout time.Duration, log *slog.Logger) *PostcodeHandler {
	return &PostcodeHandler{base: base{timeout: timeout, log: log}, lookup: lookup}
}

func (h *PostcodeHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	addr, err := h.lookup.Lookup(ctx, chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, addr)
}
