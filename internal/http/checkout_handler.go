package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/session"
)

type CheckoutHandler struct {
	base
	svc checkout.CheckoutService
}

func NewCheckoutHandler(svc checkout.CheckoutService, timeout time.Duration, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{base: base{timeout: timeout, log: log}, svc: svc}
}

type StartRequestDTO struct {
	// Items is the cart handed over from the cart page; empty means fetch it.
	Items []domain.CartItem `json:"items,omitempty"`
}

type SelectAddressRequestDTO struct {
	AddressID int64 `json:"addressId"`
}

type TopUpRequestDTO struct {
	Amount domain.Yen `json:"amount"`
}

// respondCheckout writes the view, or the error together with the saved
// draft so the page can show the message next to the form.
func (h *CheckoutHandler) respondCheckout(w http.ResponseWriter, r *http.Request, status int, v checkout.View, err error) {
	if err == nil {
		respondJSON(w, status, v)
		return
	}
	code, body := classify(err)
	if v.Draft != nil && code != http.StatusUnauthorized {
		body.Checkout = &v
		if v.Error != "" {
			body.Error = v.Error
		}
	}
	if code >= http.StatusInternalServerError {
		h.log.ErrorContext(r.Context(), "checkout action failed",
			slog.String("request_id", getRequestID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}
	respondJSON(w, code, body)
}

func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	var req StartRequestDTO
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	var handoff *domain.CartSnapshot
	if len(req.Items) > 0 {
		handoff = &domain.CartSnapshot{Items: req.Items}
	}

	v, err := h.svc.Start(ctx, session.IDFromContext(ctx), handoff)
	// A draft that failed to load part of its data still exists and carries
	// the message; the shopper can retry from it.
	// A rejected token is not a partial load: the session is gone.
	if errors.Is(err, checkout.ErrLoadFailed) && !errors.Is(err, api.ErrUnauthorized) && v.Draft != nil {
		h.log.WarnContext(ctx, "checkout started with partial data",
			slog.String("request_id", getRequestID(ctx)),
			slog.String("draft_id", v.ID))
		err = nil
	}
	h.respondCheckout(w, r, http.StatusCreated, v, err)
}

func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	v, err := h.svc.Get(ctx, session.IDFromContext(ctx), chi.URLParam(r, "id"))
	h.respondCheckout(w, r, http.StatusOK, v, err)
}

func (h *CheckoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	var patch domain.FormPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	v, err := h.svc.Update(ctx, session.IDFromContext(ctx), chi.URLParam(r, "id"), patch)
	h.respondCheckout(w, r, http.StatusOK, v, err)
}

func (h *CheckoutHandler) SelectAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	var req SelectAddressRequestDTO
	if err := decodeJSON(r, &req); err != nil || req.AddressID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "addressId must be a positive integer")
		return
	}

	v, err := h.svc.SelectAddress(ctx, session.IDFromContext(ctx), chi.URLParam(r, "id"), req.AddressID)
	h.respondCheckout(w, r, http.StatusOK, v, err)
}

func (h *CheckoutHandler) Advance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	v, err := h.svc.Advance(ctx, session.IDFromContext(ctx), chi.URLParam(r, "id"))
	h.respondCheckout(w, r, http.StatusOK, v, err)
}

func (h *CheckoutHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	v, err := h.svc.Retreat(ctx, session.IDFromContext(ctx), chi.URLParam(r, "id"))
	h.respondCheckout(w, r, http.StatusOK, v, err)
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	v, err := h.svc.Submit(ctx, session.IDFromContext(ctx), chi.URLParam(r, "id"))
	h.respondCheckout(w, r, http.StatusOK, v, err)
}

func (h *CheckoutHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	var req TopUpRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	v, err := h.svc.TopUp(ctx, session.IDFromContext(ctx), chi.URLParam(r, "id"), req.Amount)
	h.respondCheckout(w, r, http.StatusOK, v, err)
}

func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	if err := h.svc.Abandon(ctx, session.IDFromContext(ctx), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CheckoutHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	c, err := h.svc.Confirmation(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}
