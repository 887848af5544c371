package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/optimistic"
	"github.com/fjod/go_cart/storefront/internal/postcode"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/pkg/circuitbreaker"
)

const LoginPath = "/login"

type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Details  string `json:"details,omitempty"`
	Redirect string `json:"redirect,omitempty"`

	// Checkout carries the saved draft when a checkout action fails.
	Checkout *checkout.View `json:"checkout,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// classify maps a service error to status, code and message.
func classify(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, checkout.ErrNotAuthenticated),
		errors.Is(err, api.ErrUnauthorized),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrSessionExpired):
		return http.StatusUnauthorized, ErrorResponse{
			Error:    "ログインしてください。",
			Code:     "unauthenticated",
			Redirect: LoginPath,
		}
	case errors.Is(err, session.ErrInvalidToken):
		return http.StatusBadGateway, ErrorResponse{Error: "invalid token from backend", Code: "invalid_token"}
	case errors.Is(err, checkout.ErrDraftNotFound), errors.Is(err, repository.ErrReceiptNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "checkout not found", Code: "not_found"}
	case errors.Is(err, checkout.ErrActionInProgress):
		return http.StatusConflict, ErrorResponse{Error: checkout.UserMessage(err), Code: "action_in_progress"}
	case errors.Is(err, checkout.ErrDraftSubmitted):
		return http.StatusConflict, ErrorResponse{Error: checkout.UserMessage(err), Code: "already_submitted"}
	case errors.Is(err, checkout.ErrIllegalTransition):
		return http.StatusConflict, ErrorResponse{Error: checkout.UserMessage(err), Code: "illegal_transition", Details: err.Error()}
	case errors.Is(err, optimistic.ErrPending):
		return http.StatusConflict, ErrorResponse{Error: "update already in progress", Code: "pending"}
	case checkout.IsValidation(err):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: checkout.UserMessage(err), Code: "validation_failed"}
	case errors.Is(err, postcode.ErrInvalidFormat), errors.Is(err, postcode.ErrNotFound):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: postcode.UserMessage(err), Code: "invalid_postal_code"}
	case errors.Is(err, postcode.ErrLookupFailed):
		return http.StatusBadGateway, ErrorResponse{Error: postcode.UserMessage(err), Code: "lookup_failed"}
	case errors.Is(err, checkout.ErrSubmitFailed),
		errors.Is(err, checkout.ErrTopUpFailed),
		errors.Is(err, checkout.ErrLoadFailed):
		status, code := http.StatusBadGateway, "backend_error"
		if isBusiness(err) {
			status, code = http.StatusUnprocessableEntity, "rejected"
		}
		return status, ErrorResponse{Error: checkout.UserMessage(err), Code: code}
	}
	return classifyTransport(err)
}

func classifyTransport(err error) (int, ErrorResponse) {
	var apiErr *api.Error
	switch {
	case circuitbreaker.IsOpen(err):
		return http.StatusServiceUnavailable, ErrorResponse{Error: "service temporarily unavailable", Code: "service_unavailable"}
	case errors.Is(err, api.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: api.Message(err, "not found"), Code: "not_found"}
	case errors.As(err, &apiErr) && apiErr.IsBusiness():
		return apiErr.Status, ErrorResponse{Error: api.Message(err, "request rejected"), Code: "rejected"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorResponse{Error: "request timed out", Code: "timeout"}
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, ErrorResponse{Error: "backend unavailable", Code: "backend_error"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "internal_error"}
	}
}

func isBusiness(err error) bool {
	var apiErr *api.Error
	return errors.As(err, &apiErr) && apiErr.IsBusiness()
}

func handleError(w http.ResponseWriter, err error) {
	status, body := classify(err)
	respondJSON(w, status, body)
}
