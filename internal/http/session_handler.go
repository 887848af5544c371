package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/session"
)

type SessionService interface {
	SessionResolver
	Login(ctx context.Context, email, password string) (session.Session, error)
	Logout(ctx context.Context, id string) error
}

type SessionHandler struct {
	base
	sessions SessionService
}

func NewSessionHandler(sessions SessionService, timeout time.Duration, log *slog.Logger) *SessionHandler {
	return &SessionHandler{base: base{timeout: timeout, log: log}, sessions: sessions}
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponseDTO struct {
	SessionID string    `json:"sessionId"`
	Email     string    `json:"email"`
	LoggedIn  bool      `json:"loggedIn"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func sessionResponse(s session.Session) SessionResponseDTO {
	return SessionResponseDTO{
		SessionID: s.ID,
		Email:     s.Email,
		LoggedIn:  true,
		ExpiresAt: s.ExpiresAt,
	}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	var req LoginRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	s, err := h.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			respondError(w, http.StatusUnauthorized, "invalid_credentials", api.Message(err, "メールアドレスまたはパスワードが正しくありません。"))
			return
		}
		h.fail(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, sessionResponse(s))
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	id := r.Header.Get(SessionHeader)
	if err := h.sessions.Logout(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	s, err := h.sessions.Current(ctx, r.Header.Get(SessionHeader))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse(s))
}
