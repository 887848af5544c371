package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/session"
)

const (
	SessionHeader   = "X-Session-ID"
	RequestIDHeader = "X-Request-ID"
)

type ctxKey int

const requestIDKey ctxKey = iota

// SessionResolver looks up the session named by a request.
type SessionResolver interface {
	Current(ctx context.Context, id string) (session.Session, error)
}

// SessionMiddleware resolves X-Session-ID and attaches the session id and
// bearer token to the request context. Unknown or expired sessions continue
// as anonymous requests.
func SessionMiddleware(sessions SessionResolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(SessionHeader)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			s, err := sessions.Current(r.Context(), id)
			switch {
			case err == nil:
				ctx := session.WithID(r.Context(), s.ID)
				ctx = api.WithToken(ctx, s.Token)
				r = r.WithContext(ctx)
			case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrSessionExpired):
			default:
				log.WarnContext(r.Context(), "session lookup failed", slog.String("error", err.Error()))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects anonymous requests with a login redirect.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session.IDFromContext(r.Context()) == "" {
			handleError(w, session.ErrSessionNotFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}
