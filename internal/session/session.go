package session

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidToken    = errors.New("invalid token")
)

// Session is an authenticated storefront user. The token is forwarded to the
// backend as a bearer token.
type Session struct {
	ID        string    `msgpack:"id"`
	Token     string    `msgpack:"token"`
	Email     string    `msgpack:"email"`
	ExpiresAt time.Time `msgpack:"expires_at"`
	CreatedAt time.Time `msgpack:"created_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

type ctxKey int

const idKey ctxKey = iota

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey, id)
}

func IDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(idKey).(string); ok {
		return id
	}
	return ""
}
