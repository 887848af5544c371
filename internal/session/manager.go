package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fjod/go_cart/storefront/internal/api"
)

type EventKind string

const (
	LoggedIn  EventKind = "logged_in"
	LoggedOut EventKind = "logged_out"
)

type Event struct {
	Kind    EventKind
	Session Session
}

type Listener func(ctx context.Context, e Event)

type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (api.LoginResponse, error)
}

// Manager owns authentication state. Components that need to react to
// login or logout subscribe instead of polling.
type Manager struct {
	auth       Authenticator
	store      Store
	log        *slog.Logger
	now        func() time.Time
	defaultTTL time.Duration

	mu        sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

type ManagerOption func(*Manager)

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithDefaultTTL applies to tokens without an exp claim.
func WithDefaultTTL(d time.Duration) ManagerOption {
	return func(m *Manager) { m.defaultTTL = d }
}

func NewManager(auth Authenticator, store Store, log *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		auth:       auth,
		store:      store,
		log:        log,
		now:        time.Now,
		defaultTTL: 24 * time.Hour,
		listeners:  make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Login(ctx context.Context, email, password string) (Session, error) {
	res, err := m.auth.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		return Session{}, fmt.Errorf("login failed: %w", err)
	}

	now := m.now()
	exp, ok, err := tokenExpiry(res.Token)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		exp = now.Add(m.defaultTTL)
	}
	if !now.Before(exp) {
		return Session{}, ErrSessionExpired
	}

	userEmail := res.UserEmail
	if userEmail == "" {
		userEmail = email
	}
	s := Session{
		ID:        uuid.NewString(),
		Token:     res.Token,
		Email:     userEmail,
		ExpiresAt: exp,
		CreatedAt: now,
	}
	if err := m.store.Save(ctx, s); err != nil {
		return Session{}, fmt.Errorf("failed to save session: %w", err)
	}

	m.log.InfoContext(ctx, "session started", slog.String("session_id", s.ID))
	m.publish(ctx, Event{Kind: LoggedIn, Session: s})
	return s, nil
}

// Logout is idempotent; unknown sessions are not an error.
func (m *Manager) Logout(ctx context.Context, id string) error {
	s, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	m.log.InfoContext(ctx, "session ended", slog.String("session_id", id))
	m.publish(ctx, Event{Kind: LoggedOut, Session: s})
	return nil
}

// Current returns the live session. An expired one is logged out on the way.
func (m *Manager) Current(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, ErrSessionNotFound
	}
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if s.Expired(m.now()) {
		if err := m.Logout(ctx, id); err != nil {
			m.log.WarnContext(ctx, "failed to drop expired session",
				slog.String("session_id", id), slog.String("error", err.Error()))
		}
		return Session{}, ErrSessionExpired
	}
	return s, nil
}

// HandleUnauthorized logs out the session carried by ctx. It is installed as
// the API client's 401 hook.
func (m *Manager) HandleUnauthorized(ctx context.Context) {
	id := IDFromContext(ctx)
	if id == "" {
		return
	}
	// The request context may already be cancelled by the time we get here.
	if err := m.Logout(context.WithoutCancel(ctx), id); err != nil {
		m.log.WarnContext(ctx, "failed to log out after 401",
			slog.String("session_id", id), slog.String("error", err.Error()))
	}
}

func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

func (m *Manager) publish(ctx context.Context, e Event) {
	m.mu.RLock()
	listeners := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.RUnlock()

	for _, l := range listeners {
		l(ctx, e)
	}
}
