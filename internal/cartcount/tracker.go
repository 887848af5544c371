package cartcount

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/optimistic"
	"github.com/fjod/go_cart/storefront/internal/session"
)

type CartAPI interface {
	GetCart(ctx context.Context) (domain.Cart, error)
	AddCartItem(ctx context.Context, productID int64, quantity int) (domain.Cart, error)
}

type Subscriber interface {
	Subscribe(fn session.Listener) (unsubscribe func())
}

// Tracker keeps the cart badge count for each session.
type Tracker struct {
	cart CartAPI
	log  *slog.Logger

	mu     sync.Mutex
	counts map[string]*optimistic.Machine[int]
}

func NewTracker(cart CartAPI, log *slog.Logger) *Tracker {
	return &Tracker{
		cart:   cart,
		log:    log,
		counts: make(map[string]*optimistic.Machine[int]),
	}
}

// Attach refetches on login and zeroes on logout.
func (t *Tracker) Attach(sub Subscriber) (detach func()) {
	return sub.Subscribe(t.onSessionEvent)
}

func (t *Tracker) onSessionEvent(ctx context.Context, e session.Event) {
	switch e.Kind {
	case session.LoggedIn:
		ctx = api.WithToken(session.WithID(ctx, e.Session.ID), e.Session.Token)
		if _, err := t.Refresh(ctx, e.Session.ID); err != nil {
			t.log.WarnContext(ctx, "failed to load cart count",
				slog.String("session_id", e.Session.ID), slog.String("error", err.Error()))
		}
	case session.LoggedOut:
		t.mu.Lock()
		delete(t.counts, e.Session.ID)
		t.mu.Unlock()
	}
}

func (t *Tracker) machine(sessionID string) *optimistic.Machine[int] {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.counts[sessionID]
	if !ok {
		m = optimistic.New(0)
		t.counts[sessionID] = m
	}
	return m
}

// Count returns the badge value, loading it the first time a session asks.
func (t *Tracker) Count(ctx context.Context, sessionID string) (int, optimistic.State, error) {
	t.mu.Lock()
	m, ok := t.counts[sessionID]
	t.mu.Unlock()
	if !ok {
		if _, err := t.Refresh(ctx, sessionID); err != nil {
			return 0, optimistic.StateCommitted, err
		}
		m = t.machine(sessionID)
	}
	v, st := m.Snapshot()
	return v, st, nil
}

// Refresh replaces the count with the backend's totalItemCount.
func (t *Tracker) Refresh(ctx context.Context, sessionID string) (int, error) {
	cart, err := t.cart.GetCart(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get cart: %w", err)
	}
	m := t.machine(sessionID)
	m.Reset(cart.TotalItemCount)
	return cart.TotalItemCount, nil
}

// Add bumps the badge by quantity before the backend confirms the add.
func (t *Tracker) Add(ctx context.Context, sessionID string, productID int64, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	m := t.machine(sessionID)
	return m.Do(ctx,
		func(current int) int { return current + quantity },
		func(ctx context.Context, _ int) (int, error) {
			cart, err := t.cart.AddCartItem(ctx, productID, quantity)
			if err != nil {
				return 0, fmt.Errorf("failed to add cart item: %w", err)
			}
			return cart.TotalItemCount, nil
		})
}
