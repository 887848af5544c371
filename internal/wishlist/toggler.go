package wishlist

import (
	"context"
	"fmt"
	"sync"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/optimistic"
	"github.com/fjod/go_cart/storefront/internal/session"
)

type WishlistAPI interface {
	ListWishlist(ctx context.Context) ([]domain.WishlistItem, error)
	AddToWishlist(ctx context.Context, productID int64) error
	RemoveFromWishlist(ctx context.Context, productID int64) error
}

type Subscriber interface {
	Subscribe(fn session.Listener) (unsubscribe func())
}

type hearts struct {
	mu       sync.Mutex
	products map[int64]*optimistic.Machine[bool]
}

func (h *hearts) machine(productID int64) *optimistic.Machine[bool] {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.products[productID]
	if !ok {
		m = optimistic.New(false)
		h.products[productID] = m
	}
	return m
}

// Toggler flips wishlist hearts per session and product.
type Toggler struct {
	api WishlistAPI

	mu       sync.Mutex
	sessions map[string]*hearts
}

func NewToggler(api WishlistAPI) *Toggler {
	return &Toggler{api: api, sessions: make(map[string]*hearts)}
}

func (t *Toggler) Attach(sub Subscriber) (detach func()) {
	return sub.Subscribe(func(_ context.Context, e session.Event) {
		if e.Kind == session.LoggedOut {
			t.mu.Lock()
			delete(t.sessions, e.Session.ID)
			t.mu.Unlock()
		}
	})
}

func (t *Toggler) load(ctx context.Context, sessionID string) (*hearts, error) {
	t.mu.Lock()
	h, ok := t.sessions[sessionID]
	t.mu.Unlock()
	if ok {
		return h, nil
	}

	items, err := t.api.ListWishlist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	h = &hearts{products: make(map[int64]*optimistic.Machine[bool], len(items))}
	for _, item := range items {
		h.products[item.ProductID] = optimistic.New(true)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.sessions[sessionID]; ok {
		return existing, nil
	}
	t.sessions[sessionID] = h
	return h, nil
}

func (t *Toggler) Wished(ctx context.Context, sessionID string, productID int64) (bool, optimistic.State, error) {
	h, err := t.load(ctx, sessionID)
	if err != nil {
		return false, optimistic.StateCommitted, err
	}
	v, st := h.machine(productID).Snapshot()
	return v, st, nil
}

// Toggle flips the heart before the backend confirms, and returns the
// resulting state.
func (t *Toggler) Toggle(ctx context.Context, sessionID string, productID int64) (bool, error) {
	h, err := t.load(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return h.machine(productID).Do(ctx,
		func(current bool) bool { return !current },
		func(ctx context.Context, wished bool) (bool, error) {
			call := t.api.RemoveFromWishlist
			if wished {
				call = t.api.AddToWishlist
			}
			if err := call(ctx, productID); err != nil {
				return false, fmt.Errorf("failed to update wishlist: %w", err)
			}
			return wished, nil
		})
}
