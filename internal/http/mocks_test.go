package http

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/optimistic"
	"github.com/fjod/go_cart/storefront/internal/postcode"
	"github.com/fjod/go_cart/storefront/internal/session"
)

// MockSessions knows a single live session "s1".
type MockSessions struct {
	LoginErr   error
	LoggedOut  []string
	CurrentErr error
}

var liveSession = session.Session{
	ID:        "s1",
	Token:     "token-1",
	Email:     "taro@example.com",
	ExpiresAt: time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC),
}

func (m *MockSessions) Login(_ context.Context, email, _ string) (session.Session, error) {
	if m.LoginErr != nil {
		return session.Session{}, m.LoginErr
	}
	s := liveSession
	s.Email = email
	return s, nil
}

func (m *MockSessions) Logout(_ context.Context, id string) error {
	m.LoggedOut = append(m.LoggedOut, id)
	return nil
}

func (m *MockSessions) Current(_ context.Context, id string) (session.Session, error) {
	if m.CurrentErr != nil {
		return session.Session{}, m.CurrentErr
	}
	if id != liveSession.ID {
		return session.Session{}, session.ErrSessionNotFound
	}
	return liveSession, nil
}

// MockCheckout records the caller identity and returns canned results.
type MockCheckout struct {
	mu        sync.Mutex
	View      checkout.View
	Err       error
	SessionID string
	Token     string
	Handoff   *domain.CartSnapshot
	Patch     domain.FormPatch
	AddressID int64
	Amount    domain.Yen
	Receipt   domain.OrderConfirmation
}

func (m *MockCheckout) record(ctx context.Context, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionID = sessionID
	m.Token = api.TokenFromContext(ctx)
}

func (m *MockCheckout) Start(ctx context.Context, sessionID string, handoff *domain.CartSnapshot) (checkout.View, error) {
	m.record(ctx, sessionID)
	m.Handoff = handoff
	return m.View, m.Err
}

func (m *MockCheckout) Get(ctx context.Context, sessionID, _ string) (checkout.View, error) {
	m.record(ctx, sessionID)
	return m.View, m.Err
}

func (m *MockCheckout) Update(ctx context.Context, sessionID, _ string, patch domain.FormPatch) (checkout.View, error) {
	m.record(ctx, sessionID)
	m.Patch = patch
	return m.View, m.Err
}

func (m *MockCheckout) SelectAddress(ctx context.Context, sessionID, _ string, addressID int64) (checkout.View, error) {
	m.record(ctx, sessionID)
	m.AddressID = addressID
	return m.View, m.Err
}

func (m *MockCheckout) Advance(ctx context.Context, sessionID, _ string) (checkout.View, error) {
	m.record(ctx, sessionID)
	return m.View, m.Err
}

func (m *MockCheckout) Retreat(ctx context.Context, sessionID, _ string) (checkout.View, error) {
	m.record(ctx, sessionID)
	return m.View, m.Err
}

func (m *MockCheckout) Submit(ctx context.Context, sessionID, _ string) (checkout.View, error) {
	m.record(ctx, sessionID)
	return m.View, m.Err
}

func (m *MockCheckout) TopUp(ctx context.Context, sessionID, _ string, amount domain.Yen) (checkout.View, error) {
	m.record(ctx, sessionID)
	m.Amount = amount
	return m.View, m.Err
}

func (m *MockCheckout) Abandon(ctx context.Context, sessionID, _ string) error {
	m.record(ctx, sessionID)
	return m.Err
}

func (m *MockCheckout) Confirmation(_ context.Context, _ string) (domain.OrderConfirmation, error) {
	return m.Receipt, m.Err
}

type MockCounter struct {
	Value     int
	State     optimistic.State
	Err       error
	SessionID string
}

func (m *MockCounter) Count(_ context.Context, sessionID string) (int, optimistic.State, error) {
	m.SessionID = sessionID
	return m.Value, m.State, m.Err
}

func (m *MockCounter) Add(_ context.Context, sessionID string, _ int64, quantity int) (int, error) {
	m.SessionID = sessionID
	if m.Err != nil {
		return 0, m.Err
	}
	m.Value += quantity
	return m.Value, nil
}

type MockToggler struct {
	Wished map[int64]bool
	Err    error
}

func (m *MockToggler) Toggle(_ context.Context, _ string, productID int64) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	if m.Wished == nil {
		m.Wished = map[int64]bool{}
	}
	m.Wished[productID] = !m.Wished[productID]
	return m.Wished[productID], nil
}

type MockLookup struct {
	Addr postcode.Address
}

func (m *MockLookup) Lookup(_ context.Context, code string) (postcode.Address, error) {
	if _, err := postcode.Normalize(code); err != nil {
		return postcode.Address{}, err
	}
	return m.Addr, nil
}

type MockProducts struct {
	Page  api.ProductPage
	Query api.ProductQuery
	Err   error
}

func (m *MockProducts) ListProducts(_ context.Context, q api.ProductQuery) (api.ProductPage, error) {
	m.Query = q
	return m.Page, m.Err
}

func (m *MockProducts) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	if m.Err != nil {
		return domain.Product{}, m.Err
	}
	return domain.Product{ID: id, Name: "コットンシャツ", Price: 9800}, nil
}

type MockCategories struct {
	Tree []domain.Category
}

func (m *MockCategories) Categories(_ context.Context) ([]domain.Category, error) {
	return m.Tree, nil
}
