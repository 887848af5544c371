package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/cache"
)

// MockCartClient implements CartAPI for testing
type MockCartClient struct {
	mu        sync.Mutex
	Cart      domain.Cart
	GetErr    error
	RemoveErr error
	GetCalls  int
	Removed   []int64
}

func (m *MockCartClient) GetCart(_ context.Context) (domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	return m.Cart, m.GetErr
}

func (m *MockCartClient) RemoveCartItem(_ context.Context, itemID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.Removed = append(m.Removed, itemID)
	return nil
}

// MockProfileClient implements ProfileAPI for testing
type MockProfileClient struct {
	mu           sync.Mutex
	Profile      domain.Profile
	ProfileErr   error
	Addresses    []domain.Address
	AddressesErr error
	CreateErr    error
	Created      []domain.Address
	Calls        int
}

func (m *MockProfileClient) GetProfile(_ context.Context) (domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.ProfileErr != nil {
		return domain.Profile{}, m.ProfileErr
	}
	return m.Profile, nil
}

func (m *MockProfileClient) ListAddresses(_ context.Context) ([]domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.AddressesErr != nil {
		return nil, m.AddressesErr
	}
	return m.Addresses, nil
}

func (m *MockProfileClient) CreateAddress(_ context.Context, addr domain.Address) (domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return domain.Address{}, m.CreateErr
	}
	addr.ID = int64(100 + len(m.Created))
	m.Created = append(m.Created, addr)
	return addr, nil
}

// MockWalletClient keeps balances and moves PayPay into points on charge.
type MockWalletClient struct {
	mu            sync.Mutex
	Balances      domain.UserBalances
	BalancesErr   error
	PayPay        *domain.PayPayAccount
	Card          *domain.RegisteredCard
	ChargeErr     error
	Charged       []domain.Yen
	BalancesCalls int
	// BalancesErrAfter fails GetBalances once this many calls succeeded; 0 disables it.
	BalancesErrAfter int
}

func (m *MockWalletClient) GetBalances(_ context.Context, _ int64) (domain.UserBalances, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BalancesCalls++
	if m.BalancesErr != nil {
		return domain.UserBalances{}, m.BalancesErr
	}
	if m.BalancesErrAfter > 0 && m.BalancesCalls > m.BalancesErrAfter {
		return domain.UserBalances{}, &api.Error{Status: 503}
	}
	return m.Balances, nil
}

func (m *MockWalletClient) RegisteredPayPay(_ context.Context, _ int64) (*domain.PayPayAccount, error) {
	return m.PayPay, nil
}

func (m *MockWalletClient) RegisteredCard(_ context.Context, _ int64) (*domain.RegisteredCard, error) {
	return m.Card, nil
}

func (m *MockWalletClient) ChargePointsFromPayPay(_ context.Context, _ int64, amount domain.Yen) (api.ChargeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Charged = append(m.Charged, amount)
	if m.ChargeErr != nil {
		return api.ChargeResult{}, m.ChargeErr
	}
	m.Balances.PayPay -= amount
	m.Balances.Point += amount
	return api.ChargeResult{Message: "ok", Balances: m.Balances}, nil
}

// MockOrderClient implements OrderAPI for testing
type MockOrderClient struct {
	mu       sync.Mutex
	Order    domain.Order
	Err      error
	Requests []domain.OrderRequest
	// Started and Release let a test hold a submit in flight.
	Started chan struct{}
	Release chan struct{}
}

func (m *MockOrderClient) CreateOrder(_ context.Context, req domain.OrderRequest) (domain.Order, error) {
	if m.Started != nil {
		close(m.Started)
		<-m.Release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	return m.Order, m.Err
}

type MockReceipts struct {
	Saved []domain.OrderConfirmation
	Err   error
}

func (m *MockReceipts) SaveReceipt(_ context.Context, _ string, c domain.OrderConfirmation) error {
	if m.Err != nil {
		return m.Err
	}
	m.Saved = append(m.Saved, c)
	return nil
}

func (m *MockReceipts) Receipt(_ context.Context, id string) (domain.OrderConfirmation, error) {
	for _, c := range m.Saved {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.OrderConfirmation{}, ErrDraftNotFound
}

type MockBadge struct {
	Calls int
	Err   error
}

func (m *MockBadge) Refresh(_ context.Context, _ string) (int, error) {
	m.Calls++
	return 0, m.Err
}

// FlakyDrafts fails Set while FailSet is on and otherwise delegates.
type FlakyDrafts struct {
	*cache.MemoryCache[Draft]
	mu      sync.Mutex
	FailSet bool
}

func (f *FlakyDrafts) Set(ctx context.Context, key string, value Draft) error {
	f.mu.Lock()
	fail := f.FailSet
	f.mu.Unlock()
	if fail {
		return errors.New("redis down")
	}
	return f.MemoryCache.Set(ctx, key, value)
}

func (f *FlakyDrafts) SetFailing(fail bool) {
	f.mu.Lock()
	f.FailSet = fail
	f.mu.Unlock()
}
