package checkout

import (
	"context"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/api"
)

type CartAPI interface {
	GetCart(ctx context.Context) (domain.Cart, error)
	RemoveCartItem(ctx context.Context, itemID int64) error
}

type ProfileAPI interface {
	GetProfile(ctx context.Context) (domain.Profile, error)
	ListAddresses(ctx context.Context) ([]domain.Address, error)
	CreateAddress(ctx context.Context, addr domain.Address) (domain.Address, error)
}

type WalletAPI interface {
	GetBalances(ctx context.Context, userID int64) (domain.UserBalances, error)
	RegisteredPayPay(ctx context.Context, userID int64) (*domain.PayPayAccount, error)
	RegisteredCard(ctx context.Context, userID int64) (*domain.RegisteredCard, error)
	ChargePointsFromPayPay(ctx context.Context, userID int64, amount domain.Yen) (api.ChargeResult, error)
}

type OrderAPI interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error)
}

type CartHandler struct {
	cartClient CartAPI
	timeout    time.Duration
}

func NewCartHandler(cartClient CartAPI, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cartClient: cartClient,
		timeout:    timeout,
	}
}

type ProfileHandler struct {
	profileClient ProfileAPI
	timeout       time.Duration
}

func NewProfileHandler(profileClient ProfileAPI, timeout time.Duration) *ProfileHandler {
	return &ProfileHandler{
		profileClient: profileClient,
		timeout:       timeout,
	}
}

type WalletHandler struct {
	walletClient WalletAPI
	timeout      time.Duration
}

func NewWalletHandler(walletClient WalletAPI, timeout time.Duration) *WalletHandler {
	return &WalletHandler{
		walletClient: walletClient,
		timeout:      timeout,
	}
}

type OrderHandler struct {
	orderClient OrderAPI
	timeout     time.Duration
}

func NewOrderHandler(orderClient OrderAPI, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		orderClient: orderClient,
		timeout:     timeout,
	}
}
