package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/storefront/domain"
)

type PayPayRegistration struct {
	UserID   int64  `json:"userId"`
	PayPayID string `json:"paypayId"`
}

// CardRegistration registers a virtual card. ExpiryDate is MMYY.
type CardRegistration struct {
	UserID          int64  `json:"userId"`
	CardCompanyName string `json:"cardCompanyName"`
	CardNumber      string `json:"cardNumber"`
	CardHolderName  string `json:"cardHolderName"`
	ExpiryDate      string `json:"expiryDate"`
	CVV             string `json:"cvv"`
}

func (c *Client) RegisterPayPay(ctx context.Context, reg PayPayRegistration) error {
	return c.post(ctx, "/api/register/paypay", nil, reg, nil)
}

// RegisteredPayPay returns nil when the user has no PayPay account.
func (c *Client) RegisteredPayPay(ctx context.Context, userID int64) (*domain.PayPayAccount, error) {
	var out domain.PayPayAccount
	err := c.get(ctx, fmt.Sprintf("/api/register/paypay/%d", userID), nil, &out)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegisterCard(ctx context.Context, reg CardRegistration) error {
	return c.post(ctx, "/api/register/card", nil, reg, nil)
}

// RegisteredCard returns nil when the user has no card on file.
func (c *Client) RegisteredCard(ctx context.Context, userID int64) (*domain.RegisteredCard, error) {
	var out domain.RegisteredCard
	err := c.get(ctx, fmt.Sprintf("/api/register/card/%d", userID), nil, &out)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TopUpPayPay(ctx context.Context, userID int64, amount domain.Yen) error {
	return c.post(ctx, "/api/register/paypay/topup", nil, amountRequest{UserID: userID, Amount: amount}, nil)
}

func (c *Client) TopUpCard(ctx context.Context, userID int64, amount domain.Yen) error {
	return c.post(ctx, "/api/register/card/topup", nil, amountRequest{UserID: userID, Amount: amount}, nil)
}
