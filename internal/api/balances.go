package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fjod/go_cart/storefront/domain"
)

type amountRequest struct {
	UserID int64      `json:"userId"`
	Amount domain.Yen `json:"amount"`
}

type debitRequest struct {
	UserID        int64      `json:"userId"`
	PaymentMethod string     `json:"paymentMethod"`
	Amount        domain.Yen `json:"amount"`
}

// ChargeResult is returned by the PayPay to point charge endpoint.
type ChargeResult struct {
	Message  string              `json:"message"`
	Balances domain.UserBalances `json:"balances"`
}

type CardChargeResult struct {
	Message         string     `json:"message"`
	NewPointBalance domain.Yen `json:"newPointBalance"`
}

// GetBalances returns all three balances. A user without balance rows gets zeros.
func (c *Client) GetBalances(ctx context.Context, userID int64) (domain.UserBalances, error) {
	var out domain.UserBalances
	err := c.get(ctx, fmt.Sprintf("/api/balances/%d", userID), nil, &out)
	if errors.Is(err, ErrNotFound) {
		return domain.UserBalances{}, nil
	}
	return out, err
}

func (c *Client) FindBalance(ctx context.Context, userID int64, method domain.PaymentMethod) (domain.UserBalance, error) {
	q := url.Values{}
	q.Set("userId", strconv.FormatInt(userID, 10))
	q.Set("paymentMethod", method.BalanceCode())
	var out domain.UserBalance
	err := c.get(ctx, "/api/balances/find", q, &out)
	return out, err
}

func (c *Client) ChargeBalance(ctx context.Context, userID int64, method domain.PaymentMethod, amount domain.Yen) (domain.UserBalance, error) {
	q := url.Values{}
	q.Set("userId", strconv.FormatInt(userID, 10))
	q.Set("paymentMethod", method.BalanceCode())
	q.Set("amount", strconv.FormatInt(int64(amount), 10))
	var out domain.UserBalance
	err := c.post(ctx, "/api/balances/Charge", q, nil, &out)
	return out, err
}

func (c *Client) DebitBalance(ctx context.Context, userID int64, method domain.PaymentMethod, amount domain.Yen) error {
	body := debitRequest{UserID: userID, PaymentMethod: method.BalanceCode(), Amount: amount}
	return c.post(ctx, "/api/balances/debit", nil, body, nil)
}

// ChargePointsFromPayPay moves amount from the PayPay balance into points.
func (c *Client) ChargePointsFromPayPay(ctx context.Context, userID int64, amount domain.Yen) (ChargeResult, error) {
	var out ChargeResult
	err := c.post(ctx, "/api/balances/charge/paypay", nil, amountRequest{UserID: userID, Amount: amount}, &out)
	return out, err
}

func (c *Client) ChargePointsFromCard(ctx context.Context, userID int64, amount domain.Yen) (CardChargeResult, error) {
	var out CardChargeResult
	err := c.post(ctx, "/api/balances/charge/card", nil, amountRequest{UserID: userID, Amount: amount}, &out)
	return out, err
}

func (c *Client) RefundPayPay(ctx context.Context, userID int64, amount domain.Yen) error {
	return c.post(ctx, "/api/balances/refund/paypay", nil, amountRequest{UserID: userID, Amount: amount}, nil)
}

// Deduct debits amount from the balance backing method.
func (c *Client) Deduct(ctx context.Context, userID int64, method domain.PaymentMethod, amount domain.Yen) error {
	var path string
	switch method {
	case domain.PaymentMethodPoint:
		path = "/api/balances/deduct/point"
	case domain.PaymentMethodPayPay:
		path = "/api/balances/deduct/paypay"
	case domain.PaymentMethodVirtualCreditCard:
		path = "/api/balances/deduct/card"
	default:
		return fmt.Errorf("deduct: unsupported payment method %q", method)
	}
	return c.post(ctx, path, nil, amountRequest{UserID: userID, Amount: amount}, nil)
}
