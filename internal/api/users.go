package api

import (
	"context"
	"fmt"

	"github.com/fjod/go_cart/storefront/domain"
)

func (c *Client) GetProfile(ctx context.Context) (domain.Profile, error) {
	var out domain.Profile
	err := c.get(ctx, "/api/users/me", nil, &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (domain.Profile, error) {
	var out domain.Profile
	err := c.put(ctx, "/api/users/me", nil, update, &out)
	return out, err
}

func (c *Client) ConfirmPassword(ctx context.Context, password string) error {
	return c.post(ctx, "/api/users/me/confirm-password", nil, map[string]string{"password": password}, nil)
}

func (c *Client) ListAddresses(ctx context.Context) ([]domain.Address, error) {
	var out []domain.Address
	err := c.get(ctx, "/api/addresses", nil, &out)
	if out == nil {
		out = []domain.Address{}
	}
	return out, err
}

func (c *Client) GetAddress(ctx context.Context, id int64) (domain.Address, error) {
	var out domain.Address
	err := c.get(ctx, fmt.Sprintf("/api/addresses/%d", id), nil, &out)
	return out, err
}

func (c *Client) CreateAddress(ctx context.Context, addr domain.Address) (domain.Address, error) {
	var out domain.Address
	err := c.post(ctx, "/api/addresses", nil, addr, &out)
	return out, err
}

func (c *Client) UpdateAddress(ctx context.Context, addr domain.Address) (domain.Address, error) {
	var out domain.Address
	err := c.put(ctx, fmt.Sprintf("/api/addresses/%d", addr.ID), nil, addr, &out)
	return out, err
}

func (c *Client) DeleteAddress(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/addresses/%d", id), nil)
}

func (c *Client) SetDefaultAddress(ctx context.Context, id int64) (domain.Address, error) {
	var out domain.Address
	err := c.put(ctx, fmt.Sprintf("/api/addresses/%d/default", id), nil, nil, &out)
	return out, err
}
