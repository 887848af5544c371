package api

import (
	"context"

	"github.com/fjod/go_cart/storefront/domain"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /api/auth/login.
type LoginResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	UserEmail string `json:"userEmail"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	var out LoginResponse
	err := c.post(ctx, "/api/auth/login", nil, creds, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, signUp domain.SignUp) error {
	return c.post(ctx, "/api/auth/register", nil, signUp, nil)
}
