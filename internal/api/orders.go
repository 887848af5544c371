package api

import (
	"context"
	"fmt"

	"github.com/fjod/go_cart/storefront/domain"
)

func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	var out domain.Order
	err := c.post(ctx, "/api/orders", nil, req, &out)
	return out, err
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := c.get(ctx, "/api/orders", nil, &out)
	return out, err
}

func (c *Client) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	var out domain.Order
	err := c.get(ctx, fmt.Sprintf("/api/orders/%d", id), nil, &out)
	return out, err
}

func (c *Client) CancelOrder(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/orders/%d/cancel", id), nil)
}
