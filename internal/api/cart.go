package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fjod/go_cart/storefront/domain"
)

func (c *Client) GetCart(ctx context.Context) (domain.Cart, error) {
	var out domain.Cart
	err := c.get(ctx, "/api/cart", nil, &out)
	return out, err
}

func (c *Client) AddCartItem(ctx context.Context, productID int64, quantity int) (domain.Cart, error) {
	q := url.Values{}
	q.Set("productId", strconv.FormatInt(productID, 10))
	q.Set("quantity", strconv.Itoa(quantity))
	var out domain.Cart
	err := c.post(ctx, "/api/cart/items", q, nil, &out)
	return out, err
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (domain.Cart, error) {
	q := url.Values{}
	q.Set("quantity", strconv.Itoa(quantity))
	var out domain.Cart
	err := c.put(ctx, fmt.Sprintf("/api/cart/items/%d", itemID), q, nil, &out)
	return out, err
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/cart/items/%d", itemID), nil)
}

// RemoveCartItems deletes several line items in one call.
func (c *Client) RemoveCartItems(ctx context.Context, itemIDs []int64) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return c.post(ctx, "/api/cart/items/batch-delete", nil, itemIDs, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.delete(ctx, "/api/cart", nil)
}

func (c *Client) CartCount(ctx context.Context) (int, error) {
	var out int
	err := c.get(ctx, "/api/cart/count", nil, &out)
	return out, err
}
