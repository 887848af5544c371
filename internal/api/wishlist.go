package api

import (
	"context"
	"fmt"

	"github.com/fjod/go_cart/storefront/domain"
)

func (c *Client) ListWishlist(ctx context.Context) ([]domain.WishlistItem, error) {
	var out []domain.WishlistItem
	err := c.get(ctx, "/api/users/me/wishlists", nil, &out)
	return out, err
}

func (c *Client) AddToWishlist(ctx context.Context, productID int64) error {
	return c.post(ctx, fmt.Sprintf("/api/users/me/wishlists/%d", productID), nil, nil, nil)
}

func (c *Client) RemoveFromWishlist(ctx context.Context, productID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/users/me/wishlists/products/%d", productID), nil)
}
