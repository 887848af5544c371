package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidCartItem = errors.New("invalid cart item")

type CartItem struct {
	ID              int64  `json:"id" msgpack:"id"`
	ProductID       int64  `json:"productId" msgpack:"product_id"`
	ProductName     string `json:"productName" msgpack:"product_name"`
	ProductImageURL string `json:"productImageUrl" msgpack:"product_image_url"`
	PriceAtAddition Yen    `json:"priceAtAddition" msgpack:"price_at_addition"`
	Quantity        int    `json:"quantity" msgpack:"quantity"`
}

func (i CartItem) LineTotal() Yen {
	return i.PriceAtAddition * Yen(i.Quantity)
}

// CartSnapshot is the cart as loaded at checkout entry. It is not synced with
// the server afterwards except for explicit removals.
type CartSnapshot struct {
	Items []CartItem `json:"items" msgpack:"items"`
}

func (c CartSnapshot) Subtotal() Yen {
	var subtotal Yen
	for _, item := range c.Items {
		subtotal += item.LineTotal()
	}
	return subtotal
}

// Validate rejects lines that would make totals negative or meaningless.
func (c CartSnapshot) Validate() error {
	for _, item := range c.Items {
		switch {
		case item.Quantity <= 0:
			return fmt.Errorf("%w: item %d has quantity %d", ErrInvalidCartItem, item.ID, item.Quantity)
		case item.PriceAtAddition < 0:
			return fmt.Errorf("%w: item %d has price %d", ErrInvalidCartItem, item.ID, item.PriceAtAddition)
		}
	}
	return nil
}

func (c CartSnapshot) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c CartSnapshot) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Without returns a copy of the snapshot minus the items with the given ids.
func (c CartSnapshot) Without(ids ...int64) CartSnapshot {
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	out := CartSnapshot{Items: make([]CartItem, 0, len(c.Items))}
	for _, item := range c.Items {
		if _, ok := drop[item.ID]; !ok {
			out.Items = append(out.Items, item)
		}
	}
	return out
}

// Cart is the backend representation returned by GET /api/cart.
type Cart struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"userId"`
	Items          []CartItem `json:"items"`
	TotalItemCount int        `json:"totalItemCount"`
}

func (c Cart) Snapshot() CartSnapshot {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	return CartSnapshot{Items: items}
}
