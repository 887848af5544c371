package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fjod/go_cart/storefront/domain"
)

type ProductQuery struct {
	CategoryID int64
	Keyword    string
	Page       int
	Size       int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.CategoryID > 0 {
		v.Set("categoryId", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	return v
}

// ProductPage mirrors the backend's paged response.
type ProductPage struct {
	Content       []domain.Product `json:"content"`
	TotalElements int64            `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
	Number        int              `json:"number"`
	Size          int              `json:"size"`
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (ProductPage, error) {
	path := "/api/products"
	if q.Keyword != "" {
		path = "/api/products/search"
	}
	var out ProductPage
	err := c.get(ctx, path, q.values(), &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var out domain.Product
	err := c.get(ctx, fmt.Sprintf("/api/products/%d", id), nil, &out)
	return out, err
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := c.get(ctx, "/api/categories", nil, &out)
	return out, err
}
