package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/api"
)

type ProductAPI interface {
	ListProducts(ctx context.Context, q api.ProductQuery) (api.ProductPage, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
}

type CategoryStore interface {
	Categories(ctx context.Context) ([]domain.Category, error)
}

type CatalogHandler struct {
	base
	products   ProductAPI
	categories CategoryStore
}

func NewCatalogHandler(products ProductAPI, categories CategoryStore, timeout time.Duration, log *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		base:       base{timeout: timeout, log: log},
		products:   products,
		categories: categories,
	}
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	tree, err := h.categories.Categories(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tree)
}

func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	q, ok := productQuery(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_query", "categoryId, page and size must be non-negative integers")
		return
	}

	page, err := h.products.ListProducts(ctx, q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func productQuery(r *http.Request) (api.ProductQuery, bool) {
	values := r.URL.Query()
	q := api.ProductQuery{Keyword: strings.TrimSpace(values.Get("keyword")), Size: 20}

	parse := func(key string, dst *int64) bool {
		raw := values.Get(key)
		if raw == "" {
			return true
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return false
		}
		*dst = n
		return true
	}
	var page, size int64 = 0, int64(q.Size)
	if !parse("categoryId", &q.CategoryID) || !parse("page", &page) || !parse("size", &size) {
		return api.ProductQuery{}, false
	}
	q.Page, q.Size = int(page), int(size)
	return q, true
}

func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	p, err := h.products.GetProduct(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}
