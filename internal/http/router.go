package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Handlers struct {
	Sessions *SessionHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Wishlist *WishlistHandler
	Postcode *PostcodeHandler
	Checkout *CheckoutHandler
}

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	Resolver           SessionResolver
	Log                *slog.Logger
}

func NewRouter(cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.RequestSize(cfg.MaxRequestBodySize))
	}
	r.Use(SessionMiddleware(cfg.Resolver, cfg.Log))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Post("/", h.Sessions.Login)
			r.Get("/", h.Sessions.Current)
			r.Delete("/", h.Sessions.Logout)
		})

		r.Get("/categories", h.Catalog.Categories)
		r.Get("/products", h.Catalog.Products)
		r.Get("/products/{id}", h.Catalog.Product)
		r.Get("/postcodes/{code}", h.Postcode.Lookup)

		r.Group(func(r chi.Router) {
			r.Use(RequireSession)
			r.Get("/cart/count", h.Cart.Count)
			r.Post("/cart/items", h.Cart.AddItem)
			r.Post("/wishlist/{productId}/toggle", h.Wishlist.Toggle)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", h.Checkout.Start)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Checkout.Get)
				r.Patch("/", h.Checkout.Update)
				r.Delete("/", h.Checkout.Abandon)
				r.Put("/address", h.Checkout.SelectAddress)
				r.Post("/advance", h.Checkout.Advance)
				r.Post("/retreat", h.Checkout.Retreat)
				r.Post("/submit", h.Checkout.Submit)
				r.Post("/topup", h.Checkout.TopUp)
			})
		})
		r.Get("/confirmations/{id}", h.Checkout.Confirmation)
	})

	return otelhttp.NewHandler(r, "storefront")
}
