package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Catalog     ProductCatalog
	Purchaser   Purchaser
	Sessions    SessionStore
	Log         *zap.Logger
	Options     Options
	MaxBodySize int64
}

// NewRouter wires every storefront route behind the shared middleware stack.
func NewRouter(deps RouterDeps) http.Handler {
	productHandler := NewProductHandler(deps.Catalog, deps.Purchaser, deps.Options)
	cartHandler := NewCartHandler(deps.Catalog, deps.Options)
	checkoutHandler := NewCheckoutHandler(deps.Purchaser, deps.Options)
	eventHandler := NewEventHandler()

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(deps.Log))
	r.Use(middleware.Recoverer)
	if deps.Options.Timeout > 0 {
		r.Use(middleware.Timeout(deps.Options.Timeout))
	}
	if deps.MaxBodySize > 0 {
		r.Use(MaxBodySize(deps.MaxBodySize))
	}
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/events", eventHandler.List)
		r.Get("/events/{slug}", eventHandler.Get)
		r.Get("/checkout/methods", checkoutHandler.Methods)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(deps.Sessions))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", productHandler.List)
				r.Get("/{product_id}", productHandler.Get)
				r.Post("/{product_id}/buy", productHandler.BuyNow)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Post("/items/{product_id}/increment", cartHandler.Increment)
				r.Post("/items/{product_id}/decrement", cartHandler.Decrement)
				r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			})

			r.Post("/checkout", checkoutHandler.Checkout)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
