package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/oakline/catalog-api/internal/auth"
	"github.com/oakline/catalog-api/internal/catalog/product"
	"github.com/oakline/catalog-api/internal/catalog/review"
	"github.com/oakline/catalog-api/internal/media"
	"github.com/oakline/catalog-api/internal/observability"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthHandler    *auth.Handler
	ProductHandler *product.Handler
	ReviewHandler  *review.Handler
	MediaHandler   *media.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with catalog defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/products", func(r chi.Router) {
		// Static routes must be registered alongside /{id}; chi prefers the
		// static match, so /products/category and /products/upload-picture
		// never collide with the id parameter.
		params.ProductHandler.MountRoutes(r)
		params.ReviewHandler.MountRoutes(r)
		params.MediaHandler.MountRoutes(r)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
