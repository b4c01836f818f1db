package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/svetlov/catalog/pkg/health"
	"github.com/svetlov/catalog/pkg/middleware"
)

// RouterConfig carries the dependencies needed to assemble the HTTP router.
type RouterConfig struct {
	Categories *CategoryHandler
	Products   *ProductHandler
	Search     *SearchHandler
	Health     *health.Handler
	Logger     *slog.Logger
}

// NewRouter builds the chi router with the full middleware stack and all
// API routes mounted under /api/v1.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("catalog"))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", cfg.Search.Search)
		r.Get("/search/suggest", cfg.Search.Suggest)

		r.Route("/categories", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Get("/", cfg.Categories.List)
			r.Post("/", cfg.Categories.Create)
			r.Get("/{id}", cfg.Categories.Get)
			r.Put("/{id}", cfg.Categories.Update)
			r.Delete("/{id}", cfg.Categories.Delete)
		})

		r.Route("/products", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Get("/", cfg.Products.List)
			r.Post("/", cfg.Products.Create)
			r.Get("/{id}", cfg.Products.Get)
			r.Put("/{id}", cfg.Products.Update)
			r.Delete("/{id}", cfg.Products.Delete)
		})
	})

	return r
}
