package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quitanda/ecommerce/pkg/health"
	"github.com/quitanda/ecommerce/pkg/middleware"
	"github.com/quitanda/ecommerce/services/category/internal/service"
)

// NewRouter creates a chi router with all category service routes registered.
func NewRouter(
	categoryService *service.CategoryService,
	healthHandler *health.Handler,
	corsCfg middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("category"))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h := NewCategoryHandler(categoryService, logger)

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Post("/", h.CreateCategory)
		r.Get("/", h.ListCategories)
		r.Get("/hierarchy", h.GetHierarchy)
		r.Get("/slug/{slug}", h.GetCategoryBySlug)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetCategory)
			r.Put("/", h.UpdateCategory)
			r.Delete("/", h.DeleteCategory)
			r.Get("/subcategories", h.ListSubcategories)
			r.Get("/attributes", h.GetCategoryAttributes)
		})
	})

	return r
}
