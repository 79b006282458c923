package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quitanda/ecommerce/pkg/health"
	"github.com/quitanda/ecommerce/pkg/middleware"
	"github.com/quitanda/ecommerce/services/supplier/internal/service"
)

// NewRouter creates a chi router with all supplier service routes registered.
func NewRouter(
	supplierService *service.SupplierService,
	healthHandler *health.Handler,
	corsCfg middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("supplier"))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h := NewSupplierHandler(supplierService, logger)

	r.Route("/api/v1/suppliers", func(r chi.Router) {
		r.Post("/", h.CreateSupplier)
		r.Get("/", h.ListSuppliers)
		r.Get("/active", h.ListActiveSuppliers)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetSupplier)
			r.Put("/", h.UpdateSupplier)
			r.Delete("/", h.DeleteSupplier)

			r.Route("/contacts", func(r chi.Router) {
				r.Post("/", h.CreateContact)
				r.Get("/", h.ListContacts)
				r.Put("/{contactId}", h.UpdateContact)
				r.Delete("/{contactId}", h.DeleteContact)
			})

			r.Route("/deliveries", func(r chi.Router) {
				r.Post("/", h.CreateDelivery)
				r.Get("/", h.ListDeliveries)
				r.Put("/{deliveryId}", h.UpdateDelivery)
			})
		})
	})

	return r
}
