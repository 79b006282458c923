package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quitanda/ecommerce/pkg/health"
	"github.com/quitanda/ecommerce/pkg/middleware"
	"github.com/quitanda/ecommerce/services/review/internal/service"
)

// NewRouter creates a chi router with all review service routes registered.
func NewRouter(
	reviewService *service.ReviewService,
	moderationService *service.ModerationService,
	healthHandler *health.Handler,
	corsCfg middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("review"))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h := NewReviewHandler(reviewService, moderationService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", h.CreateReview)
			r.Get("/pending", h.ListPendingReviews)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetReview)
				r.Delete("/", h.DeleteReview)
				r.Put("/approve", h.ApproveReview)
				r.Put("/reject", h.RejectReview)
				r.Patch("/helpfulness", h.SetHelpfulness)
				r.Post("/responses", h.AddResponse)
				r.Get("/responses", h.ListResponses)
			})
		})

		r.Route("/products/{productId}/reviews", func(r chi.Router) {
			r.Get("/", h.ListProductReviews)
			r.Get("/summary", h.GetProductSummary)
		})

		r.Get("/users/{userId}/reviews", h.ListUserReviews)
	})

	return r
}
