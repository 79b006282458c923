package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quitanda/ecommerce/pkg/httputil"
	"github.com/quitanda/ecommerce/pkg/pagination"
	"github.com/quitanda/ecommerce/pkg/validator"
	"github.com/quitanda/ecommerce/services/review/internal/service"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	reviews    *service.ReviewService
	moderation *service.ModerationService
	logger     *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(reviews *service.ReviewService, moderation *service.ModerationService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews:    reviews,
		moderation: moderation,
		logger:     logger,
	}
}

// --- Request DTOs ---

// CreateReviewRequest is the JSON request body for submitting a review.
type CreateReviewRequest struct {
	ProductID        string             `json:"product_id" validate:"required"`
	UserID           string             `json:"user_id" validate:"required"`
	Title            string             `json:"title" validate:"required,max=200"`
	Comment          string             `json:"comment" validate:"omitempty,max=5000"`
	Rating           int                `json:"rating" validate:"required,gte=1,lte=5"`
	Photos           []string           `json:"photos" validate:"omitempty,dive,url"`
	VerifiedPurchase bool               `json:"verified_purchase"`
	Attributes       map[string]float64 `json:"attributes" validate:"omitempty"`
}

// SetHelpfulnessRequest is the JSON request body for setting like/dislike
// counters. Omitted fields keep their current value.
type SetHelpfulnessRequest struct {
	Likes    *int `json:"likes" validate:"omitempty,gte=0"`
	Dislikes *int `json:"dislikes" validate:"omitempty,gte=0"`
}

// AddResponseRequest is the JSON request body for responding to a review.
type AddResponseRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Comment  string `json:"comment" validate:"required,max=5000"`
	IsSeller bool   `json:"is_seller"`
}

// --- Handlers ---

// CreateReview handles POST /api/v1/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.reviews.Create(r.Context(), service.CreateReviewInput{
		ProductID:        req.ProductID,
		UserID:           req.UserID,
		Title:            req.Title,
		Comment:          req.Comment,
		Rating:           req.Rating,
		Photos:           req.Photos,
		VerifiedPurchase: req.VerifiedPurchase,
		Attributes:       req.Attributes,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// GetReview handles GET /api/v1/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviews.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// ListProductReviews handles GET /api/v1/products/{productId}/reviews
func (h *ReviewHandler) ListProductReviews(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	status := r.URL.Query().Get("status")

	reviews, total, err := h.reviews.ListByProduct(r.Context(), chi.URLParam(r, "productId"), status, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(reviews, total, params.Page, params.PerPage))
}

// GetProductSummary handles GET /api/v1/products/{productId}/reviews/summary
func (h *ReviewHandler) GetProductSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reviews.GetSummary(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

// ListUserReviews handles GET /api/v1/users/{userId}/reviews
func (h *ReviewHandler) ListUserReviews(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	reviews, total, err := h.reviews.ListByUser(r.Context(), chi.URLParam(r, "userId"), params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(reviews, total, params.Page, params.PerPage))
}

// ListPendingReviews handles GET /api/v1/reviews/pending
func (h *ReviewHandler) ListPendingReviews(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	reviews, total, err := h.reviews.ListPending(r.Context(), params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(reviews, total, params.Page, params.PerPage))
}

// ApproveReview handles PUT /api/v1/reviews/{id}/approve
func (h *ReviewHandler) ApproveReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.moderation.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// RejectReview handles PUT /api/v1/reviews/{id}/reject
func (h *ReviewHandler) RejectReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.moderation.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// SetHelpfulness handles PATCH /api/v1/reviews/{id}/helpfulness
func (h *ReviewHandler) SetHelpfulness(w http.ResponseWriter, r *http.Request) {
	var req SetHelpfulnessRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.reviews.SetHelpfulness(r.Context(), chi.URLParam(r, "id"), req.Likes, req.Dislikes)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// AddResponse handles POST /api/v1/reviews/{id}/responses
func (h *ReviewHandler) AddResponse(w http.ResponseWriter, r *http.Request) {
	var req AddResponseRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	response, err := h.reviews.AddResponse(r.Context(), chi.URLParam(r, "id"), service.AddResponseInput{
		UserID:   req.UserID,
		Comment:  req.Comment,
		IsSeller: req.IsSeller,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: response})
}

// ListResponses handles GET /api/v1/reviews/{id}/responses
func (h *ReviewHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	responses, err := h.reviews.ListResponses(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: responses})
}

// DeleteReview handles DELETE /api/v1/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.reviews.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
