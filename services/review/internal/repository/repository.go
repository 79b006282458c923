package repository

import (
	"context"

	"github.com/quitanda/ecommerce/services/review/internal/domain"
)

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Create inserts a new review in pending status.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// ListByProduct returns reviews for a product, optionally filtered by
	// status, newest first, with the total count for pagination.
	ListByProduct(ctx context.Context, productID string, status domain.ReviewStatus, page, perPage int) ([]domain.Review, int, error)

	// ListByUser returns all reviews submitted by a user, newest first.
	ListByUser(ctx context.Context, userID string, page, perPage int) ([]domain.Review, int, error)

	// ListPending returns the moderation queue, oldest first.
	ListPending(ctx context.Context, page, perPage int) ([]domain.Review, int, error)

	// SetHelpfulness overwrites the like/dislike counters of a review.
	SetHelpfulness(ctx context.Context, id string, likes, dislikes int) error
}

// ResponseRepository defines the interface for review response persistence.
type ResponseRepository interface {
	// Create attaches a new response to a review.
	Create(ctx context.Context, response *domain.ReviewResponse) error

	// ListByReview returns responses for a review filtered by status,
	// response_date ascending.
	ListByReview(ctx context.Context, reviewID string, status domain.ResponseStatus) ([]domain.ReviewResponse, error)
}

// SummaryRepository defines read access to persisted rating summaries.
// Summary writes happen inside the moderation transaction, not through this
// interface.
type SummaryRepository interface {
	// GetByProduct retrieves the rating summary for a product.
	GetByProduct(ctx context.Context, productID string) (*domain.ReviewSummary, error)
}

// SummaryCache is a read-through cache in front of SummaryRepository.
type SummaryCache interface {
	Get(ctx context.Context, productID string) (*domain.ReviewSummary, error)
	Set(ctx context.Context, summary *domain.ReviewSummary) error
	Invalidate(ctx context.Context, productID string) error
}
