package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quitanda/ecommerce/pkg/database"
	apperrors "github.com/quitanda/ecommerce/pkg/errors"
	"github.com/quitanda/ecommerce/services/review/internal/domain"
	"github.com/quitanda/ecommerce/services/review/internal/event"
	"github.com/quitanda/ecommerce/services/review/internal/repository"
)

// CreateReviewInput carries the validated fields for a new review.
type CreateReviewInput struct {
	ProductID        string
	UserID           string
	Title            string
	Comment          string
	Rating           int
	Photos           []string
	VerifiedPurchase bool
	Attributes       map[string]float64
}

// AddResponseInput carries the fields for a new review response.
type AddResponseInput struct {
	UserID   string
	Comment  string
	IsSeller bool
}

// ProductChecker verifies that a product exists before a review is accepted
// for it. Implementations may call the product service over HTTP.
type ProductChecker interface {
	Exists(ctx context.Context, productID string) (bool, error)
}

// ReviewService handles review creation, listing, helpfulness, responses,
// summary reads and review deletion. Moderation transitions live in
// ModerationService.
type ReviewService struct {
	reviews   repository.ReviewRepository
	responses repository.ResponseRepository
	summaries repository.SummaryRepository
	cache     repository.SummaryCache
	pool      database.Pool
	products  ProductChecker
	producer  *event.Producer
	logger    *slog.Logger
}

// NewReviewService creates a new review service. cache, products and producer
// may be nil, disabling the summary cache, the product-existence check and
// event publication respectively.
func NewReviewService(
	reviews repository.ReviewRepository,
	responses repository.ResponseRepository,
	summaries repository.SummaryRepository,
	cache repository.SummaryCache,
	pool database.Pool,
	products ProductChecker,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		responses: responses,
		summaries: summaries,
		cache:     cache,
		pool:      pool,
		products:  products,
		producer:  producer,
		logger:    logger,
	}
}

// Create validates and stores a new review in pending status.
func (s *ReviewService) Create(ctx context.Context, input CreateReviewInput) (*domain.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between 1 and 5, got %d", input.Rating))
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	for name, score := range input.Attributes {
		if score < 0 {
			return nil, apperrors.InvalidInput(fmt.Sprintf("attribute %q must not be negative", name))
		}
	}

	if s.products != nil {
		exists, err := s.products.Exists(ctx, input.ProductID)
		if err != nil {
			// The product service being down must not block review intake.
			s.logger.WarnContext(ctx, "product existence check failed, accepting review",
				slog.String("product_id", input.ProductID),
				slog.String("error", err.Error()),
			)
		} else if !exists {
			return nil, apperrors.NotFound("product", input.ProductID)
		}
	}

	review := &domain.Review{
		ID:               uuid.New().String(),
		ProductID:        input.ProductID,
		UserID:           input.UserID,
		Title:            strings.TrimSpace(input.Title),
		Comment:          input.Comment,
		Rating:           input.Rating,
		ReviewDate:       time.Now().UTC(),
		Photos:           input.Photos,
		Status:           domain.ReviewStatusPending,
		VerifiedPurchase: input.VerifiedPurchase,
		Attributes:       input.Attributes,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	if s.producer != nil {
		if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish review.created event",
				slog.String("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return review, nil
}

// GetByID returns a single review.
func (s *ReviewService) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// ListByProduct returns reviews for a product with optional status filter.
func (s *ReviewService) ListByProduct(ctx context.Context, productID, status string, page, perPage int) ([]domain.Review, int, error) {
	if status != "" && !domain.IsValidReviewStatus(status) {
		return nil, 0, apperrors.InvalidInput("invalid review status: " + status)
	}
	return s.reviews.ListByProduct(ctx, productID, domain.ReviewStatus(status), page, perPage)
}

// ListByUser returns all reviews submitted by a user.
func (s *ReviewService) ListByUser(ctx context.Context, userID string, page, perPage int) ([]domain.Review, int, error) {
	return s.reviews.ListByUser(ctx, userID, page, perPage)
}

// ListPending returns the moderation queue.
func (s *ReviewService) ListPending(ctx context.Context, page, perPage int) ([]domain.Review, int, error) {
	return s.reviews.ListPending(ctx, page, perPage)
}

// SetHelpfulness overwrites the like/dislike counters of a review. A nil
// pointer leaves the current value in place. Assignment is absolute, not
// incremental; concurrent callers race with last-write-wins.
func (s *ReviewService) SetHelpfulness(ctx context.Context, reviewID string, likes, dislikes *int) (*domain.Review, error) {
	if likes == nil && dislikes == nil {
		return nil, apperrors.InvalidInput("at least one of likes or dislikes is required")
	}
	if likes != nil && *likes < 0 {
		return nil, apperrors.InvalidInput("likes must not be negative")
	}
	if dislikes != nil && *dislikes < 0 {
		return nil, apperrors.InvalidInput("dislikes must not be negative")
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if likes != nil {
		review.Helpfulness.Likes = *likes
	}
	if dislikes != nil {
		review.Helpfulness.Dislikes = *dislikes
	}

	if err := s.reviews.SetHelpfulness(ctx, reviewID, review.Helpfulness.Likes, review.Helpfulness.Dislikes); err != nil {
		return nil, err
	}

	return review, nil
}

// AddResponse attaches a response to an existing review. Responses never
// affect the rating summary.
func (s *ReviewService) AddResponse(ctx context.Context, reviewID string, input AddResponseInput) (*domain.ReviewResponse, error) {
	if strings.TrimSpace(input.Comment) == "" {
		return nil, apperrors.InvalidInput("comment is required")
	}

	if _, err := s.reviews.GetByID(ctx, reviewID); err != nil {
		return nil, err
	}

	response := &domain.ReviewResponse{
		ID:           uuid.New().String(),
		ReviewID:     reviewID,
		UserID:       input.UserID,
		Comment:      strings.TrimSpace(input.Comment),
		ResponseDate: time.Now().UTC(),
		IsSeller:     input.IsSeller,
		Status:       domain.ResponseStatusActive,
	}

	if err := s.responses.Create(ctx, response); err != nil {
		return nil, err
	}

	return response, nil
}

// ListResponses returns a review's active responses, oldest first.
func (s *ReviewService) ListResponses(ctx context.Context, reviewID string) ([]domain.ReviewResponse, error) {
	if _, err := s.reviews.GetByID(ctx, reviewID); err != nil {
		return nil, err
	}
	return s.responses.ListByReview(ctx, reviewID, domain.ResponseStatusActive)
}

// GetSummary returns the product's rating summary, cache-aside: Redis first,
// then Postgres. A product with no summary row yet gets the empty summary.
func (s *ReviewService) GetSummary(ctx context.Context, productID string) (*domain.ReviewSummary, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, productID); err == nil {
			return cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "summary cache read failed",
				slog.String("product_id", productID),
				slog.String("error", err.Error()),
			)
		}
	}

	summary, err := s.summaries.GetByProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			empty := domain.NewEmptySummary(productID, time.Now().UTC())
			return &empty, nil
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, summary); err != nil {
			s.logger.WarnContext(ctx, "summary cache write failed",
				slog.String("product_id", productID),
				slog.String("error", err.Error()),
			)
		}
	}

	return summary, nil
}

// Delete removes a review, its responses (cascade) and, if the review was
// approved, recomputes the product summary in the same transaction so the
// deleted review's contribution disappears atomically.
func (s *ReviewService) Delete(ctx context.Context, reviewID string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	review, err := lockReview(ctx, tx, reviewID)
	if err != nil {
		return err
	}

	// review_responses rows go with the review via ON DELETE CASCADE.
	if _, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, reviewID); err != nil {
		return wrapTxError("delete review", err)
	}

	var summary domain.ReviewSummary
	wasApproved := review.Status == domain.ReviewStatusApproved
	if wasApproved {
		summary, err = recomputeSummaryTx(ctx, tx, review.ProductID, time.Now().UTC())
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapTxError("commit delete transaction", err)
	}

	if wasApproved {
		if s.cache != nil {
			if err := s.cache.Invalidate(ctx, review.ProductID); err != nil {
				s.logger.WarnContext(ctx, "failed to invalidate summary cache",
					slog.String("product_id", review.ProductID),
					slog.String("error", err.Error()),
				)
			}
		}
		if s.producer != nil {
			if err := s.producer.PublishSummaryUpdated(ctx, &summary); err != nil {
				s.logger.ErrorContext(ctx, "failed to publish summary_updated event",
					slog.String("product_id", review.ProductID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	if s.producer != nil {
		if err := s.producer.PublishReviewDeleted(ctx, review); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
				slog.String("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}
