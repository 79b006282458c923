package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/quitanda/ecommerce/pkg/kafka"
	"github.com/quitanda/ecommerce/services/review/internal/domain"
)

// Kafka topic constants for review domain events.
const (
	TopicReviewCreated  = "ecommerce.review.created"
	TopicReviewApproved = "ecommerce.review.approved"
	TopicReviewRejected = "ecommerce.review.rejected"
	TopicReviewDeleted  = "ecommerce.review.deleted"
	TopicSummaryUpdated = "ecommerce.review.summary_updated"
)

const (
	EntityTypeReview  = "review"
	EntityTypeProduct = "product"
)

// Source identifier for events originating from the review service.
const SourceReviewService = "review-service"

// ReviewEventData is the payload shared by review lifecycle events.
type ReviewEventData struct {
	ReviewID  string `json:"review_id"`
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"`
	Status    string `json:"status"`
}

// SummaryUpdatedData is the payload for a summary_updated event.
type SummaryUpdatedData struct {
	ProductID     string  `json:"product_id"`
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

// Producer publishes review domain events to Kafka.
type Producer struct {
	kafka  pkgkafka.Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the review service.
func NewProducer(kafka pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func reviewData(review *domain.Review) ReviewEventData {
	return ReviewEventData{
		ReviewID:  review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Status:    string(review.Status),
	}
}

func (p *Producer) publishReviewEvent(ctx context.Context, topic string, review *domain.Review) error {
	event, err := pkgkafka.NewEvent(topic, EntityTypeReview, review.ID, SourceReviewService, reviewData(review))
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	return nil
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	return p.publishReviewEvent(ctx, TopicReviewCreated, review)
}

// PublishReviewApproved publishes a review.approved event.
func (p *Producer) PublishReviewApproved(ctx context.Context, review *domain.Review) error {
	return p.publishReviewEvent(ctx, TopicReviewApproved, review)
}

// PublishReviewRejected publishes a review.rejected event.
func (p *Producer) PublishReviewRejected(ctx context.Context, review *domain.Review) error {
	return p.publishReviewEvent(ctx, TopicReviewRejected, review)
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, review *domain.Review) error {
	return p.publishReviewEvent(ctx, TopicReviewDeleted, review)
}

// PublishSummaryUpdated publishes a summary_updated event keyed by product.
func (p *Producer) PublishSummaryUpdated(ctx context.Context, summary *domain.ReviewSummary) error {
	data := SummaryUpdatedData{
		ProductID:     summary.ProductID,
		AverageRating: summary.AverageRating,
		TotalReviews:  summary.TotalReviews,
	}

	event, err := pkgkafka.NewEvent(TopicSummaryUpdated, EntityTypeProduct, summary.ProductID, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("create summary_updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicSummaryUpdated, event); err != nil {
		return fmt.Errorf("publish summary_updated event: %w", err)
	}

	return nil
}
