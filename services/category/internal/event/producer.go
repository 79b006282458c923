package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/quitanda/ecommerce/pkg/kafka"
	"github.com/quitanda/ecommerce/services/category/internal/domain"
)

// Kafka topic constants for category domain events.
const (
	TopicCategoryCreated = "ecommerce.category.created"
	TopicCategoryUpdated = "ecommerce.category.updated"
	TopicCategoryDeleted = "ecommerce.category.deleted"
)

const EntityTypeCategory = "category"

// Source identifier for events originating from the category service.
const SourceCategoryService = "category-service"

// CategoryEventData is the payload shared by category lifecycle events.
type CategoryEventData struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	ParentID   *string `json:"parent_id,omitempty"`
	Level      int     `json:"level"`
	Status     string  `json:"status"`
	URLSlug    string  `json:"url_slug"`
}

// Producer publishes category domain events to Kafka.
type Producer struct {
	kafka  pkgkafka.Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the category service.
func NewProducer(kafka pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func categoryData(category *domain.Category) CategoryEventData {
	return CategoryEventData{
		CategoryID: category.ID,
		Name:       category.Name,
		ParentID:   category.ParentID,
		Level:      category.Level,
		Status:     string(category.Status),
		URLSlug:    category.URLSlug,
	}
}

func (p *Producer) publish(ctx context.Context, topic string, category *domain.Category) error {
	event, err := pkgkafka.NewEvent(topic, EntityTypeCategory, category.ID, SourceCategoryService, categoryData(category))
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	return nil
}

// PublishCategoryCreated publishes a category.created event.
func (p *Producer) PublishCategoryCreated(ctx context.Context, category *domain.Category) error {
	return p.publish(ctx, TopicCategoryCreated, category)
}

// PublishCategoryUpdated publishes a category.updated event.
func (p *Producer) PublishCategoryUpdated(ctx context.Context, category *domain.Category) error {
	return p.publish(ctx, TopicCategoryUpdated, category)
}

// PublishCategoryDeleted publishes a category.deleted event.
func (p *Producer) PublishCategoryDeleted(ctx context.Context, category *domain.Category) error {
	return p.publish(ctx, TopicCategoryDeleted, category)
}
