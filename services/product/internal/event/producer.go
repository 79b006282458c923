package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/quitanda/ecommerce/pkg/kafka"
	"github.com/quitanda/ecommerce/services/product/internal/domain"
)

// Kafka topic constants for product domain events.
const (
	TopicProductCreated      = "ecommerce.product.created"
	TopicProductUpdated      = "ecommerce.product.updated"
	TopicProductDeleted      = "ecommerce.product.deleted"
	TopicProductPriceChanged = "ecommerce.product.price_changed"
	TopicProductStockUpdated = "ecommerce.product.stock_updated"
)

const EntityTypeProduct = "product"

// Source identifier for events originating from the product service.
const SourceProductService = "product-service"

// ProductEventData is the payload shared by product lifecycle events.
type ProductEventData struct {
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
	CategoryID string  `json:"category_id"`
	SupplierID string  `json:"supplier_id"`
	Status     string  `json:"status"`
	SKU        string  `json:"sku"`
}

// PriceChangedData is the payload for a price_changed event.
type PriceChangedData struct {
	ProductID     string  `json:"product_id"`
	PreviousPrice float64 `json:"previous_price"`
	NewPrice      float64 `json:"new_price"`
	Reason        string  `json:"reason,omitempty"`
}

// Producer publishes product domain events to Kafka.
type Producer struct {
	kafka  pkgkafka.Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the product service.
func NewProducer(kafka pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func productData(p *domain.Product) ProductEventData {
	return ProductEventData{
		ProductID:  p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		CategoryID: p.CategoryID,
		SupplierID: p.SupplierID,
		Status:     string(p.Status),
		SKU:        p.SKU,
	}
}

func (p *Producer) publish(ctx context.Context, topic string, product *domain.Product) error {
	event, err := pkgkafka.NewEvent(topic, EntityTypeProduct, product.ID, SourceProductService, productData(product))
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	return nil
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product)
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product)
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductDeleted, product)
}

// PublishProductStockUpdated publishes a stock_updated event.
func (p *Producer) PublishProductStockUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductStockUpdated, product)
}

// PublishPriceChanged publishes a price_changed event.
func (p *Producer) PublishPriceChanged(ctx context.Context, change *domain.PriceChange) error {
	data := PriceChangedData{
		ProductID:     change.ProductID,
		PreviousPrice: change.PreviousPrice,
		NewPrice:      change.NewPrice,
		Reason:        change.Reason,
	}

	event, err := pkgkafka.NewEvent(TopicProductPriceChanged, EntityTypeProduct, change.ProductID, SourceProductService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", TopicProductPriceChanged, err)
	}

	if err := p.kafka.Publish(ctx, TopicProductPriceChanged, event); err != nil {
		return fmt.Errorf("publish %s event: %w", TopicProductPriceChanged, err)
	}

	return nil
}
