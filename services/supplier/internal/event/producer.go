package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pkgkafka "github.com/quitanda/ecommerce/pkg/kafka"
	"github.com/quitanda/ecommerce/services/supplier/internal/domain"
)

// Kafka topic constants for supplier domain events.
const (
	TopicSupplierCreated       = "ecommerce.supplier.created"
	TopicSupplierUpdated       = "ecommerce.supplier.updated"
	TopicSupplierDeleted       = "ecommerce.supplier.deleted"
	TopicDeliveryStatusChanged = "ecommerce.supplier.delivery_status_changed"
)

const (
	EntityTypeSupplier = "supplier"
	EntityTypeDelivery = "delivery"
)

// Source identifier for events originating from the supplier service.
const SourceSupplierService = "supplier-service"

// SupplierEventData is the payload shared by supplier lifecycle events.
type SupplierEventData struct {
	SupplierID  string `json:"supplier_id"`
	LegalName   string `json:"legal_name"`
	TradingName string `json:"trading_name,omitempty"`
	TaxID       string `json:"tax_id"`
	Status      string `json:"status"`
}

// DeliveryStatusData is the payload of delivery status change events.
type DeliveryStatusData struct {
	DeliveryID   string    `json:"delivery_id"`
	SupplierID   string    `json:"supplier_id"`
	Status       string    `json:"status"`
	DeliveryDate time.Time `json:"delivery_date"`
}

// Producer publishes supplier domain events to Kafka.
type Producer struct {
	kafka  pkgkafka.Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the supplier service.
func NewProducer(kafka pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func supplierData(supplier *domain.Supplier) SupplierEventData {
	return SupplierEventData{
		SupplierID:  supplier.ID,
		LegalName:   supplier.LegalName,
		TradingName: supplier.TradingName,
		TaxID:       supplier.TaxID,
		Status:      string(supplier.Status),
	}
}

func (p *Producer) publish(ctx context.Context, topic string, supplier *domain.Supplier) error {
	event, err := pkgkafka.NewEvent(topic, EntityTypeSupplier, supplier.ID, SourceSupplierService, supplierData(supplier))
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	return nil
}

// PublishSupplierCreated publishes a supplier.created event.
func (p *Producer) PublishSupplierCreated(ctx context.Context, supplier *domain.Supplier) error {
	return p.publish(ctx, TopicSupplierCreated, supplier)
}

// PublishSupplierUpdated publishes a supplier.updated event.
func (p *Producer) PublishSupplierUpdated(ctx context.Context, supplier *domain.Supplier) error {
	return p.publish(ctx, TopicSupplierUpdated, supplier)
}

// PublishSupplierDeleted publishes a supplier.deleted event.
func (p *Producer) PublishSupplierDeleted(ctx context.Context, supplier *domain.Supplier) error {
	return p.publish(ctx, TopicSupplierDeleted, supplier)
}

// PublishDeliveryStatusChanged publishes a delivery_status_changed event.
func (p *Producer) PublishDeliveryStatusChanged(ctx context.Context, delivery *domain.Delivery) error {
	data := DeliveryStatusData{
		DeliveryID:   delivery.ID,
		SupplierID:   delivery.SupplierID,
		Status:       string(delivery.Status),
		DeliveryDate: delivery.DeliveryDate,
	}

	event, err := pkgkafka.NewEvent(TopicDeliveryStatusChanged, EntityTypeDelivery, delivery.ID, SourceSupplierService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", TopicDeliveryStatusChanged, err)
	}

	if err := p.kafka.Publish(ctx, TopicDeliveryStatusChanged, event); err != nil {
		return fmt.Errorf("publish %s event: %w", TopicDeliveryStatusChanged, err)
	}

	return nil
}
