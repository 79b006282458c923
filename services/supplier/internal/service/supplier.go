// Package service implements the supplier business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/quitanda/ecommerce/pkg/errors"
	"github.com/quitanda/ecommerce/services/supplier/internal/domain"
	"github.com/quitanda/ecommerce/services/supplier/internal/event"
	"github.com/quitanda/ecommerce/services/supplier/internal/repository"
)

// SupplierService implements the business logic for supplier, contact and
// delivery operations.
type SupplierService struct {
	suppliers  repository.SupplierRepository
	contacts   repository.ContactRepository
	deliveries repository.DeliveryRepository
	producer   *event.Producer
	logger     *slog.Logger
}

// NewSupplierService creates a new supplier service. producer may be nil.
func NewSupplierService(
	suppliers repository.SupplierRepository,
	contacts repository.ContactRepository,
	deliveries repository.DeliveryRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *SupplierService {
	return &SupplierService{
		suppliers:  suppliers,
		contacts:   contacts,
		deliveries: deliveries,
		producer:   producer,
		logger:     logger,
	}
}

// CreateSupplierInput holds the parameters for registering a supplier.
type CreateSupplierInput struct {
	LegalName      string
	TradingName    string
	TaxID          string
	Email          string
	Phone          string
	Address        map[string]any
	Representative string
	PaymentTerms   string
}

// UpdateSupplierInput holds the parameters for a partial supplier update.
// A nil field leaves the current value untouched.
type UpdateSupplierInput struct {
	LegalName      *string
	TradingName    *string
	TaxID          *string
	Email          *string
	Phone          *string
	Address        map[string]any
	Status         *string
	Representative *string
	PaymentTerms   *string
}

// Create validates and registers a new supplier.
func (s *SupplierService) Create(ctx context.Context, input CreateSupplierInput) (*domain.Supplier, error) {
	if input.LegalName == "" {
		return nil, apperrors.InvalidInput("legal_name is required")
	}
	if input.TaxID == "" {
		return nil, apperrors.InvalidInput("tax_id is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Phone == "" {
		return nil, apperrors.InvalidInput("phone is required")
	}
	if len(input.Address) == 0 {
		return nil, apperrors.InvalidInput("address is required")
	}

	now := time.Now().UTC()
	supplier := &domain.Supplier{
		ID:               uuid.New().String(),
		LegalName:        input.LegalName,
		TradingName:      input.TradingName,
		TaxID:            input.TaxID,
		Email:            input.Email,
		Phone:            input.Phone,
		Address:          input.Address,
		Status:           domain.SupplierStatusActive,
		Representative:   input.Representative,
		PaymentTerms:     input.PaymentTerms,
		RegistrationDate: now,
		UpdateDate:       now,
	}

	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}

	if s.producer != nil {
		if err := s.producer.PublishSupplierCreated(ctx, supplier); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish supplier.created event",
				slog.String("supplier_id", supplier.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "supplier registered",
		slog.String("supplier_id", supplier.ID),
		slog.String("legal_name", supplier.LegalName),
	)

	return supplier, nil
}

// GetByID retrieves a supplier by its ID.
func (s *SupplierService) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	return s.suppliers.GetByID(ctx, id)
}

// List returns all suppliers.
func (s *SupplierService) List(ctx context.Context) ([]domain.Supplier, error) {
	return s.suppliers.List(ctx)
}

// ListActive returns only active suppliers.
func (s *SupplierService) ListActive(ctx context.Context) ([]domain.Supplier, error) {
	return s.suppliers.ListByStatus(ctx, domain.SupplierStatusActive)
}

// Update applies partial updates to an existing supplier.
func (s *SupplierService) Update(ctx context.Context, id string, input UpdateSupplierInput) (*domain.Supplier, error) {
	supplier, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.LegalName != nil {
		if *input.LegalName == "" {
			return nil, apperrors.InvalidInput("legal_name must not be empty")
		}
		supplier.LegalName = *input.LegalName
	}
	if input.TradingName != nil {
		supplier.TradingName = *input.TradingName
	}
	if input.TaxID != nil {
		if *input.TaxID == "" {
			return nil, apperrors.InvalidInput("tax_id must not be empty")
		}
		supplier.TaxID = *input.TaxID
	}
	if input.Email != nil {
		supplier.Email = *input.Email
	}
	if input.Phone != nil {
		supplier.Phone = *input.Phone
	}
	if input.Address != nil {
		supplier.Address = input.Address
	}
	if input.Status != nil {
		status := domain.SupplierStatus(*input.Status)
		if !domain.IsValidSupplierStatus(status) {
			return nil, apperrors.InvalidInput("invalid supplier status: " + *input.Status)
		}
		supplier.Status = status
	}
	if input.Representative != nil {
		supplier.Representative = *input.Representative
	}
	if input.PaymentTerms != nil {
		supplier.PaymentTerms = *input.PaymentTerms
	}
	supplier.UpdateDate = time.Now().UTC()

	if err := s.suppliers.Update(ctx, supplier); err != nil {
		return nil, err
	}

	if s.producer != nil {
		if err := s.producer.PublishSupplierUpdated(ctx, supplier); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish supplier.updated event",
				slog.String("supplier_id", supplier.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return supplier, nil
}

// Delete removes a supplier. Contacts and deliveries cascade at the
// database level.
func (s *SupplierService) Delete(ctx context.Context, id string) error {
	supplier, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.suppliers.Delete(ctx, id); err != nil {
		return err
	}

	if s.producer != nil {
		if err := s.producer.PublishSupplierDeleted(ctx, supplier); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish supplier.deleted event",
				slog.String("supplier_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "supplier removed", slog.String("supplier_id", id))
	return nil
}

// CreateContactInput holds the parameters for adding a supplier contact.
type CreateContactInput struct {
	Name       string
	Position   string
	Email      string
	Phone      string
	Department string
	IsPrimary  bool
}

// UpdateContactInput holds the parameters for a partial contact update.
type UpdateContactInput struct {
	Name       *string
	Position   *string
	Email      *string
	Phone      *string
	Department *string
	IsPrimary  *bool
}

// AddContact creates a new contact for a supplier. Marking the new contact
// primary demotes any existing primary contact first.
func (s *SupplierService) AddContact(ctx context.Context, supplierID string, input CreateContactInput) (*domain.Contact, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("contact name is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("contact email is required")
	}
	if input.Phone == "" {
		return nil, apperrors.InvalidInput("contact phone is required")
	}

	if _, err := s.suppliers.GetByID(ctx, supplierID); err != nil {
		return nil, err
	}

	if input.IsPrimary {
		if err := s.contacts.ClearPrimary(ctx, supplierID); err != nil {
			return nil, err
		}
	}

	contact := &domain.Contact{
		ID:         uuid.New().String(),
		SupplierID: supplierID,
		Name:       input.Name,
		Position:   input.Position,
		Email:      input.Email,
		Phone:      input.Phone,
		Department: input.Department,
		IsPrimary:  input.IsPrimary,
	}

	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}

	return contact, nil
}

// ListContacts returns all contacts of a supplier.
func (s *SupplierService) ListContacts(ctx context.Context, supplierID string) ([]domain.Contact, error) {
	if _, err := s.suppliers.GetByID(ctx, supplierID); err != nil {
		return nil, err
	}
	return s.contacts.ListBySupplier(ctx, supplierID)
}

// UpdateContact applies partial updates to a contact, enforcing that the
// contact belongs to the given supplier. Promoting a contact to primary
// demotes the current one.
func (s *SupplierService) UpdateContact(ctx context.Context, supplierID, contactID string, input UpdateContactInput) (*domain.Contact, error) {
	if _, err := s.suppliers.GetByID(ctx, supplierID); err != nil {
		return nil, err
	}

	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if contact.SupplierID != supplierID {
		return nil, apperrors.NotFound("contact", contactID)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("contact name must not be empty")
		}
		contact.Name = *input.Name
	}
	if input.Position != nil {
		contact.Position = *input.Position
	}
	if input.Email != nil {
		contact.Email = *input.Email
	}
	if input.Phone != nil {
		contact.Phone = *input.Phone
	}
	if input.Department != nil {
		contact.Department = *input.Department
	}
	if input.IsPrimary != nil && *input.IsPrimary != contact.IsPrimary {
		if *input.IsPrimary {
			if err := s.contacts.ClearPrimary(ctx, supplierID); err != nil {
				return nil, err
			}
		}
		contact.IsPrimary = *input.IsPrimary
	}

	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, err
	}

	return contact, nil
}

// RemoveContact deletes a contact after checking supplier ownership.
func (s *SupplierService) RemoveContact(ctx context.Context, supplierID, contactID string) error {
	if _, err := s.suppliers.GetByID(ctx, supplierID); err != nil {
		return err
	}

	contact, err := s.contacts.GetByID(ctx, contactID)
	if err != nil {
		return err
	}
	if contact.SupplierID != supplierID {
		return apperrors.NotFound("contact", contactID)
	}

	return s.contacts.Delete(ctx, contactID)
}

// CreateDeliveryInput holds the parameters for scheduling a delivery.
type CreateDeliveryInput struct {
	DeliveryDate  time.Time
	Products      []any
	InvoiceNumber string
	Notes         string
}

// UpdateDeliveryInput holds the parameters for a partial delivery update.
type UpdateDeliveryInput struct {
	DeliveryDate  *time.Time
	Products      []any
	Status        *string
	InvoiceNumber *string
	Notes         *string
}

// ScheduleDelivery creates a new delivery for a supplier in the scheduled
// state.
func (s *SupplierService) ScheduleDelivery(ctx context.Context, supplierID string, input CreateDeliveryInput) (*domain.Delivery, error) {
	if input.DeliveryDate.IsZero() {
		return nil, apperrors.InvalidInput("delivery_date is required")
	}
	if len(input.Products) == 0 {
		return nil, apperrors.InvalidInput("products are required")
	}

	if _, err := s.suppliers.GetByID(ctx, supplierID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	delivery := &domain.Delivery{
		ID:            uuid.New().String(),
		SupplierID:    supplierID,
		DeliveryDate:  input.DeliveryDate,
		Products:      input.Products,
		Status:        domain.DeliveryStatusScheduled,
		InvoiceNumber: input.InvoiceNumber,
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.deliveries.Create(ctx, delivery); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "delivery scheduled",
		slog.String("delivery_id", delivery.ID),
		slog.String("supplier_id", supplierID),
	)

	return delivery, nil
}

// ListDeliveries returns all deliveries of a supplier, most recent first.
func (s *SupplierService) ListDeliveries(ctx context.Context, supplierID string) ([]domain.Delivery, error) {
	if _, err := s.suppliers.GetByID(ctx, supplierID); err != nil {
		return nil, err
	}
	return s.deliveries.ListBySupplier(ctx, supplierID)
}

// UpdateDelivery applies partial updates to a delivery, enforcing supplier
// ownership and the status transition rules: scheduled may move to
// in_transit or cancelled, in_transit to delivered or cancelled, and the
// terminal states accept no further moves.
func (s *SupplierService) UpdateDelivery(ctx context.Context, supplierID, deliveryID string, input UpdateDeliveryInput) (*domain.Delivery, error) {
	if _, err := s.suppliers.GetByID(ctx, supplierID); err != nil {
		return nil, err
	}

	delivery, err := s.deliveries.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery.SupplierID != supplierID {
		return nil, apperrors.NotFound("delivery", deliveryID)
	}

	statusChanged := false
	if input.Status != nil {
		next := domain.DeliveryStatus(*input.Status)
		if !domain.IsValidDeliveryStatus(next) {
			return nil, apperrors.InvalidInput("invalid delivery status: " + *input.Status)
		}
		if next != delivery.Status {
			if !domain.CanTransitionDelivery(delivery.Status, next) {
				return nil, apperrors.InvalidState(fmt.Sprintf(
					"delivery cannot move from %s to %s", delivery.Status, next,
				))
			}
			delivery.Status = next
			statusChanged = true
		}
	}

	if input.DeliveryDate != nil {
		delivery.DeliveryDate = *input.DeliveryDate
	}
	if input.Products != nil {
		delivery.Products = input.Products
	}
	if input.InvoiceNumber != nil {
		delivery.InvoiceNumber = *input.InvoiceNumber
	}
	if input.Notes != nil {
		delivery.Notes = *input.Notes
	}
	delivery.UpdatedAt = time.Now().UTC()

	if err := s.deliveries.Update(ctx, delivery); err != nil {
		return nil, err
	}

	if statusChanged && s.producer != nil {
		if err := s.producer.PublishDeliveryStatusChanged(ctx, delivery); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish delivery_status_changed event",
				slog.String("delivery_id", delivery.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return delivery, nil
}
