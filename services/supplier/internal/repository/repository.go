// Package repository defines the persistence interfaces for the supplier
// service.
package repository

import (
	"context"

	"github.com/quitanda/ecommerce/services/supplier/internal/domain"
)

// SupplierRepository persists suppliers.
type SupplierRepository interface {
	Create(ctx context.Context, s *domain.Supplier) error
	GetByID(ctx context.Context, id string) (*domain.Supplier, error)
	List(ctx context.Context) ([]domain.Supplier, error)
	ListByStatus(ctx context.Context, status domain.SupplierStatus) ([]domain.Supplier, error)
	Update(ctx context.Context, s *domain.Supplier) error
	// Delete removes a supplier; contacts and deliveries cascade at the
	// database level.
	Delete(ctx context.Context, id string) error
}

// ContactRepository persists supplier contacts.
type ContactRepository interface {
	Create(ctx context.Context, c *domain.Contact) error
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	ListBySupplier(ctx context.Context, supplierID string) ([]domain.Contact, error)
	Update(ctx context.Context, c *domain.Contact) error
	Delete(ctx context.Context, id string) error
	// ClearPrimary demotes the current primary contact of a supplier, if any.
	ClearPrimary(ctx context.Context, supplierID string) error
}

// DeliveryRepository persists supplier deliveries.
type DeliveryRepository interface {
	Create(ctx context.Context, d *domain.Delivery) error
	GetByID(ctx context.Context, id string) (*domain.Delivery, error)
	ListBySupplier(ctx context.Context, supplierID string) ([]domain.Delivery, error)
	Update(ctx context.Context, d *domain.Delivery) error
}
