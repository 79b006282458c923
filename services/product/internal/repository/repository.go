// Package repository defines the persistence interfaces for the product
// service.
package repository

import (
	"context"

	"github.com/quitanda/ecommerce/services/product/internal/domain"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID *string
	SupplierID *string
	Status     *string
	Page       int
	PerPage    int
}

// ProductRepository persists products.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
	Update(ctx context.Context, product *domain.Product) error
	UpdateStock(ctx context.Context, id string, stock int) error
	Delete(ctx context.Context, id string) error
}

// PriceHistoryRepository reads the append-only price change log. Writes
// happen inside the product service's transactions together with the price
// update itself.
type PriceHistoryRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]domain.PriceChange, error)
}
