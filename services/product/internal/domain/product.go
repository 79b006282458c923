package domain

import "time"

// ProductStatus enumerates the lifecycle states of a product.
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// IsValidProductStatus reports whether s is a known product status.
func IsValidProductStatus(s ProductStatus) bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusDiscontinued:
		return true
	}
	return false
}

// Product is a sellable item in the catalog. SKU is unique across the
// catalog.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Price       float64        `json:"price"`
	Stock       int            `json:"stock"`
	CategoryID  string         `json:"category_id"`
	SupplierID  string         `json:"supplier_id"`
	Features    map[string]any `json:"features,omitempty"`
	Images      []string       `json:"images,omitempty"`
	Status      ProductStatus  `json:"status"`
	SKU         string         `json:"sku"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
