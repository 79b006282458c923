// Package domain defines the core entities of the supplier service.
package domain

import "time"

// SupplierStatus represents the lifecycle state of a supplier.
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// IsValidSupplierStatus reports whether s is a known supplier status.
func IsValidSupplierStatus(s SupplierStatus) bool {
	return s == SupplierStatusActive || s == SupplierStatusInactive
}

// Supplier represents a registered supplier.
type Supplier struct {
	ID               string         `json:"id"`
	LegalName        string         `json:"legal_name"`
	TradingName      string         `json:"trading_name,omitempty"`
	TaxID            string         `json:"tax_id"`
	Email            string         `json:"email"`
	Phone            string         `json:"phone"`
	Address          map[string]any `json:"address"`
	Status           SupplierStatus `json:"status"`
	Representative   string         `json:"representative,omitempty"`
	PaymentTerms     string         `json:"payment_terms,omitempty"`
	RegistrationDate time.Time      `json:"registration_date"`
	UpdateDate       time.Time      `json:"update_date"`
}

// Contact is a named person at a supplier. At most one contact per supplier
// carries the primary flag.
type Contact struct {
	ID         string `json:"id"`
	SupplierID string `json:"supplier_id"`
	Name       string `json:"name"`
	Position   string `json:"position,omitempty"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department,omitempty"`
	IsPrimary  bool   `json:"is_primary"`
}
