package domain

import "time"

// DeliveryStatus represents the lifecycle state of a supplier delivery.
type DeliveryStatus string

const (
	DeliveryStatusScheduled DeliveryStatus = "scheduled"
	DeliveryStatusInTransit DeliveryStatus = "in_transit"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusCancelled DeliveryStatus = "cancelled"
)

// IsValidDeliveryStatus reports whether s is a known delivery status.
func IsValidDeliveryStatus(s DeliveryStatus) bool {
	switch s {
	case DeliveryStatusScheduled, DeliveryStatusInTransit, DeliveryStatusDelivered, DeliveryStatusCancelled:
		return true
	}
	return false
}

// deliveryTransitions enumerates the allowed status moves. Delivered and
// cancelled are terminal.
var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryStatusScheduled: {DeliveryStatusInTransit, DeliveryStatusCancelled},
	DeliveryStatusInTransit: {DeliveryStatusDelivered, DeliveryStatusCancelled},
}

// CanTransitionDelivery reports whether a delivery may move from one status
// to another.
func CanTransitionDelivery(from, to DeliveryStatus) bool {
	for _, allowed := range deliveryTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Delivery records an inbound shipment from a supplier.
type Delivery struct {
	ID            string         `json:"id"`
	SupplierID    string         `json:"supplier_id"`
	DeliveryDate  time.Time      `json:"delivery_date"`
	Products      []any          `json:"products"`
	Status        DeliveryStatus `json:"status"`
	InvoiceNumber string         `json:"invoice_number,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
