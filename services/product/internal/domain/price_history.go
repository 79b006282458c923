package domain

import "time"

// PriceChange records one price transition of a product. Entries are
// append-only; the initial price is recorded with a zero previous price.
type PriceChange struct {
	ID            int64     `json:"id"`
	ProductID     string    `json:"product_id"`
	PreviousPrice float64   `json:"previous_price"`
	NewPrice      float64   `json:"new_price"`
	ChangeDate    time.Time `json:"change_date"`
	Reason        string    `json:"reason,omitempty"`
}
