package domain

import (
	"time"
)

// ResponseStatus is the visibility state of a review response, independent of
// the owning review's moderation status.
type ResponseStatus string

const (
	ResponseStatusActive   ResponseStatus = "active"
	ResponseStatusInactive ResponseStatus = "inactive"
)

// IsValidResponseStatus checks whether the given status is a known response status.
func IsValidResponseStatus(status string) bool {
	switch ResponseStatus(status) {
	case ResponseStatusActive, ResponseStatusInactive:
		return true
	}
	return false
}

// ReviewResponse is a reply attached to a review, typically from the seller.
// Responses are owned by their review and are deleted with it. They never
// affect the product's rating summary.
type ReviewResponse struct {
	ID           string         `json:"id"`
	ReviewID     string         `json:"review_id"`
	UserID       string         `json:"user_id"`
	Comment      string         `json:"comment"`
	ResponseDate time.Time      `json:"response_date"`
	IsSeller     bool           `json:"is_seller"`
	Status       ResponseStatus `json:"status"`
}
