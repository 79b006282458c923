package domain

import (
	"time"

	apperrors "github.com/quitanda/ecommerce/pkg/errors"
)

// ReviewStatus is the moderation state of a review. Transitions are one-way:
// pending may become approved or rejected; both of those are terminal.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// IsValidReviewStatus checks whether the given status is a known review status.
func IsValidReviewStatus(status string) bool {
	switch ReviewStatus(status) {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusRejected:
		return true
	}
	return false
}

// Helpfulness holds the like/dislike counters of a review. Counters are set
// absolutely, never incremented; concurrent writers race with last-write-wins.
type Helpfulness struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// Review represents a product review submitted by a user.
type Review struct {
	ID               string             `json:"id"`
	ProductID        string             `json:"product_id"`
	UserID           string             `json:"user_id"`
	Title            string             `json:"title"`
	Comment          string             `json:"comment,omitempty"`
	Rating           int                `json:"rating"`
	ReviewDate       time.Time          `json:"review_date"`
	Photos           []string           `json:"photos,omitempty"`
	Helpfulness      Helpfulness        `json:"helpfulness"`
	Status           ReviewStatus       `json:"status"`
	VerifiedPurchase bool               `json:"verified_purchase"`
	Attributes       map[string]float64 `json:"attributes,omitempty"`
}

// IsPending reports whether the review is still awaiting moderation.
func (r *Review) IsPending() bool {
	return r.Status == ReviewStatusPending
}

// Approve moves the review from pending to approved. Any other starting
// state fails: approved and rejected are terminal.
func (r *Review) Approve() error {
	if r.Status != ReviewStatusPending {
		return apperrors.InvalidState("cannot approve review in status " + string(r.Status))
	}
	r.Status = ReviewStatusApproved
	return nil
}

// Reject moves the review from pending to rejected. Any other starting
// state fails.
func (r *Review) Reject() error {
	if r.Status != ReviewStatusPending {
		return apperrors.InvalidState("cannot reject review in status " + string(r.Status))
	}
	r.Status = ReviewStatusRejected
	return nil
}
