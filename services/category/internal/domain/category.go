package domain

import "time"

// CategoryStatus enumerates the lifecycle states of a category.
type CategoryStatus string

const (
	CategoryStatusActive   CategoryStatus = "active"
	CategoryStatusInactive CategoryStatus = "inactive"
)

// IsValidCategoryStatus reports whether s is a known category status.
func IsValidCategoryStatus(s CategoryStatus) bool {
	return s == CategoryStatusActive || s == CategoryStatusInactive
}

// Category is a node in the product taxonomy. Root categories have a nil
// ParentID and level 1; a child's level is always its parent's level plus one.
type Category struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	ImageURL     string         `json:"image_url,omitempty"`
	ParentID     *string        `json:"parent_id,omitempty"`
	Level        int            `json:"level"`
	Status       CategoryStatus `json:"status"`
	DisplayOrder int            `json:"display_order"`
	Attributes   map[string]any `json:"attributes,omitempty"`
	URLSlug      string         `json:"url_slug"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// CategoryNode is a category with its resolved children, used for the
// hierarchy listing.
type CategoryNode struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	URLSlug       string         `json:"url_slug"`
	Subcategories []CategoryNode `json:"subcategories"`
}
