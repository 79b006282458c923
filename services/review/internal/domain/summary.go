package domain

import (
	"math"
	"time"
)

// ReviewSummary is the denormalized per-product rating snapshot. It is always
// a full recomputation over the current approved set, never an incremental
// patch of a previous summary.
type ReviewSummary struct {
	ProductID         string             `json:"product_id"`
	AverageRating     float64            `json:"average_rating"`
	TotalReviews      int                `json:"total_reviews"`
	Distribution      map[int]int        `json:"distribution"`
	AttributeAverages map[string]float64 `json:"attribute_averages"`
	LastUpdated       time.Time          `json:"last_updated"`
}

// NewEmptySummary returns the zero-value summary for a product: all five
// distribution buckets present with count 0, no attribute averages.
func NewEmptySummary(productID string, now time.Time) ReviewSummary {
	return ReviewSummary{
		ProductID:         productID,
		AverageRating:     0,
		TotalReviews:      0,
		Distribution:      map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		AttributeAverages: map[string]float64{},
		LastUpdated:       now,
	}
}

// RecomputeSummary builds the summary for a product from its full approved
// review set. The function is pure apart from the supplied timestamp:
// the same multiset of reviews yields the same summary regardless of order.
//
// Attribute averages are taken over only the reviews that carry the key;
// a review without the key contributes to neither the sum nor the count.
func RecomputeSummary(productID string, approved []Review, now time.Time) ReviewSummary {
	summary := NewEmptySummary(productID, now)
	if len(approved) == 0 {
		return summary
	}

	attrSums := make(map[string]float64)
	attrCounts := make(map[string]int)

	for _, r := range approved {
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		summary.Distribution[r.Rating]++

		for name, score := range r.Attributes {
			attrSums[name] += score
			attrCounts[name]++
		}
	}

	var ratingSum int
	for rating, count := range summary.Distribution {
		summary.TotalReviews += count
		ratingSum += rating * count
	}

	if summary.TotalReviews > 0 {
		summary.AverageRating = round2(float64(ratingSum) / float64(summary.TotalReviews))
	}

	for name, sum := range attrSums {
		summary.AttributeAverages[name] = round2(sum / float64(attrCounts[name]))
	}

	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
