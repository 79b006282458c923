package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quitanda/ecommerce/pkg/database"
	apperrors "github.com/quitanda/ecommerce/pkg/errors"
	"github.com/quitanda/ecommerce/services/review/internal/domain"
)

// SummaryRepository implements repository.SummaryRepository using PostgreSQL.
// Summary rows are written only inside the moderation transaction; this
// repository serves reads.
type SummaryRepository struct {
	pool database.DBTX
}

// NewSummaryRepository creates a new PostgreSQL-backed summary repository.
func NewSummaryRepository(pool database.DBTX) *SummaryRepository {
	return &SummaryRepository{pool: pool}
}

// GetByProduct retrieves the rating summary for a product.
func (r *SummaryRepository) GetByProduct(ctx context.Context, productID string) (*domain.ReviewSummary, error) {
	query := `
		SELECT product_id, average_rating, total_reviews, distribution, attribute_averages, last_updated
		FROM review_summaries
		WHERE product_id = $1`

	var s domain.ReviewSummary
	err := r.pool.QueryRow(ctx, query, productID).Scan(
		&s.ProductID,
		&s.AverageRating,
		&s.TotalReviews,
		&s.Distribution,
		&s.AttributeAverages,
		&s.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review summary", productID)
		}
		return nil, fmt.Errorf("get summary by product: %w", err)
	}

	return &s, nil
}
