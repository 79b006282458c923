package postgres

import (
	"context"
	"fmt"

	"github.com/quitanda/ecommerce/pkg/database"
	"github.com/quitanda/ecommerce/services/review/internal/domain"
)

// ResponseRepository implements repository.ResponseRepository using PostgreSQL.
type ResponseRepository struct {
	pool database.DBTX
}

// NewResponseRepository creates a new PostgreSQL-backed response repository.
func NewResponseRepository(pool database.DBTX) *ResponseRepository {
	return &ResponseRepository{pool: pool}
}

// Create attaches a new response to a review. The review_id foreign key
// cascades on review deletion, so responses never outlive their review.
func (r *ResponseRepository) Create(ctx context.Context, response *domain.ReviewResponse) error {
	query := `
		INSERT INTO review_responses (id, review_id, user_id, comment, response_date, is_seller, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		response.ID,
		response.ReviewID,
		response.UserID,
		response.Comment,
		response.ResponseDate,
		response.IsSeller,
		string(response.Status),
	)
	if err != nil {
		return fmt.Errorf("create review response: %w", err)
	}

	return nil
}

// ListByReview returns responses for a review in the given status,
// response_date ascending. An empty status returns every response.
func (r *ResponseRepository) ListByReview(ctx context.Context, reviewID string, status domain.ResponseStatus) ([]domain.ReviewResponse, error) {
	query := `
		SELECT id, review_id, user_id, comment, response_date, is_seller, status
		FROM review_responses
		WHERE review_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY response_date ASC`

	rows, err := r.pool.Query(ctx, query, reviewID, string(status))
	if err != nil {
		return nil, fmt.Errorf("list review responses: %w", err)
	}
	defer rows.Close()

	responses := make([]domain.ReviewResponse, 0)
	for rows.Next() {
		var resp domain.ReviewResponse
		var respStatus string
		if err := rows.Scan(
			&resp.ID,
			&resp.ReviewID,
			&resp.UserID,
			&resp.Comment,
			&resp.ResponseDate,
			&resp.IsSeller,
			&respStatus,
		); err != nil {
			return nil, fmt.Errorf("scan response row: %w", err)
		}
		resp.Status = domain.ResponseStatus(respStatus)
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate response rows: %w", err)
	}

	return responses, nil
}
