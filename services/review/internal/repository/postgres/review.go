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

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `id, product_id, user_id, title, comment, rating, review_date, photos, likes, dislikes, status, verified_purchase, attributes`

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, product_id, user_id, title, comment, rating, review_date, photos, likes, dislikes, status, verified_purchase, attributes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.ProductID,
		review.UserID,
		review.Title,
		review.Comment,
		review.Rating,
		review.ReviewDate,
		review.Photos,
		review.Helpfulness.Likes,
		review.Helpfulness.Dislikes,
		string(review.Status),
		review.VerifiedPurchase,
		review.Attributes,
	)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by its unique identifier.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("get review by id: %w", err)
	}

	return review, nil
}

// ListByProduct returns reviews for a product newest first. An empty status
// returns reviews in every status.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string, status domain.ReviewStatus, page, perPage int) ([]domain.Review, int, error) {
	countQuery := `SELECT COUNT(*) FROM reviews WHERE product_id = $1 AND ($2 = '' OR status = $2)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, productID, string(status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews by product: %w", err)
	}

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE product_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY review_date DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, productID, string(status), perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews by product: %w", err)
	}
	defer rows.Close()

	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// ListByUser returns all reviews submitted by a user, newest first.
func (r *ReviewRepository) ListByUser(ctx context.Context, userID string, page, perPage int) ([]domain.Review, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews by user: %w", err)
	}

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1
		ORDER BY review_date DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews by user: %w", err)
	}
	defer rows.Close()

	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// ListPending returns the moderation queue, oldest submissions first.
func (r *ReviewRepository) ListPending(ctx context.Context, page, perPage int) ([]domain.Review, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE status = 'pending'`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pending reviews: %w", err)
	}

	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE status = 'pending'
		ORDER BY review_date ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list pending reviews: %w", err)
	}
	defer rows.Close()

	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// SetHelpfulness overwrites the like/dislike counters. Absolute assignment:
// concurrent writers race with last-write-wins.
func (r *ReviewRepository) SetHelpfulness(ctx context.Context, id string, likes, dislikes int) error {
	tag, err := r.pool.Exec(ctx, `UPDATE reviews SET likes = $2, dislikes = $3 WHERE id = $1`, id, likes, dislikes)
	if err != nil {
		return fmt.Errorf("set review helpfulness: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rv domain.Review
	var status string
	err := row.Scan(
		&rv.ID,
		&rv.ProductID,
		&rv.UserID,
		&rv.Title,
		&rv.Comment,
		&rv.Rating,
		&rv.ReviewDate,
		&rv.Photos,
		&rv.Helpfulness.Likes,
		&rv.Helpfulness.Dislikes,
		&status,
		&rv.VerifiedPurchase,
		&rv.Attributes,
	)
	if err != nil {
		return nil, err
	}
	rv.Status = domain.ReviewStatus(status)

	return &rv, nil
}

func collectReviews(rows pgx.Rows) ([]domain.Review, error) {
	reviews := make([]domain.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, *review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}
