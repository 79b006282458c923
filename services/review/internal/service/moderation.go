package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/quitanda/ecommerce/pkg/database"
	apperrors "github.com/quitanda/ecommerce/pkg/errors"
	"github.com/quitanda/ecommerce/services/review/internal/domain"
	"github.com/quitanda/ecommerce/services/review/internal/event"
	"github.com/quitanda/ecommerce/services/review/internal/repository"
)

// ModerationService applies moderation transitions and keeps the per-product
// rating summary consistent with them. Each transition runs in a single
// transaction; approvals additionally lock the product's summary row, which
// serializes concurrent approvals for the same product while leaving other
// products untouched.
type ModerationService struct {
	pool     database.Pool
	cache    repository.SummaryCache
	producer *event.Producer
	logger   *slog.Logger
}

// NewModerationService creates a new moderation service. cache and producer
// may be nil; post-commit cache invalidation and event publication are then
// skipped.
func NewModerationService(
	pool database.Pool,
	cache repository.SummaryCache,
	producer *event.Producer,
	logger *slog.Logger,
) *ModerationService {
	return &ModerationService{
		pool:     pool,
		cache:    cache,
		producer: producer,
		logger:   logger,
	}
}

// Approve transitions a pending review to approved and recomputes the
// product's rating summary from the full approved set, atomically. The status
// change and the new summary become visible together or not at all.
func (s *ModerationService) Approve(ctx context.Context, reviewID string) (*domain.Review, error) {
	var summary domain.ReviewSummary

	review, err := s.transition(ctx, reviewID, (*domain.Review).Approve, func(ctx context.Context, tx pgx.Tx, review *domain.Review) error {
		var err error
		summary, err = recomputeSummaryTx(ctx, tx, review.ProductID, time.Now().UTC())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterSummaryChange(ctx, &summary)
	if s.producer != nil {
		if err := s.producer.PublishReviewApproved(ctx, review); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish review.approved event",
				slog.String("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return review, nil
}

// Reject transitions a pending review to rejected. The summary is not
// touched: rejected reviews never contributed to it.
func (s *ModerationService) Reject(ctx context.Context, reviewID string) (*domain.Review, error) {
	review, err := s.transition(ctx, reviewID, (*domain.Review).Reject, nil)
	if err != nil {
		return nil, err
	}

	if s.producer != nil {
		if err := s.producer.PublishReviewRejected(ctx, review); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish review.rejected event",
				slog.String("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return review, nil
}

// transition runs one moderation state change in a transaction: lock the
// review row, apply the domain transition, persist the new status, then run
// the optional post-transition step (summary recompute for approvals) before
// committing.
func (s *ModerationService) transition(
	ctx context.Context,
	reviewID string,
	apply func(*domain.Review) error,
	after func(context.Context, pgx.Tx, *domain.Review) error,
) (*domain.Review, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin moderation transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	review, err := lockReview(ctx, tx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := apply(review); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE reviews SET status = $2 WHERE id = $1`, review.ID, string(review.Status)); err != nil {
		return nil, wrapTxError("update review status", err)
	}

	if after != nil {
		if err := after(ctx, tx, review); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapTxError("commit moderation transaction", err)
	}

	return review, nil
}

// afterSummaryChange performs best-effort post-commit work: evict the cached
// summary so readers see the recomputed one, and announce the change.
func (s *ModerationService) afterSummaryChange(ctx context.Context, summary *domain.ReviewSummary) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, summary.ProductID); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate summary cache",
				slog.String("product_id", summary.ProductID),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.producer != nil {
		if err := s.producer.PublishSummaryUpdated(ctx, summary); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish summary_updated event",
				slog.String("product_id", summary.ProductID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// lockReview loads the full review row under FOR UPDATE so no concurrent
// transition can race on the same review.
func lockReview(ctx context.Context, tx pgx.Tx, reviewID string) (*domain.Review, error) {
	query := `
		SELECT id, product_id, user_id, title, comment, rating, review_date, photos, likes, dislikes, status, verified_purchase, attributes
		FROM reviews
		WHERE id = $1
		FOR UPDATE`

	var review domain.Review
	var status string
	err := tx.QueryRow(ctx, query, reviewID).Scan(
		&review.ID,
		&review.ProductID,
		&review.UserID,
		&review.Title,
		&review.Comment,
		&review.Rating,
		&review.ReviewDate,
		&review.Photos,
		&review.Helpfulness.Likes,
		&review.Helpfulness.Dislikes,
		&status,
		&review.VerifiedPurchase,
		&review.Attributes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", reviewID)
		}
		return nil, wrapTxError("lock review", err)
	}
	review.Status = domain.ReviewStatus(status)

	return &review, nil
}

// recomputeSummaryTx rebuilds the product's summary inside the given
// transaction. It first ensures a summary row exists and locks it FOR UPDATE:
// that lock is the per-product serialization boundary, so a concurrent
// approval for the same product blocks here and re-reads the approved set
// after this transaction commits. The approved set is always read fresh from
// the table, never derived from the previous summary.
func recomputeSummaryTx(ctx context.Context, tx pgx.Tx, productID string, now time.Time) (domain.ReviewSummary, error) {
	empty := domain.NewEmptySummary(productID, now)
	_, err := tx.Exec(ctx, `
		INSERT INTO review_summaries (product_id, average_rating, total_reviews, distribution, attribute_averages, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id) DO NOTHING`,
		productID, empty.AverageRating, empty.TotalReviews, empty.Distribution, empty.AttributeAverages, empty.LastUpdated,
	)
	if err != nil {
		return domain.ReviewSummary{}, wrapTxError("ensure summary row", err)
	}

	var locked string
	if err := tx.QueryRow(ctx, `SELECT product_id FROM review_summaries WHERE product_id = $1 FOR UPDATE`, productID).Scan(&locked); err != nil {
		return domain.ReviewSummary{}, wrapTxError("lock summary row", err)
	}

	approved, err := loadApprovedReviewsTx(ctx, tx, productID)
	if err != nil {
		return domain.ReviewSummary{}, err
	}

	summary := domain.RecomputeSummary(productID, approved, now)

	_, err = tx.Exec(ctx, `
		UPDATE review_summaries
		SET average_rating = $2, total_reviews = $3, distribution = $4, attribute_averages = $5, last_updated = $6
		WHERE product_id = $1`,
		productID, summary.AverageRating, summary.TotalReviews, summary.Distribution, summary.AttributeAverages, summary.LastUpdated,
	)
	if err != nil {
		return domain.ReviewSummary{}, wrapTxError("save summary", err)
	}

	return summary, nil
}

// loadApprovedReviewsTx reads the authoritative approved set for a product
// inside the transaction. Only the fields the aggregation consumes are loaded.
func loadApprovedReviewsTx(ctx context.Context, tx pgx.Tx, productID string) ([]domain.Review, error) {
	rows, err := tx.Query(ctx, `SELECT id, rating, attributes FROM reviews WHERE product_id = $1 AND status = 'approved'`, productID)
	if err != nil {
		return nil, wrapTxError("load approved reviews", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		r := domain.Review{ProductID: productID, Status: domain.ReviewStatusApproved}
		if err := rows.Scan(&r.ID, &r.Rating, &r.Attributes); err != nil {
			return nil, wrapTxError("scan approved review", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapTxError("iterate approved reviews", err)
	}

	return reviews, nil
}

// wrapTxError classifies transaction failures: serialization and deadlock
// errors become retryable conflicts, everything else surfaces as a storage
// failure.
func wrapTxError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 40001 serialization_failure, 40P01 deadlock_detected
		if pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return apperrors.Conflict(op + ": concurrent moderation detected, retry")
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
