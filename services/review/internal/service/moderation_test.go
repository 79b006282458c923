package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/quitanda/ecommerce/pkg/errors"
	"github.com/quitanda/ecommerce/services/review/internal/domain"
)

var lockedReviewCols = []string{"id", "product_id", "user_id", "title", "comment", "rating", "review_date", "photos", "likes", "dislikes", "status", "verified_purchase", "attributes"}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newModerationMock(t *testing.T) (pgxmock.PgxPoolIface, *ModerationService) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, NewModerationService(mock, nil, nil, newTestLogger())
}

func lockedReviewRow(id, productID, status string, rating int) []any {
	return []any{
		id, productID, "user-1", "Solid", "", rating,
		time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC), []string{}, 0, 0,
		status, false, map[string]float64(nil),
	}
}

// expectApprovedSetRecompute scripts the summary half of an approval: ensure
// row, lock row, read approved set, write recomputed summary.
func expectApprovedSetRecompute(mock pgxmock.PgxPoolIface, productID string, approvedRows *pgxmock.Rows, wantTotal int, wantAverage float64) {
	mock.ExpectExec("INSERT INTO review_summaries").
		WithArgs(productID, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	mock.ExpectQuery("SELECT product_id FROM review_summaries WHERE product_id = \\$1 FOR UPDATE").
		WithArgs(productID).
		WillReturnRows(pgxmock.NewRows([]string{"product_id"}).AddRow(productID))

	mock.ExpectQuery("SELECT id, rating, attributes FROM reviews WHERE product_id = \\$1 AND status = 'approved'").
		WithArgs(productID).
		WillReturnRows(approvedRows)

	mock.ExpectExec("UPDATE review_summaries").
		WithArgs(productID, wantAverage, wantTotal, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
}

func TestApproveRecomputesSummaryAtomically(t *testing.T) {
	mock, svc := newModerationMock(t)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery("SELECT (.+) FROM reviews\\s+WHERE id = \\$1\\s+FOR UPDATE").
		WithArgs("rev-1").
		WillReturnRows(pgxmock.NewRows(lockedReviewCols).AddRow(lockedReviewRow("rev-1", "prod-1", "pending", 5)...))
	mock.ExpectExec("UPDATE reviews SET status = \\$2").
		WithArgs("rev-1", "approved").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	approved := pgxmock.NewRows([]string{"id", "rating", "attributes"}).
		AddRow("rev-1", 5, map[string]float64{"durability": 4}).
		AddRow("rev-0", 3, map[string]float64(nil))
	expectApprovedSetRecompute(mock, "prod-1", approved, 2, 4.0)

	mock.ExpectCommit()
	mock.ExpectRollback() // deferred rollback after commit is a no-op

	review, err := svc.Approve(context.Background(), "rev-1")

	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusApproved, review.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveMissingReview(t *testing.T) {
	mock, svc := newModerationMock(t)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery("SELECT (.+) FROM reviews\\s+WHERE id = \\$1\\s+FOR UPDATE").
		WithArgs("rev-missing").
		WillReturnRows(pgxmock.NewRows(lockedReviewCols))
	mock.ExpectRollback()

	_, err := svc.Approve(context.Background(), "rev-missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveAlreadyApproved(t *testing.T) {
	mock, svc := newModerationMock(t)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery("SELECT (.+) FROM reviews\\s+WHERE id = \\$1\\s+FOR UPDATE").
		WithArgs("rev-1").
		WillReturnRows(pgxmock.NewRows(lockedReviewCols).AddRow(lockedReviewRow("rev-1", "prod-1", "approved", 5)...))
	mock.ExpectRollback()

	_, err := svc.Approve(context.Background(), "rev-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidState))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectDoesNotTouchSummary(t *testing.T) {
	mock, svc := newModerationMock(t)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery("SELECT (.+) FROM reviews\\s+WHERE id = \\$1\\s+FOR UPDATE").
		WithArgs("rev-1").
		WillReturnRows(pgxmock.NewRows(lockedReviewCols).AddRow(lockedReviewRow("rev-1", "prod-1", "pending", 2)...))
	mock.ExpectExec("UPDATE reviews SET status = \\$2").
		WithArgs("rev-1", "rejected").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	review, err := svc.Reject(context.Background(), "rev-1")

	require.NoError(t, err)
	assert.Equal(t, domain.ReviewStatusRejected, review.Status)
	// No summary statements were scripted: any touch would have failed the mock.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectTerminalReview(t *testing.T) {
	mock, svc := newModerationMock(t)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery("SELECT (.+) FROM reviews\\s+WHERE id = \\$1\\s+FOR UPDATE").
		WithArgs("rev-1").
		WillReturnRows(pgxmock.NewRows(lockedReviewCols).AddRow(lockedReviewRow("rev-1", "prod-1", "rejected", 2)...))
	mock.ExpectRollback()

	_, err := svc.Reject(context.Background(), "rev-1")

	assert.True(t, errors.Is(err, apperrors.ErrInvalidState))
	require.NoError(t, mock.ExpectationsWereMet())
}

// Two approvals for the same product serialize on the summary row lock; the
// later transaction re-reads the approved set after the earlier one committed,
// so both reviews are counted in the final summary.
func TestConcurrentApprovalsSameProductCountBoth(t *testing.T) {
	mock, svc := newModerationMock(t)

	// First approval: R3 commits with itself in the approved set.
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery("SELECT (.+) FROM reviews\\s+WHERE id = \\$1\\s+FOR UPDATE").
		WithArgs("rev-3").
		WillReturnRows(pgxmock.NewRows(lockedReviewCols).AddRow(lockedReviewRow("rev-3", "prod-1", "pending", 4)...))
	mock.ExpectExec("UPDATE reviews SET status = \\$2").
		WithArgs("rev-3", "approved").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	expectApprovedSetRecompute(mock, "prod-1",
		pgxmock.NewRows([]string{"id", "rating", "attributes"}).
			AddRow("rev-3", 4, map[string]float64(nil)),
		1, 4.0)
	mock.ExpectCommit()
	mock.ExpectRollback()

	// Second approval: R4 was blocked on the summary row lock; once it
	// proceeds, its fresh read includes the committed R3.
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery("SELECT (.+) FROM reviews\\s+WHERE id = \\$1\\s+FOR UPDATE").
		WithArgs("rev-4").
		WillReturnRows(pgxmock.NewRows(lockedReviewCols).AddRow(lockedReviewRow("rev-4", "prod-1", "pending", 2)...))
	mock.ExpectExec("UPDATE reviews SET status = \\$2").
		WithArgs("rev-4", "approved").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	expectApprovedSetRecompute(mock, "prod-1",
		pgxmock.NewRows([]string{"id", "rating", "attributes"}).
			AddRow("rev-3", 4, map[string]float64(nil)).
			AddRow("rev-4", 2, map[string]float64(nil)),
		2, 3.0)
	mock.ExpectCommit()
	mock.ExpectRollback()

	_, err := svc.Approve(context.Background(), "rev-3")
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), "rev-4")
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveRollsBackOnSummaryFailure(t *testing.T) {
	mock, svc := newModerationMock(t)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery("SELECT (.+) FROM reviews\\s+WHERE id = \\$1\\s+FOR UPDATE").
		WithArgs("rev-1").
		WillReturnRows(pgxmock.NewRows(lockedReviewCols).AddRow(lockedReviewRow("rev-1", "prod-1", "pending", 5)...))
	mock.ExpectExec("UPDATE reviews SET status = \\$2").
		WithArgs("rev-1", "approved").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO review_summaries").
		WithArgs("prod-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := svc.Approve(context.Background(), "rev-1")

	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
