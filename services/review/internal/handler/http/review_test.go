package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/quitanda/ecommerce/pkg/errors"
	"github.com/quitanda/ecommerce/pkg/health"
	"github.com/quitanda/ecommerce/pkg/middleware"
	"github.com/quitanda/ecommerce/services/review/internal/domain"
	"github.com/quitanda/ecommerce/services/review/internal/service"
)

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListByProduct(ctx context.Context, productID string, status domain.ReviewStatus, page, perPage int) ([]domain.Review, int, error) {
	args := m.Called(ctx, productID, status, page, perPage)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) ListByUser(ctx context.Context, userID string, page, perPage int) ([]domain.Review, int, error) {
	args := m.Called(ctx, userID, page, perPage)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) ListPending(ctx context.Context, page, perPage int) ([]domain.Review, int, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) SetHelpfulness(ctx context.Context, id string, likes, dislikes int) error {
	args := m.Called(ctx, id, likes, dislikes)
	return args.Error(0)
}

type mockResponseRepository struct {
	mock.Mock
}

func (m *mockResponseRepository) Create(ctx context.Context, response *domain.ReviewResponse) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *mockResponseRepository) ListByReview(ctx context.Context, reviewID string, status domain.ResponseStatus) ([]domain.ReviewResponse, error) {
	args := m.Called(ctx, reviewID, status)
	return args.Get(0).([]domain.ReviewResponse), args.Error(1)
}

type mockSummaryRepository struct {
	mock.Mock
}

func (m *mockSummaryRepository) GetByProduct(ctx context.Context, productID string) (*domain.ReviewSummary, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewSummary), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testEnv struct {
	router    http.Handler
	reviews   *mockReviewRepository
	responses *mockResponseRepository
	summaries *mockSummaryRepository
	db        pgxmock.PgxPoolIface
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	reviews := new(mockReviewRepository)
	responses := new(mockResponseRepository)
	summaries := new(mockSummaryRepository)

	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(db.Close)

	logger := testLogger()
	reviewService := service.NewReviewService(reviews, responses, summaries, nil, db, nil, nil, logger)
	moderationService := service.NewModerationService(db, nil, nil, logger)

	router := NewRouter(reviewService, moderationService, health.NewHandler(), middleware.DefaultCORSConfig(), logger)

	return &testEnv{
		router:    router,
		reviews:   reviews,
		responses: responses,
		summaries: summaries,
		db:        db,
	}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestCreateReviewEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.reviews.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Review) bool {
		return r.Status == domain.ReviewStatusPending && r.ProductID == "prod-1"
	})).Return(nil)

	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/reviews", map[string]any{
		"product_id": "prod-1",
		"user_id":    "user-1",
		"title":      "Great",
		"rating":     5,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	env.reviews.AssertExpectations(t)
}

func TestCreateReviewEndpointValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/reviews", map[string]any{
		"product_id": "prod-1",
		"user_id":    "user-1",
		"title":      "Bad rating",
		"rating":     9,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env.reviews.AssertNotCalled(t, "Create")
}

func TestApproveReviewEndpoint(t *testing.T) {
	env := newTestEnv(t)

	reviewDate := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	env.db.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	env.db.ExpectQuery("SELECT (.+) FROM reviews\\s+WHERE id = \\$1\\s+FOR UPDATE").
		WithArgs("rev-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "product_id", "user_id", "title", "comment", "rating", "review_date", "photos", "likes", "dislikes", "status", "verified_purchase", "attributes"}).
			AddRow("rev-1", "prod-1", "user-1", "Great", "", 5, reviewDate, []string{}, 0, 0, "pending", false, map[string]float64(nil)))
	env.db.ExpectExec("UPDATE reviews SET status = \\$2").
		WithArgs("rev-1", "approved").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	env.db.ExpectExec("INSERT INTO review_summaries").
		WithArgs("prod-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	env.db.ExpectQuery("SELECT product_id FROM review_summaries").
		WithArgs("prod-1").
		WillReturnRows(pgxmock.NewRows([]string{"product_id"}).AddRow("prod-1"))
	env.db.ExpectQuery("SELECT id, rating, attributes FROM reviews").
		WithArgs("prod-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "rating", "attributes"}).AddRow("rev-1", 5, map[string]float64(nil)))
	env.db.ExpectExec("UPDATE review_summaries").
		WithArgs("prod-1", 5.0, 1, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	env.db.ExpectCommit()
	env.db.ExpectRollback()

	rec := doJSON(t, env.router, http.MethodPut, "/api/v1/reviews/rev-1/approve", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, env.db.ExpectationsWereMet())
}

func TestApproveNonPendingReturnsConflict(t *testing.T) {
	env := newTestEnv(t)

	env.db.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	env.db.ExpectQuery("SELECT (.+) FROM reviews\\s+WHERE id = \\$1\\s+FOR UPDATE").
		WithArgs("rev-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "product_id", "user_id", "title", "comment", "rating", "review_date", "photos", "likes", "dislikes", "status", "verified_purchase", "attributes"}).
			AddRow("rev-1", "prod-1", "user-1", "Great", "", 5, time.Now(), []string{}, 0, 0, "approved", false, map[string]float64(nil)))
	env.db.ExpectRollback()

	rec := doJSON(t, env.router, http.MethodPut, "/api/v1/reviews/rev-1/approve", nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetProductSummaryEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.summaries.On("GetByProduct", mock.Anything, "prod-1").Return(&domain.ReviewSummary{
		ProductID:     "prod-1",
		AverageRating: 4.5,
		TotalReviews:  2,
		Distribution:  map[int]int{1: 0, 2: 0, 3: 0, 4: 1, 5: 1},
	}, nil)

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/products/prod-1/reviews/summary", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data domain.ReviewSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4.5, body.Data.AverageRating)
	assert.Equal(t, 2, body.Data.TotalReviews)
}

func TestSetHelpfulnessEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.reviews.On("GetByID", mock.Anything, "rev-1").Return(&domain.Review{ID: "rev-1"}, nil)
	env.reviews.On("SetHelpfulness", mock.Anything, "rev-1", 12, 0).Return(nil)

	rec := doJSON(t, env.router, http.MethodPatch, "/api/v1/reviews/rev-1/helpfulness", map[string]any{"likes": 12})

	assert.Equal(t, http.StatusOK, rec.Code)
	env.reviews.AssertExpectations(t)
}

func TestListProductReviewsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.reviews.On("ListByProduct", mock.Anything, "prod-1", domain.ReviewStatusApproved, 1, 20).
		Return([]domain.Review{{ID: "rev-1", Status: domain.ReviewStatusApproved}}, 1, nil)

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/products/prod-1/reviews?status=approved", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data       []domain.Review `json:"data"`
		TotalCount int             `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 1, body.TotalCount)
}

func TestAddResponseEndpointMissingReview(t *testing.T) {
	env := newTestEnv(t)

	env.reviews.On("GetByID", mock.Anything, "rev-missing").
		Return(nil, apperrors.NotFound("review", "rev-missing"))

	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/reviews/rev-missing/responses", map[string]any{
		"user_id": "seller-1",
		"comment": "Thanks",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
