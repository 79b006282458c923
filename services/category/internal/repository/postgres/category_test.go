package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/quitanda/ecommerce/pkg/errors"
	"github.com/quitanda/ecommerce/services/category/internal/domain"
)

var categoryCols = []string{"id", "name", "description", "image_url", "parent_id", "level", "status", "display_order", "attributes", "url_slug", "created_at", "updated_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock
}

func categoryRow(id, name, slug string, parentID *string, level int) []any {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return []any{
		id, name, "", "", parentID, level, "active", 0,
		map[string]any(nil), slug, now, now,
	}
}

func TestCategoryRepositoryCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewCategoryRepository(mock)

	category := &domain.Category{
		ID:        "cat-1",
		Name:      "Electronics",
		Level:     1,
		Status:    domain.CategoryStatusActive,
		URLSlug:   "electronics",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO categories").
		WithArgs(category.ID, category.Name, "", "", (*string)(nil), 1, "active", 0,
			category.Attributes, "electronics", category.CreatedAt, category.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), category)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryCreateDuplicateSlug(t *testing.T) {
	mock := newMock(t)
	repo := NewCategoryRepository(mock)

	category := &domain.Category{ID: "cat-1", Name: "Electronics", Level: 1, Status: domain.CategoryStatusActive, URLSlug: "electronics"}

	mock.ExpectExec("INSERT INTO categories").
		WithArgs(category.ID, category.Name, "", "", (*string)(nil), 1, "active", 0,
			category.Attributes, "electronics", category.CreatedAt, category.UpdatedAt).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "categories_url_slug_key" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), category)

	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryGetByID(t *testing.T) {
	mock := newMock(t)
	repo := NewCategoryRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM categories WHERE id = \\$1").
		WithArgs("cat-1").
		WillReturnRows(pgxmock.NewRows(categoryCols).AddRow(categoryRow("cat-1", "Electronics", "electronics", nil, 1)...))

	category, err := repo.GetByID(context.Background(), "cat-1")

	require.NoError(t, err)
	assert.Equal(t, "Electronics", category.Name)
	assert.Equal(t, 1, category.Level)
	assert.Nil(t, category.ParentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryGetBySlugNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewCategoryRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM categories WHERE url_slug = \\$1").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	category, err := repo.GetBySlug(context.Background(), "ghost")

	assert.Nil(t, category)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryListByParent(t *testing.T) {
	mock := newMock(t)
	repo := NewCategoryRepository(mock)

	parentID := "cat-1"
	mock.ExpectQuery("SELECT (.+) FROM categories WHERE parent_id = \\$1").
		WithArgs("cat-1").
		WillReturnRows(pgxmock.NewRows(categoryCols).
			AddRow(categoryRow("cat-2", "Audio", "audio", &parentID, 2)...).
			AddRow(categoryRow("cat-3", "Video", "video", &parentID, 2)...))

	children, err := repo.ListByParent(context.Background(), "cat-1")

	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "Audio", children[0].Name)
	assert.Equal(t, 2, children[1].Level)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryUpdateMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewCategoryRepository(mock)

	category := &domain.Category{ID: "ghost", Name: "Ghost", Level: 1, Status: domain.CategoryStatusActive, URLSlug: "ghost"}

	mock.ExpectExec("UPDATE categories").
		WithArgs(category.ID, category.Name, "", "", (*string)(nil), 1, "active", 0,
			category.Attributes, "ghost", category.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), category)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryDelete(t *testing.T) {
	mock := newMock(t)
	repo := NewCategoryRepository(mock)

	mock.ExpectExec("DELETE FROM categories WHERE id = \\$1").
		WithArgs("cat-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "cat-1")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryCountChildren(t *testing.T) {
	mock := newMock(t)
	repo := NewCategoryRepository(mock)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM categories WHERE parent_id = \\$1").
		WithArgs("cat-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountChildren(context.Background(), "cat-1")

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
