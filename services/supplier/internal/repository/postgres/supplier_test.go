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
	"github.com/quitanda/ecommerce/services/supplier/internal/domain"
)

var supplierCols = []string{"id", "legal_name", "trading_name", "tax_id", "email", "phone", "address", "status", "representative", "payment_terms", "registration_date", "update_date"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock
}

func supplierRow(id, legalName, taxID string) []any {
	now := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	return []any{
		id, legalName, "", taxID, "contact@example.test", "+55 11 4000-0000",
		map[string]any{"city": "Sao Paulo"}, "active", "", "", now, now,
	}
}

func TestSupplierRepositoryCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewSupplierRepository(mock)

	now := time.Now().UTC()
	supplier := &domain.Supplier{
		ID:               "sup-1",
		LegalName:        "Acme Fresh Produce Ltd",
		TaxID:            "12.345.678/0001-90",
		Email:            "contact@acmefresh.example",
		Phone:            "+55 11 4000-1234",
		Address:          map[string]any{"city": "Sao Paulo"},
		Status:           domain.SupplierStatusActive,
		RegistrationDate: now,
		UpdateDate:       now,
	}

	mock.ExpectExec("INSERT INTO suppliers").
		WithArgs(supplier.ID, supplier.LegalName, "", supplier.TaxID, supplier.Email,
			supplier.Phone, supplier.Address, "active", "", "", now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), supplier)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSupplierRepositoryCreateDuplicateTaxID(t *testing.T) {
	mock := newMock(t)
	repo := NewSupplierRepository(mock)

	supplier := &domain.Supplier{ID: "sup-1", LegalName: "Acme", TaxID: "12.345.678/0001-90", Status: domain.SupplierStatusActive}

	mock.ExpectExec("INSERT INTO suppliers").
		WithArgs(supplier.ID, supplier.LegalName, "", supplier.TaxID, "", "",
			supplier.Address, "active", "", "", supplier.RegistrationDate, supplier.UpdateDate).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "suppliers_tax_id_key" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), supplier)

	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSupplierRepositoryGetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewSupplierRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM suppliers WHERE id").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	supplier, err := repo.GetByID(context.Background(), "ghost")

	assert.Nil(t, supplier)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSupplierRepositoryListByStatus(t *testing.T) {
	mock := newMock(t)
	repo := NewSupplierRepository(mock)

	rows := pgxmock.NewRows(supplierCols).
		AddRow(supplierRow("sup-1", "Acme Fresh", "111")...).
		AddRow(supplierRow("sup-2", "Verde Farms", "222")...)

	mock.ExpectQuery("SELECT (.+) FROM suppliers WHERE status").
		WithArgs("active").
		WillReturnRows(rows)

	suppliers, err := repo.ListByStatus(context.Background(), domain.SupplierStatusActive)

	require.NoError(t, err)
	require.Len(t, suppliers, 2)
	assert.Equal(t, "Acme Fresh", suppliers[0].LegalName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSupplierRepositoryUpdateNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewSupplierRepository(mock)

	supplier := &domain.Supplier{ID: "ghost", LegalName: "Acme", Status: domain.SupplierStatusActive}

	mock.ExpectExec("UPDATE suppliers").
		WithArgs(supplier.ID, supplier.LegalName, "", "", "", "",
			supplier.Address, "active", "", "", supplier.UpdateDate).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), supplier)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSupplierRepositoryDelete(t *testing.T) {
	mock := newMock(t)
	repo := NewSupplierRepository(mock)

	mock.ExpectExec("DELETE FROM suppliers").
		WithArgs("sup-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "sup-1")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepositoryClearPrimary(t *testing.T) {
	mock := newMock(t)
	repo := NewContactRepository(mock)

	mock.ExpectExec("UPDATE supplier_contacts SET is_primary = FALSE").
		WithArgs("sup-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.ClearPrimary(context.Background(), "sup-1")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepositoryListBySupplier(t *testing.T) {
	mock := newMock(t)
	repo := NewContactRepository(mock)

	cols := []string{"id", "supplier_id", "name", "position", "email", "phone", "department", "is_primary"}
	rows := pgxmock.NewRows(cols).
		AddRow("con-1", "sup-1", "Maria Silva", "", "maria@example.test", "+55 11 98888-0000", "", true).
		AddRow("con-2", "sup-1", "Jo Costa", "", "jo@example.test", "+55 11 97777-0000", "", false)

	mock.ExpectQuery("SELECT (.+) FROM supplier_contacts").
		WithArgs("sup-1").
		WillReturnRows(rows)

	contacts, err := repo.ListBySupplier(context.Background(), "sup-1")

	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.True(t, contacts[0].IsPrimary)
}

func TestDeliveryRepositoryGetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewDeliveryRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM supplier_deliveries WHERE id").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	delivery, err := repo.GetByID(context.Background(), "ghost")

	assert.Nil(t, delivery)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeliveryRepositoryListBySupplier(t *testing.T) {
	mock := newMock(t)
	repo := NewDeliveryRepository(mock)

	now := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	cols := []string{"id", "supplier_id", "delivery_date", "products", "status", "invoice_number", "notes", "created_at", "updated_at"}
	rows := pgxmock.NewRows(cols).
		AddRow("del-2", "sup-1", now.Add(24*time.Hour), []any{map[string]any{"product_id": "prod-1"}}, "scheduled", "", "", now, now).
		AddRow("del-1", "sup-1", now, []any{map[string]any{"product_id": "prod-2"}}, "delivered", "NF-100", "", now, now)

	mock.ExpectQuery("SELECT (.+) FROM supplier_deliveries").
		WithArgs("sup-1").
		WillReturnRows(rows)

	deliveries, err := repo.ListBySupplier(context.Background(), "sup-1")

	require.NoError(t, err)
	require.Len(t, deliveries, 2)
	assert.Equal(t, domain.DeliveryStatusScheduled, deliveries[0].Status)
	assert.Equal(t, "NF-100", deliveries[1].InvoiceNumber)
}
