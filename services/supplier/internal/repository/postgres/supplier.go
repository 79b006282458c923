// Package postgres provides the PostgreSQL implementation of the supplier
// repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/quitanda/ecommerce/pkg/database"
	apperrors "github.com/quitanda/ecommerce/pkg/errors"
	"github.com/quitanda/ecommerce/services/supplier/internal/domain"
)

// SupplierRepository implements repository.SupplierRepository using PostgreSQL.
type SupplierRepository struct {
	pool database.DBTX
}

// NewSupplierRepository creates a new PostgreSQL-backed supplier repository.
func NewSupplierRepository(pool database.DBTX) *SupplierRepository {
	return &SupplierRepository{pool: pool}
}

const supplierColumns = `id, legal_name, trading_name, tax_id, email, phone, address, status, representative, payment_terms, registration_date, update_date`

// Create inserts a new supplier.
func (r *SupplierRepository) Create(ctx context.Context, s *domain.Supplier) error {
	query := `
		INSERT INTO suppliers (id, legal_name, trading_name, tax_id, email, phone, address, status, representative, payment_terms, registration_date, update_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.LegalName,
		s.TradingName,
		s.TaxID,
		s.Email,
		s.Phone,
		s.Address,
		string(s.Status),
		s.Representative,
		s.PaymentTerms,
		s.RegistrationDate,
		s.UpdateDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("supplier", "tax_id", s.TaxID)
		}
		return fmt.Errorf("create supplier: %w", err)
	}

	return nil
}

// GetByID retrieves a supplier by its unique identifier.
func (r *SupplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`

	supplier, err := scanSupplier(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("supplier", id)
		}
		return nil, fmt.Errorf("get supplier by id: %w", err)
	}

	return supplier, nil
}

// List returns all suppliers ordered by legal name.
func (r *SupplierRepository) List(ctx context.Context) ([]domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY legal_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	return collectSuppliers(rows)
}

// ListByStatus returns suppliers with the given status ordered by legal name.
func (r *SupplierRepository) ListByStatus(ctx context.Context, status domain.SupplierStatus) ([]domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE status = $1 ORDER BY legal_name`

	rows, err := r.pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("list suppliers by status: %w", err)
	}
	defer rows.Close()

	return collectSuppliers(rows)
}

// Update persists all mutable fields of a supplier.
func (r *SupplierRepository) Update(ctx context.Context, s *domain.Supplier) error {
	query := `
		UPDATE suppliers
		SET legal_name = $2, trading_name = $3, tax_id = $4, email = $5, phone = $6,
		    address = $7, status = $8, representative = $9, payment_terms = $10, update_date = $11
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		s.ID,
		s.LegalName,
		s.TradingName,
		s.TaxID,
		s.Email,
		s.Phone,
		s.Address,
		string(s.Status),
		s.Representative,
		s.PaymentTerms,
		s.UpdateDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("supplier", "tax_id", s.TaxID)
		}
		return fmt.Errorf("update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("supplier", s.ID)
	}

	return nil
}

// Delete removes a supplier. Contacts and deliveries are removed by the
// ON DELETE CASCADE constraints.
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("supplier", id)
	}

	return nil
}

func scanSupplier(row pgx.Row) (*domain.Supplier, error) {
	var s domain.Supplier
	err := row.Scan(
		&s.ID,
		&s.LegalName,
		&s.TradingName,
		&s.TaxID,
		&s.Email,
		&s.Phone,
		&s.Address,
		&s.Status,
		&s.Representative,
		&s.PaymentTerms,
		&s.RegistrationDate,
		&s.UpdateDate,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectSuppliers(rows pgx.Rows) ([]domain.Supplier, error) {
	suppliers := make([]domain.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suppliers: %w", err)
	}
	return suppliers, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
