package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quitanda/ecommerce/pkg/database"
	apperrors "github.com/quitanda/ecommerce/pkg/errors"
	"github.com/quitanda/ecommerce/services/supplier/internal/domain"
)

// ContactRepository implements repository.ContactRepository using PostgreSQL.
type ContactRepository struct {
	pool database.DBTX
}

// NewContactRepository creates a new PostgreSQL-backed contact repository.
func NewContactRepository(pool database.DBTX) *ContactRepository {
	return &ContactRepository{pool: pool}
}

const contactColumns = `id, supplier_id, name, position, email, phone, department, is_primary`

// Create inserts a new supplier contact.
func (r *ContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	query := `
		INSERT INTO supplier_contacts (id, supplier_id, name, position, email, phone, department, is_primary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.SupplierID,
		c.Name,
		c.Position,
		c.Email,
		c.Phone,
		c.Department,
		c.IsPrimary,
	)
	if err != nil {
		return fmt.Errorf("create supplier contact: %w", err)
	}

	return nil
}

// GetByID retrieves a contact by its unique identifier.
func (r *ContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM supplier_contacts WHERE id = $1`

	contact, err := scanContact(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("contact", id)
		}
		return nil, fmt.Errorf("get contact by id: %w", err)
	}

	return contact, nil
}

// ListBySupplier returns all contacts of a supplier, primary first.
func (r *ContactRepository) ListBySupplier(ctx context.Context, supplierID string) ([]domain.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM supplier_contacts
		WHERE supplier_id = $1
		ORDER BY is_primary DESC, name`

	rows, err := r.pool.Query(ctx, query, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list supplier contacts: %w", err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

// Update persists all mutable fields of a contact.
func (r *ContactRepository) Update(ctx context.Context, c *domain.Contact) error {
	query := `
		UPDATE supplier_contacts
		SET name = $2, position = $3, email = $4, phone = $5, department = $6, is_primary = $7
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Position,
		c.Email,
		c.Phone,
		c.Department,
		c.IsPrimary,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("contact", c.ID)
	}

	return nil
}

// Delete removes a contact.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM supplier_contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("contact", id)
	}

	return nil
}

// ClearPrimary demotes the current primary contact of a supplier, if any.
func (r *ContactRepository) ClearPrimary(ctx context.Context, supplierID string) error {
	query := `UPDATE supplier_contacts SET is_primary = FALSE WHERE supplier_id = $1 AND is_primary = TRUE`

	if _, err := r.pool.Exec(ctx, query, supplierID); err != nil {
		return fmt.Errorf("clear primary contact: %w", err)
	}

	return nil
}

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(
		&c.ID,
		&c.SupplierID,
		&c.Name,
		&c.Position,
		&c.Email,
		&c.Phone,
		&c.Department,
		&c.IsPrimary,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectContacts(rows pgx.Rows) ([]domain.Contact, error) {
	contacts := make([]domain.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}
