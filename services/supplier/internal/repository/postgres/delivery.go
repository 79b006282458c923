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

// DeliveryRepository implements repository.DeliveryRepository using PostgreSQL.
type DeliveryRepository struct {
	pool database.DBTX
}

// NewDeliveryRepository creates a new PostgreSQL-backed delivery repository.
func NewDeliveryRepository(pool database.DBTX) *DeliveryRepository {
	return &DeliveryRepository{pool: pool}
}

const deliveryColumns = `id, supplier_id, delivery_date, products, status, invoice_number, notes, created_at, updated_at`

// Create inserts a new supplier delivery.
func (r *DeliveryRepository) Create(ctx context.Context, d *domain.Delivery) error {
	query := `
		INSERT INTO supplier_deliveries (id, supplier_id, delivery_date, products, status, invoice_number, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		d.ID,
		d.SupplierID,
		d.DeliveryDate,
		d.Products,
		string(d.Status),
		d.InvoiceNumber,
		d.Notes,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create supplier delivery: %w", err)
	}

	return nil
}

// GetByID retrieves a delivery by its unique identifier.
func (r *DeliveryRepository) GetByID(ctx context.Context, id string) (*domain.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM supplier_deliveries WHERE id = $1`

	delivery, err := scanDelivery(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("delivery", id)
		}
		return nil, fmt.Errorf("get delivery by id: %w", err)
	}

	return delivery, nil
}

// ListBySupplier returns all deliveries of a supplier, most recent first.
func (r *DeliveryRepository) ListBySupplier(ctx context.Context, supplierID string) ([]domain.Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `
		FROM supplier_deliveries
		WHERE supplier_id = $1
		ORDER BY delivery_date DESC`

	rows, err := r.pool.Query(ctx, query, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list supplier deliveries: %w", err)
	}
	defer rows.Close()

	return collectDeliveries(rows)
}

// Update persists all mutable fields of a delivery.
func (r *DeliveryRepository) Update(ctx context.Context, d *domain.Delivery) error {
	query := `
		UPDATE supplier_deliveries
		SET delivery_date = $2, products = $3, status = $4, invoice_number = $5, notes = $6, updated_at = $7
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		d.ID,
		d.DeliveryDate,
		d.Products,
		string(d.Status),
		d.InvoiceNumber,
		d.Notes,
		d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("delivery", d.ID)
	}

	return nil
}

func scanDelivery(row pgx.Row) (*domain.Delivery, error) {
	var d domain.Delivery
	err := row.Scan(
		&d.ID,
		&d.SupplierID,
		&d.DeliveryDate,
		&d.Products,
		&d.Status,
		&d.InvoiceNumber,
		&d.Notes,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDeliveries(rows pgx.Rows) ([]domain.Delivery, error) {
	deliveries := make([]domain.Delivery, 0)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		deliveries = append(deliveries, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deliveries: %w", err)
	}
	return deliveries, nil
}
