package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quitanda/ecommerce/pkg/database"
	"github.com/quitanda/ecommerce/services/product/internal/domain"
)

// PriceHistoryRepository implements repository.PriceHistoryRepository using
// PostgreSQL.
type PriceHistoryRepository struct {
	pool database.DBTX
}

// NewPriceHistoryRepository creates a new PostgreSQL-backed price history
// repository.
func NewPriceHistoryRepository(pool database.DBTX) *PriceHistoryRepository {
	return &PriceHistoryRepository{pool: pool}
}

// ListByProduct returns the price changes of a product, newest first.
func (r *PriceHistoryRepository) ListByProduct(ctx context.Context, productID string) ([]domain.PriceChange, error) {
	query := `
		SELECT id, product_id, previous_price, new_price, change_date, reason
		FROM price_history
		WHERE product_id = $1
		ORDER BY change_date DESC`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	defer rows.Close()

	return collectPriceChanges(rows)
}

func collectPriceChanges(rows pgx.Rows) ([]domain.PriceChange, error) {
	changes := make([]domain.PriceChange, 0)
	for rows.Next() {
		var c domain.PriceChange
		if err := rows.Scan(&c.ID, &c.ProductID, &c.PreviousPrice, &c.NewPrice, &c.ChangeDate, &c.Reason); err != nil {
			return nil, fmt.Errorf("scan price change: %w", err)
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price history: %w", err)
	}
	return changes, nil
}
