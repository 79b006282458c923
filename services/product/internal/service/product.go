// Package service implements the product business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quitanda/ecommerce/pkg/database"
	apperrors "github.com/quitanda/ecommerce/pkg/errors"
	"github.com/quitanda/ecommerce/services/product/internal/domain"
	"github.com/quitanda/ecommerce/services/product/internal/event"
	"github.com/quitanda/ecommerce/services/product/internal/repository"
)

const initialPriceReason = "initial price"

// ProductService implements the business logic for product operations.
// Price changes and their history entries are written in one transaction so
// the log always matches the product's current price.
type ProductService struct {
	repo     repository.ProductRepository
	history  repository.PriceHistoryRepository
	pool     database.Pool
	producer *event.Producer
	logger   *slog.Logger
}

// NewProductService creates a new product service. producer may be nil.
func NewProductService(
	repo repository.ProductRepository,
	history repository.PriceHistoryRepository,
	pool database.Pool,
	producer *event.Producer,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		repo:     repo,
		history:  history,
		pool:     pool,
		producer: producer,
		logger:   logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	CategoryID  string
	SupplierID  string
	Features    map[string]any
	Images      []string
	SKU         string
}

// UpdateProductInput holds the parameters for a partial product update.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	PriceReason string
	Stock       *int
	CategoryID  *string
	SupplierID  *string
	Features    map[string]any
	Images      []string
	Status      *string
	SKU         *string
}

// Create validates and stores a new product, recording the initial price in
// the history log within the same transaction.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.Stock < 0 {
		return nil, apperrors.InvalidInput("stock must not be negative")
	}
	if input.CategoryID == "" {
		return nil, apperrors.InvalidInput("category_id is required")
	}
	if input.SupplierID == "" {
		return nil, apperrors.InvalidInput("supplier_id is required")
	}
	if input.SKU == "" {
		return nil, apperrors.InvalidInput("sku is required")
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
		SupplierID:  input.SupplierID,
		Features:    input.Features,
		Images:      input.Images,
		Status:      domain.ProductStatusActive,
		SKU:         input.SKU,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Images == nil {
		product.Images = []string{}
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin create product tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insertQuery := `
		INSERT INTO products (id, name, description, price, stock, category_id, supplier_id, features, images, status, sku, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = tx.Exec(ctx, insertQuery,
		product.ID, product.Name, product.Description, product.Price, product.Stock,
		product.CategoryID, product.SupplierID, product.Features, product.Images,
		string(product.Status), product.SKU, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("product", "sku", product.SKU)
		}
		return nil, fmt.Errorf("insert product: %w", err)
	}

	historyQuery := `
		INSERT INTO price_history (product_id, previous_price, new_price, change_date, reason)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.Exec(ctx, historyQuery, product.ID, 0.0, product.Price, now, initialPriceReason); err != nil {
		return nil, fmt.Errorf("insert initial price history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create product tx: %w", err)
	}

	if s.producer != nil {
		if err := s.producer.PublishProductCreated(ctx, product); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish product.created event",
				slog.String("product_id", product.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("sku", product.SKU),
	)

	return product, nil
}

// GetByID retrieves a product by its ID.
func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a filtered, paginated product listing.
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}
	if filter.Status != nil && !domain.IsValidProductStatus(domain.ProductStatus(*filter.Status)) {
		return nil, 0, apperrors.InvalidInput("invalid product status: " + *filter.Status)
	}

	return s.repo.List(ctx, filter)
}

// Update applies partial updates to an existing product. A price change is
// routed through the transactional price path so the history stays
// consistent; all other fields go through a plain update.
func (s *ProductService) Update(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("product name must not be empty")
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperrors.InvalidInput("stock must not be negative")
		}
		product.Stock = *input.Stock
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.SupplierID != nil {
		product.SupplierID = *input.SupplierID
	}
	if input.Features != nil {
		product.Features = input.Features
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.Status != nil {
		status := domain.ProductStatus(*input.Status)
		if !domain.IsValidProductStatus(status) {
			return nil, apperrors.InvalidInput("invalid product status: " + *input.Status)
		}
		product.Status = status
	}
	if input.SKU != nil {
		if *input.SKU == "" {
			return nil, apperrors.InvalidInput("sku must not be empty")
		}
		product.SKU = *input.SKU
	}

	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if input.Price != nil {
		updated, err := s.UpdatePrice(ctx, id, *input.Price, input.PriceReason)
		if err != nil {
			return nil, err
		}
		product.Price = updated.Price
	}

	if s.producer != nil {
		if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish product.updated event",
				slog.String("product_id", product.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return product, nil
}

// UpdateStock sets the absolute stock level of a product.
func (s *ProductService) UpdateStock(ctx context.Context, id string, stock int) (*domain.Product, error) {
	if stock < 0 {
		return nil, apperrors.InvalidInput("stock must not be negative")
	}

	if err := s.repo.UpdateStock(ctx, id, stock); err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product after stock update: %w", err)
	}

	if s.producer != nil {
		if err := s.producer.PublishProductStockUpdated(ctx, product); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish product.stock_updated event",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	return product, nil
}

// UpdatePrice sets a new price and appends a history entry in the same
// transaction. Setting the current price again is a no-op that records
// nothing.
func (s *ProductService) UpdatePrice(ctx context.Context, id string, newPrice float64, reason string) (*domain.Product, error) {
	if newPrice < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin price update tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var currentPrice float64
	err = tx.QueryRow(ctx, `SELECT price FROM products WHERE id = $1 FOR UPDATE`, id).Scan(&currentPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("lock product for price update: %w", err)
	}

	var change *domain.PriceChange
	if currentPrice != newPrice {
		now := time.Now().UTC()
		if _, err := tx.Exec(ctx, `UPDATE products SET price = $2, updated_at = $3 WHERE id = $1`, id, newPrice, now); err != nil {
			return nil, fmt.Errorf("update product price: %w", err)
		}

		historyQuery := `
			INSERT INTO price_history (product_id, previous_price, new_price, change_date, reason)
			VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.Exec(ctx, historyQuery, id, currentPrice, newPrice, now, reason); err != nil {
			return nil, fmt.Errorf("insert price history: %w", err)
		}

		change = &domain.PriceChange{
			ProductID:     id,
			PreviousPrice: currentPrice,
			NewPrice:      newPrice,
			ChangeDate:    now,
			Reason:        reason,
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit price update tx: %w", err)
	}

	if change != nil {
		s.logger.InfoContext(ctx, "product price changed",
			slog.String("product_id", id),
			slog.Float64("previous_price", change.PreviousPrice),
			slog.Float64("new_price", change.NewPrice),
		)

		if s.producer != nil {
			if err := s.producer.PublishPriceChanged(ctx, change); err != nil {
				s.logger.ErrorContext(ctx, "failed to publish product.price_changed event",
					slog.String("product_id", id),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product after price update: %w", err)
	}

	return product, nil
}

// PriceHistory returns the price changes of a product, newest first.
func (s *ProductService) PriceHistory(ctx context.Context, id string) ([]domain.PriceChange, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return s.history.ListByProduct(ctx, id)
}

// Delete removes a product. Price history rows cascade with it.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if s.producer != nil {
		if err := s.producer.PublishProductDeleted(ctx, product); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
