package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ekurmanov/product-catalog/internal/logger"
	"github.com/ekurmanov/product-catalog/internal/models"
)

// ErrProductNameConflict is returned when an insert or update hits the
// unique constraint on the product name. Concurrent creates of the same
// name race on this constraint; exactly one wins.
var ErrProductNameConflict = errors.New("product name already exists")

// ProductReadRepository handles product read operations
type ProductReadRepository struct {
	db *sqlx.DB
}

func NewProductReadRepository(db *sqlx.DB) *ProductReadRepository {
	return &ProductReadRepository{db: db}
}

// GetByID returns the product with the given id, or (nil, nil) when absent.
func (r *ProductReadRepository) GetByID(ctx context.Context, productID uuid.UUID) (*models.ProductDB, error) {
	const query = `
		SELECT product_id, name, description, price, created_by, created_at
		FROM products
		WHERE product_id = $1
	`

	var product models.ProductDB
	err := r.db.GetContext(ctx, &product, query, productID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{productID},
		"error", err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &product, nil
}

// GetByName returns the product with the given name, or (nil, nil) when absent.
func (r *ProductReadRepository) GetByName(ctx context.Context, name string) (*models.ProductDB, error) {
	const query = `
		SELECT product_id, name, description, price, created_by, created_at
		FROM products
		WHERE name = $1
	`

	var product models.ProductDB
	err := r.db.GetContext(ctx, &product, query, name)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{name},
		"error", err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &product, nil
}

// List returns a page of products ordered by creation time, newest first.
func (r *ProductReadRepository) List(ctx context.Context, limit, offset int) ([]models.ProductDB, error) {
	const query = `
		SELECT product_id, name, description, price, created_by, created_at
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var products []models.ProductDB
	err := r.db.SelectContext(ctx, &products, query, limit, offset)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{limit, offset},
		"result", len(products),
		"error", err,
	)

	return products, err
}

// Count returns the total number of products.
func (r *ProductReadRepository) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM products`

	var count int64
	err := r.db.GetContext(ctx, &count, query)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"result", count,
		"error", err,
	)

	return count, err
}

// ProductWriteRepository handles product write operations
type ProductWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewProductWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *ProductWriteRepository {
	return &ProductWriteRepository{db: db, txGetter: txGetter}
}

func (r *ProductWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new product row with a generated id and returns it.
func (r *ProductWriteRepository) Save(ctx context.Context, name string, description *string, price float64, createdBy uuid.UUID) (*models.ProductDB, error) {
	const query = `
		INSERT INTO products (product_id, name, description, price, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING product_id, name, description, price, created_by, created_at
	`
	args := []any{uuid.New(), name, description, price, createdBy}

	var product models.ProductDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &product, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrProductNameConflict
		}
		return nil, err
	}

	return &product, nil
}

// Update replaces the mutable fields of a product row and returns the new
// row. Returns (nil, nil) when the row does not exist.
func (r *ProductWriteRepository) Update(ctx context.Context, productID uuid.UUID, name string, description *string, price float64) (*models.ProductDB, error) {
	const query = `
		UPDATE products
		SET name = $2, description = $3, price = $4
		WHERE product_id = $1
		RETURNING product_id, name, description, price, created_by, created_at
	`
	args := []any{productID, name, description, price}

	var product models.ProductDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &product, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, ErrProductNameConflict
		}
		return nil, err
	}

	return &product, nil
}

// Delete removes a product row.
func (r *ProductWriteRepository) Delete(ctx context.Context, productID uuid.UUID) error {
	const query = `DELETE FROM products WHERE product_id = $1`

	var rowsAffected int64
	res, err := r.executor(ctx).ExecContext(ctx, query, productID)
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{productID},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
