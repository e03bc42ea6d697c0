package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/iyhunko/product-catalog/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	getProductQuery = `SELECT id, name, description, price_amount, price_currency, stock_quantity, is_active, created_at, updated_at
	          FROM products WHERE id = $1`

	insertProductQuery = `INSERT INTO products (name, description, price_amount, price_currency, stock_quantity, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	updateProductQuery = `UPDATE products
	          SET name = $1, description = $2, price_amount = $3, price_currency = $4, stock_quantity = $5, is_active = $6, updated_at = $7
	          WHERE id = $8`

	deleteProductQuery = `DELETE FROM products WHERE id = $1`

	productExistsQuery = `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`
)

var productColumns = []string{
	"id", "name", "description", "price_amount", "price_currency",
	"stock_quantity", "is_active", "created_at", "updated_at",
}

// ProductRepository implements domain.ProductRepository on PostgreSQL.
// Identity comes from the products id column, which counts up and never
// hands out a value twice.
type ProductRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *ProductRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// GetByID returns the product with the given identity. Inside a transaction
// the row is locked until the transaction ends.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := getProductQuery
	if r.txn != nil {
		query += " FOR UPDATE"
	}

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	product, err := scanProduct(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return product, nil
}

// GetAll returns every product in insertion order.
func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	return r.list(ctx, nil)
}

// GetActive returns the active products in insertion order.
func (r *ProductRepository) GetActive(ctx context.Context) ([]*domain.Product, error) {
	return r.list(ctx, sq.Eq{"is_active": true})
}

// GetLowStock returns active products at or below threshold, including those
// with no stock left.
func (r *ProductRepository) GetLowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	return r.list(ctx, sq.And{
		sq.Eq{"is_active": true},
		sq.LtOrEq{"stock_quantity": threshold},
	})
}

// SearchByName returns active products whose name contains the term,
// compared case-insensitively.
func (r *ProductRepository) SearchByName(ctx context.Context, name string) ([]*domain.Product, error) {
	pattern := "%" + escapeLikeTerm(name) + "%"
	return r.list(ctx, sq.And{
		sq.Eq{"is_active": true},
		sq.ILike{"name": pattern},
	})
}

// Add stores a new product and returns it with the identity the database
// assigned.
func (r *ProductRepository) Add(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	stmt, err := r.getExecutor().PrepareContext(ctx, insertProductQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	var id int64
	err = stmt.QueryRowContext(ctx,
		product.Name(),
		product.Description(),
		product.Price().Amount(),
		product.Price().Currency(),
		product.StockQuantity(),
		product.IsActive(),
		product.CreatedAt(),
		product.UpdatedAt(),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	return domain.RestoreProduct(
		id,
		product.Name(),
		product.Description(),
		product.Price(),
		product.StockQuantity(),
		product.IsActive(),
		product.CreatedAt(),
		product.UpdatedAt(),
	), nil
}

// Update replaces the stored product carrying the same identity.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	stmt, err := r.getExecutor().PrepareContext(ctx, updateProductQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		product.Name(),
		product.Description(),
		product.Price().Amount(),
		product.Price().Currency(),
		product.StockQuantity(),
		product.IsActive(),
		product.UpdatedAt(),
		product.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete removes the product with the given identity. Deleting an absent
// identity is a no-op.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	stmt, err := r.getExecutor().PrepareContext(ctx, deleteProductQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

// Exists reports whether a product with the given identity is stored.
func (r *ProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	stmt, err := r.getExecutor().PrepareContext(ctx, productExistsQuery)
	if err != nil {
		return false, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var exists bool
	if err := stmt.QueryRowContext(ctx, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to query product existence: %w", err)
	}

	return exists, nil
}

// list runs one filtered select over the products table, ordered by
// ascending identity, which is insertion order.
func (r *ProductRepository) list(ctx context.Context, pred any, args ...any) ([]*domain.Product, error) {
	builder := sq.Select(productColumns...).
		From("products").
		OrderBy("id ASC").
		PlaceholderFormat(sq.Dollar)
	if pred != nil {
		builder = builder.Where(pred, args...)
	}

	query, queryArgs, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		id            int64
		name          string
		description   string
		priceAmount   decimal.Decimal
		priceCurrency string
		stockQuantity int
		isActive      bool
		createdAt     time.Time
		updatedAt     sql.NullTime
	)
	if err := row.Scan(&id, &name, &description, &priceAmount, &priceCurrency, &stockQuantity, &isActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	price, err := domain.NewMoney(priceAmount, priceCurrency)
	if err != nil {
		return nil, fmt.Errorf("stored price is invalid: %w", err)
	}

	var updated *time.Time
	if updatedAt.Valid {
		updated = &updatedAt.Time
	}

	return domain.RestoreProduct(id, name, description, price, stockQuantity, isActive, createdAt, updated), nil
}

// escapeLikeTerm neutralizes LIKE wildcards in a user-supplied search term.
func escapeLikeTerm(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}
