package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/01moynul/bizdesk/internal/models"
)

// ErrStockExhausted is returned by AdjustStock when a decrement would drive stock negative.
var ErrStockExhausted = errors.New("stock exhausted")

const productColumns = `id, sku, name, description, price, stock, created_at, updated_at`

func scanProduct(r rowScanner, p *models.Product) error {
	return r.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
}

// CreateProduct assigns an id and timestamps to p and inserts it.
func (s queries) CreateProduct(ctx context.Context, p *models.Product) error {
	now := s.now()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.q.ExecContext(ctx, query, p.ID, p.SKU, p.Name, p.Description, p.Price, p.Stock, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", mapErr(err))
	}
	return nil
}

// ListProducts returns every product, newest first.
func (s queries) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s queries) GetProduct(ctx context.Context, id string) (models.Product, error) {
	return s.getProduct(ctx, id, false)
}

// LockProduct reads a product and holds its row lock until the transaction ends.
func (t *Tx) LockProduct(ctx context.Context, id string) (models.Product, error) {
	return t.getProduct(ctx, id, true)
}

func (s queries) getProduct(ctx context.Context, id string, lock bool) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	if lock {
		query += ` FOR UPDATE`
	}
	var p models.Product
	if err := scanProduct(s.q.QueryRowContext(ctx, query, id), &p); err != nil {
		return models.Product{}, notFound(err, "product", id)
	}
	return p, nil
}

// AdjustStock adds delta (negative to decrement) to a product's stock.
// The guard in the WHERE clause keeps stock from going negative even without a prior lock.
func (t *Tx) AdjustStock(ctx context.Context, productID string, delta int, at time.Time) error {
	query := `
		UPDATE products
		SET stock = stock + ?, updated_at = ?
		WHERE id = ? AND stock + ? >= 0`
	result, err := t.q.ExecContext(ctx, query, delta, at, productID, delta)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", mapErr(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrStockExhausted)
	}
	return nil
}

// UpdateProduct applies patch to the product inside a transaction and returns the result.
// Existing order items keep their unit price snapshot.
func (s *Store) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	var out models.Product
	err := s.InTx(ctx, func(tx *Tx) error {
		p, err := tx.LockProduct(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(&p)
		p.UpdatedAt = tx.now()

		query := `
			UPDATE products
			SET sku = ?, name = ?, description = ?, price = ?, stock = ?, updated_at = ?
			WHERE id = ?`
		if _, err := tx.q.ExecContext(ctx, query, p.SKU, p.Name, p.Description, p.Price, p.Stock, p.UpdatedAt, p.ID); err != nil {
			return fmt.Errorf("update product: %w", mapErr(err))
		}
		out = p
		return nil
	})
	return out, err
}

// DeleteProduct removes a product. Products referenced by order items are refused with ErrReferenced.
func (s queries) DeleteProduct(ctx context.Context, id string) error {
	return deleteByID(ctx, s.q, "products", "product", id)
}
