package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/01moynul/bizdesk/internal/database"
	"github.com/01moynul/bizdesk/internal/models"
)

const customerColumns = `id, name, email, phone, address, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(r rowScanner, c *models.Customer) error {
	return r.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Status, &c.CreatedAt, &c.UpdatedAt)
}

// CreateCustomer assigns an id and timestamps to c and inserts it.
func (s queries) CreateCustomer(ctx context.Context, c *models.Customer) error {
	now := s.now()
	c.ID = uuid.NewString()
	if c.Status == "" {
		c.Status = models.CustomerActive
	}
	c.CreatedAt, c.UpdatedAt = now, now

	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.q.ExecContext(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.Address, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert customer: %w", mapErr(err))
	}
	return nil
}

// ListCustomers returns every customer, newest first.
func (s queries) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		var c models.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s queries) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	return s.getCustomer(ctx, id, false)
}

func (s queries) getCustomer(ctx context.Context, id string, lock bool) (models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`
	if lock {
		query += ` FOR UPDATE`
	}
	var c models.Customer
	if err := scanCustomer(s.q.QueryRowContext(ctx, query, id), &c); err != nil {
		return models.Customer{}, notFound(err, "customer", id)
	}
	return c, nil
}

// UpdateCustomer applies patch to the customer inside a transaction and returns the result.
func (s *Store) UpdateCustomer(ctx context.Context, id string, patch models.CustomerPatch) (models.Customer, error) {
	var out models.Customer
	err := s.InTx(ctx, func(tx *Tx) error {
		c, err := tx.getCustomer(ctx, id, true)
		if err != nil {
			return err
		}
		patch.Apply(&c)
		c.UpdatedAt = tx.now()

		query := `
			UPDATE customers
			SET name = ?, email = ?, phone = ?, address = ?, status = ?, updated_at = ?
			WHERE id = ?`
		if _, err := tx.q.ExecContext(ctx, query, c.Name, c.Email, c.Phone, c.Address, c.Status, c.UpdatedAt, c.ID); err != nil {
			return fmt.Errorf("update customer: %w", mapErr(err))
		}
		out = c
		return nil
	})
	return out, err
}

// DeleteCustomer removes a customer. Customers referenced by orders are refused with ErrReferenced.
func (s queries) DeleteCustomer(ctx context.Context, id string) error {
	return deleteByID(ctx, s.q, "customers", "customer", id)
}

func deleteByID(ctx context.Context, q database.Querier, table, what, id string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", what, mapErr(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}
