package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/01moynul/bizdesk/internal/models"
)

const orderColumns = `o.id, o.customer_id, o.status, o.total_amount, o.order_date, o.created_at, o.updated_at`

const orderWithCustomer = `
	SELECT ` + orderColumns + `,
		c.id, c.name, c.email, c.phone, c.address, c.status, c.created_at, c.updated_at
	FROM orders o
	JOIN customers c ON c.id = o.customer_id`

func scanOrderWithCustomer(r rowScanner, o *models.Order) error {
	var c models.Customer
	err := r.Scan(
		&o.ID, &o.CustomerID, &o.Status, &o.TotalAmount, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt,
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	o.Customer = &c
	return nil
}

// InsertOrder persists o and its items. Missing item ids are generated; items keep their slice order.
func (t *Tx) InsertOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	orderQuery := `
		INSERT INTO orders (id, customer_id, status, total_amount, order_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := t.q.ExecContext(ctx, orderQuery, o.ID, o.CustomerID, o.Status, o.TotalAmount, o.OrderDate, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", mapErr(err))
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, line_no, quantity, unit_price)
		VALUES (?, ?, ?, ?, ?, ?)`
	for i := range o.Items {
		it := &o.Items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.OrderID = o.ID
		if _, err := t.q.ExecContext(ctx, itemQuery, it.ID, it.OrderID, it.ProductID, i, it.Quantity, it.UnitPrice); err != nil {
			return fmt.Errorf("insert order item: %w", mapErr(err))
		}
	}
	return nil
}

// LockOrder reads an order with its items (without products) and locks the order row.
func (t *Tx) LockOrder(ctx context.Context, id string) (models.Order, error) {
	var o models.Order
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = ? FOR UPDATE`
	err := t.q.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.CustomerID, &o.Status, &o.TotalAmount, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return models.Order{}, notFound(err, "order", id)
	}

	rows, err := t.q.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY line_no`, id)
	if err != nil {
		return models.Order{}, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	o.Items = []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return models.Order{}, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

// SetOrderStatus changes only status and updated_at.
func (t *Tx) SetOrderStatus(ctx context.Context, id string, status models.OrderStatus, at time.Time) error {
	result, err := t.q.ExecContext(ctx, `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`, status, at, id)
	if err != nil {
		return fmt.Errorf("update order status: %w", mapErr(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetOrder returns an order with its customer and items+product.
func (s queries) GetOrder(ctx context.Context, id string) (models.Order, error) {
	var o models.Order
	if err := scanOrderWithCustomer(s.q.QueryRowContext(ctx, orderWithCustomer+` WHERE o.id = ?`, id), &o); err != nil {
		return models.Order{}, notFound(err, "order", id)
	}

	orders := []models.Order{o}
	if err := s.attachItems(ctx, orders); err != nil {
		return models.Order{}, err
	}
	return orders[0], nil
}

// ListOrders returns every order newest first, each with customer and items+product.
func (s queries) ListOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := s.q.QueryContext(ctx, orderWithCustomer+` ORDER BY o.created_at DESC, o.id`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := scanOrderWithCustomer(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads the items (with products) of every order in one query.
func (s queries) attachItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	index := make(map[string]int, len(orders))
	args := make([]any, 0, len(orders))
	for i := range orders {
		orders[i].Items = []models.OrderItem{}
		index[orders[i].ID] = i
		args = append(args, orders[i].ID)
	}

	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price,
			p.id, p.sku, p.name, p.description, p.price, p.stock, p.created_at, p.updated_at
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id IN (` + placeholders(len(args)) + `)
		ORDER BY oi.order_id, oi.line_no`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.OrderItem
		var p models.Product
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		it.Product = &p
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return rows.Err()
}
