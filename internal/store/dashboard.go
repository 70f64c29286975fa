package store

import (
	"context"
	"fmt"
	"time"

	"github.com/01moynul/bizdesk/internal/models"
)

// Reporting reads go through the read-only pool. They are not run in a shared
// transaction, so each aggregate may observe a different snapshot.

// DashboardStats counts entities and sums completed revenue, all-time and since monthStart.
func (s *Store) DashboardStats(ctx context.Context, monthStart time.Time) (models.DashboardStats, error) {
	var stats models.DashboardStats
	q := s.ro.q

	counts := []struct {
		what  string
		query string
		args  []any
		dest  *int
	}{
		{"customers", "SELECT COUNT(*) FROM customers", nil, &stats.TotalClients},
		{"active customers", "SELECT COUNT(*) FROM customers WHERE status = ?", []any{models.CustomerActive}, &stats.ActiveClients},
		{"products", "SELECT COUNT(*) FROM products", nil, &stats.TotalProducts},
		{"orders", "SELECT COUNT(*) FROM orders", nil, &stats.TotalTransactions},
		{"completed orders", "SELECT COUNT(*) FROM orders WHERE status = ?", []any{models.OrderCompleted}, &stats.CompletedTransactions},
		{"pending orders", "SELECT COUNT(*) FROM orders WHERE status = ?", []any{models.OrderPending}, &stats.PendingTransactions},
	}
	for _, c := range counts {
		if err := q.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return models.DashboardStats{}, fmt.Errorf("count %s: %w", c.what, err)
		}
	}

	// COALESCE(..., 0) so an empty set yields 0 instead of NULL
	err := q.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = ?",
		models.OrderCompleted,
	).Scan(&stats.TotalRevenue)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("sum revenue: %w", err)
	}

	err = q.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = ? AND order_date >= ?",
		models.OrderCompleted, monthStart,
	).Scan(&stats.MonthlyRevenue)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("sum monthly revenue: %w", err)
	}

	return stats, nil
}

// OrderPointsSince returns date, total and status of every order placed at or after since.
func (s *Store) OrderPointsSince(ctx context.Context, since time.Time) ([]models.OrderPoint, error) {
	rows, err := s.ro.q.QueryContext(ctx,
		"SELECT order_date, total_amount, status FROM orders WHERE order_date >= ?", since)
	if err != nil {
		return nil, fmt.Errorf("query order points: %w", err)
	}
	defer rows.Close()

	var points []models.OrderPoint
	for rows.Next() {
		var p models.OrderPoint
		if err := rows.Scan(&p.OrderDate, &p.TotalAmount, &p.Status); err != nil {
			return nil, fmt.Errorf("scan order point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// OrderStatusCounts returns the number of orders per status. Absent statuses are missing from the map.
func (s *Store) OrderStatusCounts(ctx context.Context) (map[models.OrderStatus]int, error) {
	rows, err := s.ro.q.QueryContext(ctx, "SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("query status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.OrderStatus]int)
	for rows.Next() {
		var status models.OrderStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// TopProducts ranks products by revenue across all of their order items.
func (s *Store) TopProducts(ctx context.Context, limit int) ([]models.ProductDistribution, error) {
	query := `
		SELECT p.id, p.name, p.sku, COUNT(oi.id), COALESCE(SUM(oi.unit_price * oi.quantity), 0) AS revenue
		FROM products p
		LEFT JOIN order_items oi ON oi.product_id = p.id
		GROUP BY p.id, p.name, p.sku
		ORDER BY revenue DESC, p.name ASC
		LIMIT ?`
	rows, err := s.ro.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query top products: %w", err)
	}
	defer rows.Close()

	out := []models.ProductDistribution{}
	for rows.Next() {
		var p models.ProductDistribution
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.TransactionCount, &p.TotalRevenue); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// TopClients ranks customers by the sum of their COMPLETED orders.
func (s *Store) TopClients(ctx context.Context, limit int) ([]models.TopClient, error) {
	query := `
		SELECT c.id, c.name, c.email, COUNT(o.id), COALESCE(SUM(o.total_amount), 0) AS spent
		FROM customers c
		LEFT JOIN orders o ON o.customer_id = c.id AND o.status = ?
		GROUP BY c.id, c.name, c.email
		ORDER BY spent DESC, c.name ASC
		LIMIT ?`
	rows, err := s.ro.q.QueryContext(ctx, query, models.OrderCompleted, limit)
	if err != nil {
		return nil, fmt.Errorf("query top clients: %w", err)
	}
	defer rows.Close()

	out := []models.TopClient{}
	for rows.Next() {
		var c models.TopClient
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.TransactionCount, &c.TotalSpent); err != nil {
			return nil, fmt.Errorf("scan top client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RecentTransactions returns the newest orders by order date, flattened with customer data.
func (s *Store) RecentTransactions(ctx context.Context, limit int) ([]models.RecentTransaction, error) {
	query := `
		SELECT o.id, c.name, c.email, o.total_amount, o.status, o.order_date,
			(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id)
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		ORDER BY o.order_date DESC
		LIMIT ?`
	rows, err := s.ro.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent transactions: %w", err)
	}
	defer rows.Close()

	out := []models.RecentTransaction{}
	for rows.Next() {
		var r models.RecentTransaction
		if err := rows.Scan(&r.ID, &r.ClientName, &r.ClientEmail, &r.Amount, &r.Status, &r.Date, &r.ProductCount); err != nil {
			return nil, fmt.Errorf("scan recent transaction: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
