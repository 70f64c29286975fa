package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// schema is applied in order; every statement is idempotent.
var schema = []struct {
	table string
	ddl   string
}{
	{"customers", `
		CREATE TABLE IF NOT EXISTS customers (
			id CHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(64) NULL,
			address VARCHAR(512) NULL,
			status ENUM('ACTIVE','INACTIVE') NOT NULL DEFAULT 'ACTIVE',
			created_at DATETIME(3) NOT NULL,
			updated_at DATETIME(3) NOT NULL,
			UNIQUE KEY uq_customers_email (email),
			INDEX idx_customers_created_at (created_at)
		) ENGINE=InnoDB`},
	{"products", `
		CREATE TABLE IF NOT EXISTS products (
			id CHAR(36) NOT NULL PRIMARY KEY,
			sku VARCHAR(64) NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT NULL,
			price DECIMAL(12,2) NOT NULL,
			stock INT NOT NULL DEFAULT 0,
			created_at DATETIME(3) NOT NULL,
			updated_at DATETIME(3) NOT NULL,
			CONSTRAINT chk_products_price CHECK (price >= 0),
			CONSTRAINT chk_products_stock CHECK (stock >= 0),
			INDEX idx_products_created_at (created_at)
		) ENGINE=InnoDB`},
	{"orders", `
		CREATE TABLE IF NOT EXISTS orders (
			id CHAR(36) NOT NULL PRIMARY KEY,
			customer_id CHAR(36) NOT NULL,
			status ENUM('PENDING','COMPLETED','CANCELLED') NOT NULL DEFAULT 'PENDING',
			total_amount DECIMAL(12,2) NOT NULL,
			order_date DATETIME(3) NOT NULL,
			created_at DATETIME(3) NOT NULL,
			updated_at DATETIME(3) NOT NULL,
			FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE RESTRICT,
			INDEX idx_orders_created_at (created_at),
			INDEX idx_orders_order_date (order_date),
			INDEX idx_orders_status (status)
		) ENGINE=InnoDB`},
	{"order_items", `
		CREATE TABLE IF NOT EXISTS order_items (
			id CHAR(36) NOT NULL PRIMARY KEY,
			order_id CHAR(36) NOT NULL,
			product_id CHAR(36) NOT NULL,
			line_no INT NOT NULL,
			quantity INT NOT NULL,
			unit_price DECIMAL(12,2) NOT NULL,
			CONSTRAINT chk_order_items_quantity CHECK (quantity >= 1),
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
			FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE RESTRICT,
			INDEX idx_order_items_order_id (order_id)
		) ENGINE=InnoDB`},
}

// InitSchema creates the tables if they don't exist.
func InitSchema(ctx context.Context, log *slog.Logger, db *sql.DB) error {
	log.Info("initializing database schema")
	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("create %s table: %w", s.table, err)
		}
		log.Debug("table ready", "table", s.table)
	}
	return nil
}
