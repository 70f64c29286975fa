package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/bizdesk/internal/logging"
	"github.com/01moynul/bizdesk/internal/models"
)

var t0 = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	s := New(logging.Discard(), db, nil)
	s.SetClock(func() time.Time { return t0 })
	return s, mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

var customerCols = []string{"id", "name", "email", "phone", "address", "status", "created_at", "updated_at"}

func TestMapErr(t *testing.T) {
	tests := []struct {
		number uint16
		want   error
	}{
		{1062, ErrDuplicate},
		{1451, ErrReferenced},
		{1217, ErrReferenced},
		{1452, ErrNotFound},
		{1264, ErrOutOfRange},
	}
	for _, tt := range tests {
		err := mapErr(&mysql.MySQLError{Number: tt.number, Message: "boom"})
		assert.ErrorIs(t, err, tt.want, "error %d", tt.number)
	}

	other := &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
	assert.Same(t, error(other), mapErr(other))
	assert.Nil(t, mapErr(nil))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}

func TestInTxCommitsOnSuccess(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE orders SET status = ?, updated_at = ? WHERE id = ?")).
		WithArgs("COMPLETED", t0, "o1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.InTx(context.Background(), func(tx *Tx) error {
		return tx.SetOrderStatus(context.Background(), "o1", models.OrderCompleted, t0)
	})
	require.NoError(t, err)
}

func TestInTxRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.InTx(context.Background(), func(tx *Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestCreateCustomer(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(q("INSERT INTO customers")).
		WithArgs(sqlmock.AnyArg(), "Ada", "ada@example.com", nil, nil, "ACTIVE", t0, t0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := models.Customer{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, s.CreateCustomer(context.Background(), &c))
	assert.Len(t, c.ID, 36)
	assert.Equal(t, models.CustomerActive, c.Status)
	assert.Equal(t, t0, c.CreatedAt)
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(q("INSERT INTO customers")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ada@example.com' for key 'email'"})

	err := s.CreateCustomer(context.Background(), &models.Customer{Name: "Ada", Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestGetCustomerNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(q("FROM customers WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(customerCols))

	_, err := s.GetCustomer(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCustomerLocksAndWrites(t *testing.T) {
	s, mock := newMockStore(t)
	created := t0.Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM customers WHERE id = ? FOR UPDATE")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(customerCols).
			AddRow("c1", "Ada", "ada@example.com", nil, nil, "ACTIVE", created, created))
	mock.ExpectExec(q("UPDATE customers")).
		WithArgs("Ada", "ada@example.com", nil, nil, "INACTIVE", t0, "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	status := models.CustomerInactive
	c, err := s.UpdateCustomer(context.Background(), "c1", models.CustomerPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.CustomerInactive, c.Status)
	assert.Equal(t, created, c.CreatedAt)
	assert.Equal(t, t0, c.UpdatedAt)
}

func TestDeleteCustomer(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(q("DELETE FROM customers WHERE id = ?")).WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q("DELETE FROM customers WHERE id = ?")).WithArgs("busy").
		WillReturnError(&mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"})
	mock.ExpectExec(q("DELETE FROM customers WHERE id = ?")).WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	assert.ErrorIs(t, s.DeleteCustomer(ctx, "gone"), ErrNotFound)
	assert.ErrorIs(t, s.DeleteCustomer(ctx, "busy"), ErrReferenced)
	assert.NoError(t, s.DeleteCustomer(ctx, "c1"))
}

func TestAdjustStockRefusesNegative(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("SET stock = stock + ?, updated_at = ?")).
		WithArgs(-3, t0, "p1", -3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.InTx(context.Background(), func(tx *Tx) error {
		return tx.AdjustStock(context.Background(), "p1", -3, t0)
	})
	assert.ErrorIs(t, err, ErrStockExhausted)
}

func TestCreateProduct(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(q("INSERT INTO products")).
		WithArgs(sqlmock.AnyArg(), "ACC-SAV-001", "Savings", nil, "12.5", 10, t0, t0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := models.Product{SKU: "ACC-SAV-001", Name: "Savings", Price: decimal.RequireFromString("12.50"), Stock: 10}
	require.NoError(t, s.CreateProduct(context.Background(), &p))
	assert.NotEmpty(t, p.ID)
}

func orderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "customer_id", "status", "total_amount", "order_date", "created_at", "updated_at",
		"c.id", "c.name", "c.email", "c.phone", "c.address", "c.status", "c.created_at", "c.updated_at",
	})
}

func itemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "order_id", "product_id", "quantity", "unit_price",
		"p.id", "p.sku", "p.name", "p.description", "p.price", "p.stock", "p.created_at", "p.updated_at",
	})
}

func TestGetOrderAttachesCustomerAndItems(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(q("JOIN customers c ON c.id = o.customer_id WHERE o.id = ?")).
		WithArgs("o1").
		WillReturnRows(orderRows().AddRow(
			"o1", "c1", "PENDING", "44.43", t0, t0, t0,
			"c1", "Ada", "ada@example.com", nil, nil, "ACTIVE", t0, t0,
		))
	mock.ExpectQuery(q("FROM order_items oi")).
		WithArgs("o1").
		WillReturnRows(itemRows().
			AddRow("i1", "o1", "p2", 2, "19.99", "p2", "B-1", "Bond", nil, "25.00", 8, t0, t0).
			AddRow("i2", "o1", "p1", 3, "1.15", "p1", "A-1", "Account", nil, "1.15", 7, t0, t0))

	o, err := s.GetOrder(context.Background(), "o1")
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, o.Status)
	assert.Equal(t, "44.43", o.TotalAmount.StringFixed(2))
	require.NotNil(t, o.Customer)
	assert.Equal(t, "Ada", o.Customer.Name)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "p2", o.Items[0].ProductID)
	assert.Equal(t, "19.99", o.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "25.00", o.Items[0].Product.Price.StringFixed(2), "product price is live, unit price is the snapshot")
	assert.Equal(t, "p1", o.Items[1].ProductID)
}

func TestGetOrderNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(q("WHERE o.id = ?")).WithArgs("nope").WillReturnRows(orderRows())

	_, err := s.GetOrder(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersGroupsItems(t *testing.T) {
	s, mock := newMockStore(t)
	older := t0.Add(-time.Hour)

	mock.ExpectQuery(q("ORDER BY o.created_at DESC")).
		WillReturnRows(orderRows().
			AddRow("o2", "c1", "PENDING", "5.00", t0, t0, t0, "c1", "Ada", "ada@example.com", nil, nil, "ACTIVE", t0, t0).
			AddRow("o1", "c1", "COMPLETED", "7.00", older, older, older, "c1", "Ada", "ada@example.com", nil, nil, "ACTIVE", t0, t0))
	mock.ExpectQuery(q("WHERE oi.order_id IN (?, ?)")).
		WithArgs("o2", "o1").
		WillReturnRows(itemRows().
			AddRow("i1", "o1", "p1", 7, "1.00", "p1", "A-1", "Account", nil, "1.00", 0, t0, t0).
			AddRow("i2", "o2", "p1", 5, "1.00", "p1", "A-1", "Account", nil, "1.00", 0, t0, t0))

	list, err := s.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "o2", list[0].ID)
	require.Len(t, list[0].Items, 1)
	assert.Equal(t, 5, list[0].Items[0].Quantity)
	require.Len(t, list[1].Items, 1)
	assert.Equal(t, 7, list[1].Items[0].Quantity)
}

func TestListOrdersEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(q("FROM orders o")).WillReturnRows(orderRows())

	list, err := s.ListOrders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDashboardUsesReadOnlyPool(t *testing.T) {
	primary, primaryMock, err := sqlmock.New()
	require.NoError(t, err)
	defer primary.Close()
	ro, roMock, err := sqlmock.New()
	require.NoError(t, err)
	defer ro.Close()

	s := New(logging.Discard(), primary, ro)

	for _, n := range []int{5, 4, 20, 9, 6, 2} {
		roMock.ExpectQuery(q("SELECT COUNT(*)")).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(n))
	}
	roMock.ExpectQuery(q("SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status = ?")).
		WithArgs("COMPLETED").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("1234.50"))
	roMock.ExpectQuery(q("AND order_date >= ?")).
		WithArgs("COMPLETED", t0).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("0"))

	stats, err := s.DashboardStats(context.Background(), t0)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalClients)
	assert.Equal(t, 4, stats.ActiveClients)
	assert.Equal(t, 20, stats.TotalProducts)
	assert.Equal(t, 9, stats.TotalTransactions)
	assert.Equal(t, 6, stats.CompletedTransactions)
	assert.Equal(t, 2, stats.PendingTransactions)
	assert.Equal(t, "1234.50", stats.TotalRevenue.StringFixed(2))
	assert.True(t, stats.MonthlyRevenue.IsZero())

	assert.NoError(t, roMock.ExpectationsWereMet())
	assert.NoError(t, primaryMock.ExpectationsWereMet())
}

func TestOrderStatusCounts(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(q("GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "n"}).AddRow("COMPLETED", 3).AddRow("PENDING", 1))

	counts, err := s.OrderStatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[models.OrderStatus]int{models.OrderCompleted: 3, models.OrderPending: 1}, counts)
}

func TestTopProductsPropagatesErrors(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(q("LEFT JOIN order_items oi")).WithArgs(8).WillReturnError(sql.ErrConnDone)

	_, err := s.TopProducts(context.Background(), 8)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Equal(t, fmt.Sprintf("query top products: %v", sql.ErrConnDone), err.Error())
}

var productCols = []string{"id", "sku", "name", "description", "price", "stock", "created_at", "updated_at"}

func TestInsertOrderWritesItemsInLineOrder(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO orders")).
		WithArgs("o1", "c1", "PENDING", "7.5", t0, t0, t0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO order_items (id, order_id, product_id, line_no, quantity, unit_price)")).
		WithArgs(sqlmock.AnyArg(), "o1", "p2", 0, 1, "5.5").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO order_items (id, order_id, product_id, line_no, quantity, unit_price)")).
		WithArgs("fixed-item", "o1", "p1", 1, 2, "1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	o := models.Order{
		ID:          "o1",
		CustomerID:  "c1",
		Status:      models.OrderPending,
		TotalAmount: decimal.RequireFromString("7.50"),
		OrderDate:   t0,
		CreatedAt:   t0,
		UpdatedAt:   t0,
		Items: []models.OrderItem{
			{ProductID: "p2", Quantity: 1, UnitPrice: decimal.RequireFromString("5.50")},
			{ID: "fixed-item", ProductID: "p1", Quantity: 2, UnitPrice: decimal.RequireFromString("1.00")},
		},
	}
	err := s.InTx(context.Background(), func(tx *Tx) error {
		return tx.InsertOrder(context.Background(), &o)
	})
	require.NoError(t, err)
	assert.Len(t, o.Items[0].ID, 36)
	assert.Equal(t, "fixed-item", o.Items[1].ID)
	for _, it := range o.Items {
		assert.Equal(t, "o1", it.OrderID)
	}
}

func TestInsertOrderMissingCustomer(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("INSERT INTO orders")).
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})
	mock.ExpectRollback()

	err := s.InTx(context.Background(), func(tx *Tx) error {
		return tx.InsertOrder(context.Background(), &models.Order{CustomerID: "gone", Status: models.OrderPending})
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLockProductTakesRowLock(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM products WHERE id = ? FOR UPDATE")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(productCols).AddRow("p1", "LND-LOC-001", "Line of Credit", nil, "50.00", 4, t0, t0))
	mock.ExpectQuery(q("FROM products WHERE id = ? FOR UPDATE")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(productCols))
	mock.ExpectCommit()

	err := s.InTx(context.Background(), func(tx *Tx) error {
		p, err := tx.LockProduct(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, "LND-LOC-001", p.SKU)
		assert.Equal(t, "50.00", p.Price.StringFixed(2))
		assert.Equal(t, 4, p.Stock)

		_, err = tx.LockProduct(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestLockOrderReadsItemsInLineOrder(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM orders o WHERE o.id = ? FOR UPDATE")).
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "status", "total_amount", "order_date", "created_at", "updated_at"}).
			AddRow("o1", "c1", "PENDING", "12.00", t0, t0, t0))
	mock.ExpectQuery(q("ORDER BY line_no")).
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "unit_price"}).
			AddRow("i1", "o1", "p2", 2, "5.00").
			AddRow("i2", "o1", "p1", 1, "2.00"))
	mock.ExpectQuery(q("FROM orders o WHERE o.id = ? FOR UPDATE")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	err := s.InTx(context.Background(), func(tx *Tx) error {
		o, err := tx.LockOrder(context.Background(), "o1")
		require.NoError(t, err)
		assert.Equal(t, models.OrderPending, o.Status)
		assert.Nil(t, o.Customer)
		require.Len(t, o.Items, 2)
		assert.Equal(t, "p2", o.Items[0].ProductID)
		assert.Equal(t, 2, o.Items[0].Quantity)
		assert.Nil(t, o.Items[0].Product)

		_, err = tx.LockOrder(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestSetOrderStatusNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE orders SET status = ?, updated_at = ? WHERE id = ?")).
		WithArgs("CANCELLED", t0, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.InTx(context.Background(), func(tx *Tx) error {
		return tx.SetOrderStatus(context.Background(), "missing", models.OrderCancelled, t0)
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTopClientsCountsOnlyCompletedOrders(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(q("LEFT JOIN orders o ON o.customer_id = c.id AND o.status = ?")).
		WithArgs("COMPLETED", 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "n", "spent"}).
			AddRow("c2", "Apex", "finance@apex.com", 2, "300.00").
			AddRow("c1", "Ada", "ada@example.com", 0, "0"))

	clients, err := s.TopClients(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "c2", clients[0].ID)
	assert.Equal(t, "Apex", clients[0].Name)
	assert.Equal(t, "finance@apex.com", clients[0].Email)
	assert.Equal(t, 2, clients[0].TransactionCount)
	assert.Equal(t, "300.00", clients[0].TotalSpent.StringFixed(2))
	assert.True(t, clients[1].TotalSpent.IsZero())
}

func TestTopClientsEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(q("FROM customers c")).
		WithArgs("COMPLETED", 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "n", "spent"}))

	clients, err := s.TopClients(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, clients)
	assert.Empty(t, clients)
}

func TestRecentTransactionsNewestFirst(t *testing.T) {
	s, mock := newMockStore(t)
	earlier := t0.Add(-24 * time.Hour)

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) FROM order_items oi WHERE oi.order_id = o.id.*ORDER BY o.order_date DESC\s+LIMIT \?`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "total_amount", "status", "order_date", "products"}).
			AddRow("o2", "Ada", "ada@example.com", "44.43", "PENDING", t0, 2).
			AddRow("o1", "Apex", "finance@apex.com", "10.00", "CANCELLED", earlier, 1))

	recent, err := s.RecentTransactions(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "o2", recent[0].ID)
	assert.Equal(t, "Ada", recent[0].ClientName)
	assert.Equal(t, "ada@example.com", recent[0].ClientEmail)
	assert.Equal(t, "44.43", recent[0].Amount.StringFixed(2))
	assert.Equal(t, models.OrderPending, recent[0].Status)
	assert.Equal(t, t0, recent[0].Date)
	assert.Equal(t, 2, recent[0].ProductCount)
	assert.Equal(t, models.OrderCancelled, recent[1].Status)
	assert.Equal(t, earlier, recent[1].Date)
}

func TestOrderPointsSince(t *testing.T) {
	s, mock := newMockStore(t)
	since := t0.AddDate(0, -11, 0)

	mock.ExpectQuery(q("SELECT order_date, total_amount, status FROM orders WHERE order_date >= ?")).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"order_date", "total_amount", "status"}).
			AddRow(t0, "150.00", "COMPLETED").
			AddRow(since, "20.00", "CANCELLED"))

	points, err := s.OrderPointsSince(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, t0, points[0].OrderDate)
	assert.Equal(t, "150.00", points[0].TotalAmount.StringFixed(2))
	assert.Equal(t, models.OrderCompleted, points[0].Status)
	assert.Equal(t, models.OrderCancelled, points[1].Status)
}
