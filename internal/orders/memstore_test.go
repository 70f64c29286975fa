package orders

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/01moynul/bizdesk/internal/models"
	"github.com/01moynul/bizdesk/internal/store"
)

// memStore is an in-memory Store. InTx works on copies of the tables and
// swaps them in only when fn succeeds, which gives the same all-or-nothing
// outcome as a database transaction.
type memStore struct {
	mu        sync.Mutex
	customers map[string]models.Customer
	products  map[string]models.Product
	orders    map[string]models.Order

	txCount    int
	failInsert error
}

func newMemStore() *memStore {
	return &memStore{
		customers: map[string]models.Customer{},
		products:  map[string]models.Product{},
		orders:    map[string]models.Order{},
	}
}

func (m *memStore) addCustomer(name string) models.Customer {
	c := models.Customer{ID: uuid.NewString(), Name: name, Email: name + "@example.com", Status: models.CustomerActive}
	m.customers[c.ID] = c
	return c
}

func (m *memStore) addProduct(name, price string, stock int) models.Product {
	p := models.Product{ID: uuid.NewString(), SKU: "SKU-" + name, Name: name, Price: mustDecimal(price), Stock: stock}
	m.products[p.ID] = p
	return p
}

func (m *memStore) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func (m *memStore) setPrice(id, price string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.products[id]
	p.Price = mustDecimal(price)
	m.products[id] = p
}

func (m *memStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txCount++

	tx := &memTx{
		m:        m,
		products: maps.Clone(m.products),
		orders:   maps.Clone(m.orders),
	}
	if err := fn(tx); err != nil {
		return err
	}
	m.products = tx.products
	m.orders = tx.orders
	return nil
}

func (m *memStore) GetOrder(ctx context.Context, id string) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return assemble(m.customers, m.products, m.orders, id)
}

func (m *memStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := slices.Collect(maps.Keys(m.orders))
	slices.SortFunc(ids, func(a, b string) int {
		return m.orders[b].CreatedAt.Compare(m.orders[a].CreatedAt)
	})

	out := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		o, err := assemble(m.customers, m.products, m.orders, id)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

type memTx struct {
	m        *memStore
	products map[string]models.Product
	orders   map[string]models.Order
}

func (t *memTx) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	c, ok := t.m.customers[id]
	if !ok {
		return models.Customer{}, fmt.Errorf("customer %s: %w", id, store.ErrNotFound)
	}
	return c, nil
}

func (t *memTx) LockProduct(ctx context.Context, id string) (models.Product, error) {
	p, ok := t.products[id]
	if !ok {
		return models.Product{}, fmt.Errorf("product %s: %w", id, store.ErrNotFound)
	}
	return p, nil
}

func (t *memTx) AdjustStock(ctx context.Context, productID string, delta int, at time.Time) error {
	p, ok := t.products[productID]
	if !ok || p.Stock+delta < 0 {
		return fmt.Errorf("product %s: %w", productID, store.ErrStockExhausted)
	}
	p.Stock += delta
	p.UpdatedAt = at
	t.products[productID] = p
	return nil
}

func (t *memTx) InsertOrder(ctx context.Context, o *models.Order) error {
	if t.m.failInsert != nil {
		return t.m.failInsert
	}
	items := make([]models.OrderItem, len(o.Items))
	for i, it := range o.Items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.OrderID = o.ID
		items[i] = it
	}
	o.Items = items
	stored := *o
	stored.Items = slices.Clone(items)
	t.orders[o.ID] = stored
	return nil
}

func (t *memTx) LockOrder(ctx context.Context, id string) (models.Order, error) {
	o, ok := t.orders[id]
	if !ok {
		return models.Order{}, fmt.Errorf("order %s: %w", id, store.ErrNotFound)
	}
	return o, nil
}

func (t *memTx) SetOrderStatus(ctx context.Context, id string, status models.OrderStatus, at time.Time) error {
	o, ok := t.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, store.ErrNotFound)
	}
	o.Status = status
	o.UpdatedAt = at
	t.orders[id] = o
	return nil
}

func (t *memTx) GetOrder(ctx context.Context, id string) (models.Order, error) {
	return assemble(t.m.customers, t.products, t.orders, id)
}

func assemble(customers map[string]models.Customer, products map[string]models.Product, orders map[string]models.Order, id string) (models.Order, error) {
	o, ok := orders[id]
	if !ok {
		return models.Order{}, fmt.Errorf("order %s: %w", id, store.ErrNotFound)
	}
	c := customers[o.CustomerID]
	o.Customer = &c
	items := make([]models.OrderItem, len(o.Items))
	for i, it := range o.Items {
		p := products[it.ProductID]
		it.Product = &p
		items[i] = it
	}
	o.Items = items
	return o, nil
}

var errBoom = errors.New("connection reset")
