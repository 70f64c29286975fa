package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the state of a transaction. PENDING is initial; the other two are terminal.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition may leave s.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// Order is the model for the 'orders' table
type Order struct {
	ID          string          `json:"id" db:"id"`
	CustomerID  string          `json:"customerId" db:"customer_id"`
	Status      OrderStatus     `json:"status" db:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount" db:"total_amount"` // Fixed at creation
	OrderDate   time.Time       `json:"orderDate" db:"order_date"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`

	// Joins (not in the orders table, populated by the store)
	Customer *Customer   `json:"customer,omitempty" db:"-"`
	Items    []OrderItem `json:"items" db:"-"`
}

// OrderItem is the model for the 'order_items' table
type OrderItem struct {
	ID        string          `json:"id" db:"id"`
	OrderID   string          `json:"orderId" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"` // Price at the time of purchase

	Product *Product `json:"product,omitempty" db:"-"`
}

// LineTotal is quantity * unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SumItems returns the order total for items.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
