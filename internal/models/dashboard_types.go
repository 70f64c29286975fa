package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats are the headline KPIs.
type DashboardStats struct {
	TotalClients          int             `json:"totalClients"`
	ActiveClients         int             `json:"activeClients"`
	TotalProducts         int             `json:"totalProducts"`
	TotalTransactions     int             `json:"totalTransactions"`
	CompletedTransactions int             `json:"completedTransactions"`
	PendingTransactions   int             `json:"pendingTransactions"`
	TotalRevenue          decimal.Decimal `json:"totalRevenue"`
	MonthlyRevenue        decimal.Decimal `json:"monthlyRevenue"`
}

// MonthlyData is one calendar-month bucket of the trailing series.
type MonthlyData struct {
	Month        string          `json:"month"` // e.g. "Jan 26"
	Transactions int             `json:"transactions"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// StatusDistribution is the share of orders in one status.
type StatusDistribution struct {
	Status     OrderStatus `json:"status"`
	Label      string      `json:"label"`
	Count      int         `json:"count"`
	Percentage int         `json:"percentage"`
}

// ProductDistribution ranks a product by revenue from its order items.
type ProductDistribution struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	TransactionCount int             `json:"transactionCount"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
}

// TopClient ranks a customer by completed-order spend.
type TopClient struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	TransactionCount int             `json:"transactionCount"`
	TotalSpent       decimal.Decimal `json:"totalSpent"`
}

// RecentTransaction is an order flattened with its customer for the activity feed.
type RecentTransaction struct {
	ID           string          `json:"id"`
	ClientName   string          `json:"clientName"`
	ClientEmail  string          `json:"clientEmail"`
	Amount       decimal.Decimal `json:"amount"`
	Status       OrderStatus     `json:"status"`
	Date         time.Time       `json:"date"`
	ProductCount int             `json:"productCount"`
}

// OrderPoint is the minimal projection the monthly series is built from.
type OrderPoint struct {
	OrderDate   time.Time
	TotalAmount decimal.Decimal
	Status      OrderStatus
}
