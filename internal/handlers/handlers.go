package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/01moynul/bizdesk/internal/models"
	"github.com/01moynul/bizdesk/internal/orders"
)

// Catalog is the customer and product storage surface, implemented by *store.Store.
type Catalog interface {
	CreateCustomer(ctx context.Context, c *models.Customer) error
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id string) (models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, patch models.CustomerPatch) (models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, p *models.Product) error
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// OrderService is implemented by *orders.Processor.
type OrderService interface {
	CreateOrder(ctx context.Context, in orders.CreateOrderInput) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
}

// Reports is implemented by *dashboard.Aggregator.
type Reports interface {
	Stats(ctx context.Context) (models.DashboardStats, error)
	Monthly(ctx context.Context) ([]models.MonthlyData, error)
	StatusDistribution(ctx context.Context) ([]models.StatusDistribution, error)
	TopProducts(ctx context.Context, n int) ([]models.ProductDistribution, error)
	TopClients(ctx context.Context, n int) ([]models.TopClient, error)
	RecentTransactions(ctx context.Context, n int) ([]models.RecentTransaction, error)
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Catalog   Catalog
	Orders    OrderService
	Dashboard Reports
	Ping      func(ctx context.Context) error // nil skips the database check in Health
	Log       *slog.Logger
}

func New(log *slog.Logger, catalog Catalog, ord OrderService, reports Reports, ping func(ctx context.Context) error) *Handlers {
	useJSONFieldNames()
	return &Handlers{
		Catalog:   catalog,
		Orders:    ord,
		Dashboard: reports,
		Ping:      ping,
		Log:       log,
	}
}

// Health is the handler for GET /health
func (h *Handlers) Health(c *gin.Context) {
	if h.Ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.Ping(ctx); err != nil {
			h.Log.WarnContext(ctx, "health check failed", "err", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

var registerTagName sync.Once

// useJSONFieldNames makes binding errors report "customerId" instead of "CustomerID".
func useJSONFieldNames() {
	registerTagName.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}
