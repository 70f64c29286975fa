package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/bizdesk/internal/handlers"
	"github.com/01moynul/bizdesk/internal/idempotency"
)

// Options configures the router around the handlers.
type Options struct {
	// CORSOrigin is the single browser origin allowed to call the API.
	CORSOrigin string
	// Idempotency guards POST /api/orders. Nil disables the check.
	Idempotency *idempotency.Store
	Log         *slog.Logger
}

// CORSMiddleware tells the browser that the dashboard origin may call us.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Allow ONLY the configured frontend
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Vary", "Origin")

		// 2. Allow standard security credentials
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		// 3. Allow the headers we actually use
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, accept, origin, Cache-Control, X-Requested-With, "+idempotency.Header)

		// 4. Allow the HTTP methods we use in our API
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// 5. Preflight gets "204 No Content"
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		log.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// --- APPLY THE CORS GUARD ---
	router.Use(CORSMiddleware(opts.CORSOrigin))
	router.Use(RequestLogger(opts.Log))

	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		// --- Customer Routes ---
		customers := api.Group("/customers")
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.GetCustomers)
		customers.GET("/:id", h.GetCustomerByID)
		customers.PATCH("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)

		// --- Product Routes ---
		products := api.Group("/products")
		products.POST("", h.CreateProduct)
		products.GET("", h.GetProducts)
		products.GET("/:id", h.GetProductByID)
		products.PATCH("/:id", h.UpdateProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)

		// --- Order Routes ---
		ordersGroup := api.Group("/orders")
		ordersGroup.POST("", idempotency.Middleware(opts.Log, opts.Idempotency, "orders"), h.CreateOrder)
		ordersGroup.GET("", h.GetOrders)
		ordersGroup.GET("/:id", h.GetOrderByID)
		ordersGroup.PATCH("/:id/status", h.UpdateOrderStatus)

		// --- Dashboard Routes (read-only) ---
		dash := api.Group("/dashboard")
		dash.GET("/stats", h.GetDashboardStats)
		dash.GET("/monthly", h.GetMonthlyData)
		dash.GET("/status-distribution", h.GetStatusDistribution)
		dash.GET("/top-products", h.GetTopProducts)
		dash.GET("/top-clients", h.GetTopClients)
		dash.GET("/recent", h.GetRecentTransactions)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}
