package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/bizdesk/internal/orders"
)

//
// --- Dashboard Handlers ---
//

const maxLimit = 100

// limitParam reads ?limit=. Zero means "use the default"; ok is false after a 400 was written.
func limitParam(c *gin.Context) (n int, ok bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxLimit {
		invalid(c, orders.Issue{Field: "limit", Message: "must be an integer between 1 and " + strconv.Itoa(maxLimit)})
		return 0, false
	}
	return n, true
}

// GetDashboardStats is the handler for GET /api/dashboard/stats
func (h *Handlers) GetDashboardStats(c *gin.Context) {
	stats, err := h.Dashboard.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetMonthlyData is the handler for GET /api/dashboard/monthly
func (h *Handlers) GetMonthlyData(c *gin.Context) {
	data, err := h.Dashboard.Monthly(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetStatusDistribution is the handler for GET /api/dashboard/status-distribution
func (h *Handlers) GetStatusDistribution(c *gin.Context) {
	data, err := h.Dashboard.StatusDistribution(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetTopProducts is the handler for GET /api/dashboard/top-products
func (h *Handlers) GetTopProducts(c *gin.Context) {
	n, ok := limitParam(c)
	if !ok {
		return
	}
	data, err := h.Dashboard.TopProducts(c.Request.Context(), n)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetTopClients is the handler for GET /api/dashboard/top-clients
func (h *Handlers) GetTopClients(c *gin.Context) {
	n, ok := limitParam(c)
	if !ok {
		return
	}
	data, err := h.Dashboard.TopClients(c.Request.Context(), n)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetRecentTransactions is the handler for GET /api/dashboard/recent
func (h *Handlers) GetRecentTransactions(c *gin.Context) {
	n, ok := limitParam(c)
	if !ok {
		return
	}
	data, err := h.Dashboard.RecentTransactions(c.Request.Context(), n)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}
