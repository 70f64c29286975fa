package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/bizdesk/internal/idempotency"
	"github.com/01moynul/bizdesk/internal/models"
	"github.com/01moynul/bizdesk/internal/orders"
)

//
// --- Order (Transaction) Handlers ---
//

type UpdateOrderStatusInput struct {
	Status models.OrderStatus `json:"status"`
}

// CreateOrder is the handler for POST /api/orders
// Field rules are enforced by the order processor so that every caller gets
// the same validation, not only HTTP clients.
func (h *Handlers) CreateOrder(c *gin.Context) {
	var input orders.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindError(c, err)
		return
	}

	order, err := h.Orders.CreateOrder(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Set(idempotency.ResourceKey, order.ID)
	c.JSON(http.StatusCreated, order)
}

// GetOrders is the handler for GET /api/orders
func (h *Handlers) GetOrders(c *gin.Context) {
	list, err := h.Orders.ListOrders(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if list == nil {
		list = []models.Order{}
	}
	c.JSON(http.StatusOK, list)
}

// GetOrderByID is the handler for GET /api/orders/:id
func (h *Handlers) GetOrderByID(c *gin.Context) {
	order, err := h.Orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus is the handler for PATCH /api/orders/:id/status
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindError(c, err)
		return
	}

	order, err := h.Orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
