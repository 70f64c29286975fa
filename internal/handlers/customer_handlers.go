package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/bizdesk/internal/models"
)

//
// --- Customer (Client) Handlers ---
//

type CreateCustomerInput struct {
	Name    string                `json:"name" binding:"required"`
	Email   string                `json:"email" binding:"required,email"`
	Phone   *string               `json:"phone"`
	Address *string               `json:"address"`
	Status  models.CustomerStatus `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

type UpdateCustomerInput struct {
	Name    *string                `json:"name" binding:"omitempty,min=1"`
	Email   *string                `json:"email" binding:"omitempty,email"`
	Phone   *string                `json:"phone"`
	Address *string                `json:"address"`
	Status  *models.CustomerStatus `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

// CreateCustomer is the handler for POST /api/customers
func (h *Handlers) CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindError(c, err)
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		invalid(c, blankName)
		return
	}

	customer := models.Customer{
		Name:    name,
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:   input.Phone,
		Address: input.Address,
		Status:  input.Status,
	}
	if err := h.Catalog.CreateCustomer(c.Request.Context(), &customer); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers is the handler for GET /api/customers
func (h *Handlers) GetCustomers(c *gin.Context) {
	customers, err := h.Catalog.ListCustomers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomerByID is the handler for GET /api/customers/:id
func (h *Handlers) GetCustomerByID(c *gin.Context) {
	customer, err := h.Catalog.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer is the handler for PATCH /api/customers/:id
// Only the fields present in the body change.
func (h *Handlers) UpdateCustomer(c *gin.Context) {
	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindError(c, err)
		return
	}

	patch := models.CustomerPatch{
		Phone:   input.Phone,
		Address: input.Address,
		Status:  input.Status,
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			invalid(c, blankName)
			return
		}
		patch.Name = &name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		patch.Email = &email
	}

	customer, err := h.Catalog.UpdateCustomer(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer is the handler for DELETE /api/customers/:id
// Customers with orders cannot be deleted.
func (h *Handlers) DeleteCustomer(c *gin.Context) {
	if err := h.Catalog.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
