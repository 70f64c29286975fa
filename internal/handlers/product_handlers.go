package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/01moynul/bizdesk/internal/models"
	"github.com/01moynul/bizdesk/internal/orders"
)

//
// --- Product (Banking Product) Handlers ---
//

type CreateProductInput struct {
	SKU         string           `json:"sku" binding:"required"`
	Name        string           `json:"name" binding:"required"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       int              `json:"stock" binding:"gte=0"`
}

type UpdateProductInput struct {
	SKU         *string          `json:"sku" binding:"omitempty,min=1"`
	Name        *string          `json:"name" binding:"omitempty,min=1"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" binding:"omitempty,gte=0"`
}

// checkPrice returns the issues for a price field; required controls whether nil is allowed.
func checkPrice(price *decimal.Decimal, required bool) []orders.Issue {
	switch {
	case price == nil && required:
		return []orders.Issue{{Field: "price", Message: "is required"}}
	case price != nil && price.IsNegative():
		return []orders.Issue{{Field: "price", Message: "must be greater than or equal to 0"}}
	case price != nil && price.Round(2).GreaterThanOrEqual(models.MaxAmount):
		return []orders.Issue{{Field: "price", Message: "must be less than " + models.MaxAmount.String()}}
	}
	return nil
}

// CreateProduct is the handler for POST /api/products
func (h *Handlers) CreateProduct(c *gin.Context) {
	// 1. --- Bind & Validate ---
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindError(c, err)
		return
	}
	issues := checkPrice(input.Price, true)
	name := strings.TrimSpace(input.Name)
	if name == "" {
		issues = append(issues, blankName)
	}
	sku := models.NormalizeSKU(input.SKU)
	if sku == "" {
		issues = append(issues, orders.Issue{Field: "sku", Message: "must contain letters or digits"})
	}
	if len(issues) > 0 {
		invalid(c, issues...)
		return
	}

	// 2. --- Save ---
	product := models.Product{
		SKU:         sku,
		Name:        name,
		Description: input.Description,
		Price:       input.Price.Round(2),
		Stock:       input.Stock,
	}
	if err := h.Catalog.CreateProduct(c.Request.Context(), &product); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProducts is the handler for GET /api/products
func (h *Handlers) GetProducts(c *gin.Context) {
	products, err := h.Catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// GetProductByID is the handler for GET /api/products/:id
func (h *Handlers) GetProductByID(c *gin.Context) {
	product, err := h.Catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct is the handler for PATCH (and PUT) /api/products/:id
// Only the fields present in the body change.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindError(c, err)
		return
	}

	issues := checkPrice(input.Price, false)
	patch := models.ProductPatch{
		Description: input.Description,
		Stock:       input.Stock,
	}
	if input.SKU != nil {
		sku := models.NormalizeSKU(*input.SKU)
		if sku == "" {
			issues = append(issues, orders.Issue{Field: "sku", Message: "must contain letters or digits"})
		}
		patch.SKU = &sku
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			issues = append(issues, blankName)
		}
		patch.Name = &name
	}
	if len(issues) > 0 {
		invalid(c, issues...)
		return
	}
	if input.Price != nil {
		price := input.Price.Round(2)
		patch.Price = &price
	}

	product, err := h.Catalog.UpdateProduct(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct is the handler for DELETE /api/products/:id
// Products referenced by order items cannot be deleted.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	if err := h.Catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
