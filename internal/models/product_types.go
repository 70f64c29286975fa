package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxAmount is the exclusive upper bound of a DECIMAL(12,2) column.
var MaxAmount = decimal.New(1, 10)

// Product is the model for the 'products' table.
// Price is a rate, fee or limit depending on the SKU's category prefix.
type Product struct {
	ID          string          `json:"id" db:"id"`
	SKU         string          `json:"sku" db:"sku"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// ProductPatch carries the optional fields of a partial update.
type ProductPatch struct {
	SKU         *string
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
}

func (p ProductPatch) Apply(pr *Product) {
	if p.SKU != nil {
		pr.SKU = *p.SKU
	}
	if p.Name != nil {
		pr.Name = *p.Name
	}
	if p.Description != nil {
		pr.Description = p.Description
	}
	if p.Price != nil {
		pr.Price = *p.Price
	}
	if p.Stock != nil {
		pr.Stock = *p.Stock
	}
}
