package orders

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/01moynul/bizdesk/internal/models"
)

// ItemInput is one requested line of an order.
type ItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderInput is the request to place an order.
type CreateOrderInput struct {
	CustomerID string      `json:"customerId"`
	Items      []ItemInput `json:"items"`
}

// Validate checks the input shape without touching storage.
func (in CreateOrderInput) Validate() error {
	verr := &ValidationError{}

	if !isUUID(in.CustomerID) {
		verr.add("customerId", "Invalid Customer ID")
	}
	if len(in.Items) == 0 {
		verr.add("items", "Order must have at least one item")
	}
	for i, it := range in.Items {
		if !isUUID(it.ProductID) {
			verr.add(fmt.Sprintf("items[%d].productId", i), "Invalid Product ID")
		}
		if it.Quantity < 1 {
			verr.add(fmt.Sprintf("items[%d].quantity", i), "Quantity must be at least 1")
		}
	}

	return verr.errOrNil()
}

// validateStatusTarget accepts only the statuses an order can move to.
func validateStatusTarget(status models.OrderStatus) error {
	verr := &ValidationError{}
	if status != models.OrderCompleted && status != models.OrderCancelled {
		verr.add("status", "Status must be COMPLETED or CANCELLED")
	}
	return verr.errOrNil()
}

// isUUID accepts only the canonical 36-character form stored in the database.
func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
