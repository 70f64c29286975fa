package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/01moynul/bizdesk/internal/orders"
	"github.com/01moynul/bizdesk/internal/store"
)

const internalErrorMessage = "Internal server error"

// respondError maps domain and storage errors to HTTP responses. Anything it
// does not recognise is logged and answered with a generic 500.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var (
		verr  *orders.ValidationError
		stock *orders.InsufficientStockError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": verr.Issues})

	case errors.As(err, &stock):
		c.JSON(http.StatusConflict, gin.H{
			"error":     stock.Error(),
			"productId": stock.ProductID,
			"requested": stock.Requested,
			"available": stock.Available,
		})

	case errors.Is(err, orders.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, orders.ErrCustomerNotFound),
		errors.Is(err, orders.ErrProductNotFound),
		errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, store.ErrOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A value is outside the supported range"})

	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "A record with the same unique value already exists"})

	case errors.Is(err, store.ErrReferenced):
		c.JSON(http.StatusConflict, gin.H{"error": "Record is referenced by existing transactions"})

	default:
		h.Log.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"err", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
	}
}

// bindError answers a request whose body could not be bound.
func (h *Handlers) bindError(c *gin.Context, err error) {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	issues := make([]orders.Issue, 0, len(ves))
	for _, fe := range ves {
		issues = append(issues, orders.Issue{Field: fe.Field(), Message: describe(fe)})
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": issues})
}

// blankName is reported when a name is empty after trimming.
var blankName = orders.Issue{Field: "name", Message: "must not be blank"}

// invalid answers with a single-field validation failure.
func invalid(c *gin.Context, issues ...orders.Issue) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": issues})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "failed the " + fe.Tag() + " check"
	}
}
