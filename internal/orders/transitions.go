package orders

import (
	"slices"

	"github.com/01moynul/bizdesk/internal/models"
)

// transitions lists the allowed targets per state. COMPLETED and CANCELLED
// are terminal and therefore absent.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending: {models.OrderCompleted, models.OrderCancelled},
}

// CanTransition returns a *TransitionError unless from -> to is allowed.
func CanTransition(from, to models.OrderStatus) error {
	if slices.Contains(transitions[from], to) {
		return nil
	}
	return &TransitionError{From: from, To: to}
}
