package order

import (
	"fmt"

	"storefront/internal/models"
)

// transitions maps each order status to the statuses reachable from it.
// Happy path: pending → processing → shipped → delivered. Pending and
// processing orders can be cancelled; any paid, non-terminal order can be
// refunded. Cancelled, delivered and refunded are terminal.
var transitions = map[string][]string{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled, models.OrderRefunded},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled, models.OrderRefunded},
	models.OrderShipped:    {models.OrderDelivered, models.OrderRefunded},
	models.OrderDelivered:  {},
	models.OrderCancelled:  {},
	models.OrderRefunded:   {},
}

// CanTransition reports whether next is reachable from current.
func CanTransition(current, next string) bool {
	for _, allowed := range transitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// InvalidTransitionError is returned when a requested status change is not in
// the transition table. The order is left untouched.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order transition %s → %s", e.From, e.To)
}
