package enums

import "fmt"

// OrderStatus tracks the lifecycle of a marketplace order. The values are the
// persisted document strings and must not change.
type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "Pending"
	OrderStatusShipped      OrderStatus = "Shipped"
	OrderStatusCompleted    OrderStatus = "Completed"
	OrderStatusCancelled    OrderStatus = "Cancelled"
	OrderStatusReturnRefund OrderStatus = "Return/Refund"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusCancelled,
	OrderStatusReturnRefund,
}

// orderStatusTransitions is the single source of truth for legal status
// changes. Terminal states have no outgoing edges.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusCompleted, OrderStatusReturnRefund},
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s.IsValid() && len(orderStatusTransitions[s]) == 0
}

// CanTransitionTo reports whether the transition from s to next is legal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range orderStatusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal successor statuses for s.
func (s OrderStatus) NextStatuses() []OrderStatus {
	next := orderStatusTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
