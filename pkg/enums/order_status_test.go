package enums

import "testing"

func TestOrderStatusTransitionTable(t *testing.T) {
	legal := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusCompleted},
		{OrderStatusShipped, OrderStatusReturnRefund},
	}
	for _, tc := range legal {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Fatalf("expected %s -> %s to be legal", tc.from, tc.to)
		}
	}

	illegal := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusPending, OrderStatusCompleted},
		{OrderStatusPending, OrderStatusReturnRefund},
		{OrderStatusShipped, OrderStatusPending},
		{OrderStatusShipped, OrderStatusCancelled},
		{OrderStatusCompleted, OrderStatusPending},
		{OrderStatusCancelled, OrderStatusShipped},
		{OrderStatusReturnRefund, OrderStatusCompleted},
	}
	for _, tc := range illegal {
		if tc.from.CanTransitionTo(tc.to) {
			t.Fatalf("expected %s -> %s to be illegal", tc.from, tc.to)
		}
	}
}

func TestOrderStatusTerminalStates(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusCompleted, OrderStatusCancelled, OrderStatusReturnRefund} {
		if !status.IsTerminal() {
			t.Fatalf("expected %s to be terminal", status)
		}
		for _, next := range validOrderStatuses {
			if status.CanTransitionTo(next) {
				t.Fatalf("terminal status %s allows transition to %s", status, next)
			}
		}
	}
	for _, status := range []OrderStatus{OrderStatusPending, OrderStatusShipped} {
		if status.IsTerminal() {
			t.Fatalf("expected %s to be non-terminal", status)
		}
	}
}

func TestOrderStatusTerminalRequiresValidValue(t *testing.T) {
	if OrderStatus("Bogus").IsTerminal() {
		t.Fatal("unknown status must not report terminal")
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("Return/Refund")
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if status != OrderStatusReturnRefund {
		t.Fatalf("unexpected status %s", status)
	}

	if _, err := ParseOrderStatus("pending"); err == nil {
		t.Fatal("expected case-sensitive parse to reject lowercase value")
	}
}

func TestNextStatusesIsACopy(t *testing.T) {
	next := OrderStatusPending.NextStatuses()
	if len(next) != 2 {
		t.Fatalf("expected 2 successors for Pending, got %d", len(next))
	}
	next[0] = OrderStatusCompleted
	if OrderStatusPending.CanTransitionTo(OrderStatusCompleted) {
		t.Fatal("mutating the returned slice must not alter the table")
	}
}
