package order

import (
	"testing"

	"storefront/internal/models"
)

var allStatuses = []string{
	models.OrderPending,
	models.OrderProcessing,
	models.OrderShipped,
	models.OrderDelivered,
	models.OrderCancelled,
	models.OrderRefunded,
}

func TestTransitionTableHappyPath(t *testing.T) {
	path := []string{models.OrderPending, models.OrderProcessing, models.OrderShipped, models.OrderDelivered}
	for i := 0; i < len(path)-1; i++ {
		if !CanTransition(path[i], path[i+1]) {
			t.Fatalf("expected %s -> %s to be allowed", path[i], path[i+1])
		}
	}
}

func TestTransitionTableCancellation(t *testing.T) {
	if !CanTransition(models.OrderPending, models.OrderCancelled) {
		t.Fatal("pending order should be cancellable")
	}
	if !CanTransition(models.OrderProcessing, models.OrderCancelled) {
		t.Fatal("processing order should be cancellable")
	}
	if CanTransition(models.OrderShipped, models.OrderCancelled) {
		t.Fatal("shipped order should not be cancellable")
	}
	if CanTransition(models.OrderDelivered, models.OrderCancelled) {
		t.Fatal("delivered order should not be cancellable")
	}
}

func TestTransitionTableRefundFromNonTerminal(t *testing.T) {
	for _, status := range []string{models.OrderPending, models.OrderProcessing, models.OrderShipped} {
		if !CanTransition(status, models.OrderRefunded) {
			t.Fatalf("expected %s -> refunded to be allowed", status)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []string{models.OrderCancelled, models.OrderDelivered, models.OrderRefunded} {
		if !IsTerminal(terminal) {
			t.Fatalf("expected %s to be terminal", terminal)
		}
		for _, next := range allStatuses {
			if CanTransition(terminal, next) {
				t.Fatalf("terminal status %s must not transition to %s", terminal, next)
			}
		}
	}
}

func TestNoBackwardTransitions(t *testing.T) {
	if CanTransition(models.OrderProcessing, models.OrderPending) {
		t.Fatal("processing must not fall back to pending")
	}
	if CanTransition(models.OrderShipped, models.OrderProcessing) {
		t.Fatal("shipped must not fall back to processing")
	}
	if CanTransition(models.OrderPending, models.OrderShipped) {
		t.Fatal("pending must not skip to shipped")
	}
	if CanTransition(models.OrderPending, models.OrderDelivered) {
		t.Fatal("pending must not skip to delivered")
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range allStatuses {
		if !ValidStatus(status) {
			t.Fatalf("expected %s to be a valid status", status)
		}
	}
	if ValidStatus("archived") {
		t.Fatal("unknown status must not validate")
	}
}
