package cart

import (
	"math"
	"testing"

	"storefront/internal/models"
)

func line(id string, price float64, qty, stock int) models.CartItem {
	return models.CartItem{ProductID: id, Name: id, Price: price, Quantity: qty, Stock: stock}
}

func TestAddItemInsertsWithQuantityOne(t *testing.T) {
	items, signal := AddItem(nil, line("p1", 9.99, 0, 5))
	if signal != SignalAdded {
		t.Fatalf("expected added signal, got %q", signal)
	}
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("expected one line with quantity 1, got %+v", items)
	}
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	items := []models.CartItem{line("p1", 9.99, 1, 5)}

	items, signal := AddItem(items, line("p1", 9.99, 0, 5))
	if signal != SignalAdded {
		t.Fatalf("expected added signal, got %q", signal)
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[0].Quantity)
	}
}

func TestAddItemAtCapacityIsNoOpWithSignal(t *testing.T) {
	items := []models.CartItem{line("p1", 9.99, 5, 5)}

	next, signal := AddItem(items, line("p1", 9.99, 0, 5))
	if signal != SignalCapacityReached {
		t.Fatalf("expected capacity signal, got %q", signal)
	}
	if next[0].Quantity != 5 {
		t.Fatalf("quantity must not exceed stock, got %d", next[0].Quantity)
	}
}

func TestAddItemOutOfStockProduct(t *testing.T) {
	items, signal := AddItem(nil, line("p1", 9.99, 0, 0))
	if signal != SignalCapacityReached {
		t.Fatalf("expected capacity signal, got %q", signal)
	}
	if len(items) != 0 {
		t.Fatalf("out-of-stock product must not be added, got %+v", items)
	}
}

func TestAddItemDoesNotMutateInput(t *testing.T) {
	original := []models.CartItem{line("p1", 9.99, 1, 5)}

	AddItem(original, line("p1", 9.99, 0, 5))
	if original[0].Quantity != 1 {
		t.Fatalf("input slice was mutated: %+v", original)
	}
}

func TestUpdateQuantityClampsIntoBounds(t *testing.T) {
	items := []models.CartItem{line("p1", 9.99, 2, 5)}

	next, signal := UpdateQuantity(items, "p1", 99)
	if signal != SignalClamped {
		t.Fatalf("expected clamped signal, got %q", signal)
	}
	if next[0].Quantity != 5 {
		t.Fatalf("expected clamp to stock 5, got %d", next[0].Quantity)
	}

	next, signal = UpdateQuantity(items, "p1", 0)
	if signal != SignalClamped {
		t.Fatalf("expected clamped signal, got %q", signal)
	}
	if next[0].Quantity != 1 {
		t.Fatalf("expected clamp to 1, got %d", next[0].Quantity)
	}

	next, signal = UpdateQuantity(items, "p1", 3)
	if signal != SignalNone {
		t.Fatalf("in-bounds update must not signal, got %q", signal)
	}
	if next[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", next[0].Quantity)
	}
}

func TestUpdateQuantityDropsLineWhenStockRunsOut(t *testing.T) {
	// A refreshed snapshot can say the product sold out after the line was
	// added. The quantity cannot be clamped into [1, 0], so the line goes.
	items := []models.CartItem{line("p1", 9.99, 2, 0), line("p2", 4.99, 1, 5)}

	next, signal := UpdateQuantity(items, "p1", 3)
	if signal != SignalRemoved {
		t.Fatalf("expected removed signal, got %q", signal)
	}
	if len(next) != 1 || next[0].ProductID != "p2" {
		t.Fatalf("sold-out line must be dropped, got %+v", next)
	}
	if items[0].Quantity != 2 {
		t.Fatalf("input slice was mutated: %+v", items)
	}
	for _, item := range next {
		if item.Quantity < 1 || item.Quantity > item.Stock {
			t.Fatalf("quantity %d outside [1, %d] for %s", item.Quantity, item.Stock, item.ProductID)
		}
	}
}

func TestQuantityInvariantHoldsAcrossOperations(t *testing.T) {
	items := []models.CartItem{}

	ops := []func([]models.CartItem) ([]models.CartItem, Signal){
		func(s []models.CartItem) ([]models.CartItem, Signal) { return AddItem(s, line("a", 5, 0, 3)) },
		func(s []models.CartItem) ([]models.CartItem, Signal) { return AddItem(s, line("a", 5, 0, 3)) },
		func(s []models.CartItem) ([]models.CartItem, Signal) { return UpdateQuantity(s, "a", 50) },
		func(s []models.CartItem) ([]models.CartItem, Signal) { return AddItem(s, line("a", 5, 0, 3)) },
		func(s []models.CartItem) ([]models.CartItem, Signal) { return UpdateQuantity(s, "a", -2) },
		func(s []models.CartItem) ([]models.CartItem, Signal) { return AddItem(s, line("b", 2, 0, 1)) },
		func(s []models.CartItem) ([]models.CartItem, Signal) { return AddItem(s, line("b", 2, 0, 1)) },
	}

	for i, op := range ops {
		items, _ = op(items)
		for _, item := range items {
			if item.Quantity < 1 || item.Quantity > item.Stock {
				t.Fatalf("after op %d: quantity %d outside [1, %d] for %s", i, item.Quantity, item.Stock, item.ProductID)
			}
		}
	}
}

func TestRemoveItem(t *testing.T) {
	items := []models.CartItem{line("p1", 9.99, 1, 5), line("p2", 4.99, 2, 5)}

	next, signal := RemoveItem(items, "p1")
	if signal != SignalRemoved {
		t.Fatalf("expected removed signal, got %q", signal)
	}
	if len(next) != 1 || next[0].ProductID != "p2" {
		t.Fatalf("expected only p2 left, got %+v", next)
	}

	next, signal = RemoveItem(next, "missing")
	if signal != SignalNone {
		t.Fatalf("removing a missing line must not signal, got %q", signal)
	}
}

func TestTotalsSkipCorruptedLines(t *testing.T) {
	items := []models.CartItem{
		line("ok", 10, 2, 5),
		line("nan", math.NaN(), 1, 5),
		line("inf", math.Inf(1), 1, 5),
		line("negqty", 5, -3, 5),
	}

	total := TotalPrice(items)
	if math.IsNaN(total) {
		t.Fatal("total must never be NaN")
	}
	if total != 20 {
		t.Fatalf("expected total 20 from the valid line, got %v", total)
	}

	if count := TotalItems(items); count != 2 {
		t.Fatalf("expected 2 units counted, got %d", count)
	}
}

func TestTotalsOnEmptyCart(t *testing.T) {
	if TotalPrice(nil) != 0 {
		t.Fatal("empty cart total must be 0")
	}
	if TotalItems(nil) != 0 {
		t.Fatal("empty cart item count must be 0")
	}
}
