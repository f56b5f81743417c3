package cart

import (
	"math"

	"storefront/internal/models"
)

// Advisory signals emitted by cart operations. They are user-facing notices,
// not errors: the operation itself always yields a valid cart.
type Signal string

const (
	SignalNone            Signal = ""
	SignalAdded           Signal = "added"
	SignalCapacityReached Signal = "capacity_reached"
	SignalClamped         Signal = "quantity_clamped"
	SignalRemoved         Signal = "removed"
)

// AddItem inserts the product with quantity 1, or bumps the existing line by
// one. A bump past the stock snapshot is a no-op with a capacity signal, not
// a silently invalid quantity. The input slice is never mutated.
func AddItem(items []models.CartItem, product models.CartItem) ([]models.CartItem, Signal) {
	next := clone(items)

	for i, item := range next {
		if item.ProductID != product.ProductID {
			continue
		}
		if item.Quantity+1 > item.Stock {
			return next, SignalCapacityReached
		}
		next[i].Quantity++
		return next, SignalAdded
	}

	product.Quantity = 1
	if product.Stock < 1 {
		// Out-of-stock product: nothing to add.
		return next, SignalCapacityReached
	}
	return append(next, product), SignalAdded
}

// UpdateQuantity sets a line's quantity, clamped into [1, stock]. When the
// clamp changed the requested value the clamped signal rides along so the UI
// can tell the buyer why. A line whose stock snapshot dropped to zero has no
// valid quantity left; it is removed instead of being pinned above stock.
func UpdateQuantity(items []models.CartItem, productID string, requested int) ([]models.CartItem, Signal) {
	next := clone(items)

	for i, item := range next {
		if item.ProductID != productID {
			continue
		}
		if item.Stock < 1 {
			return append(next[:i], next[i+1:]...), SignalRemoved
		}
		clamped := requested
		if clamped < 1 {
			clamped = 1
		}
		if clamped > item.Stock {
			clamped = item.Stock
		}
		next[i].Quantity = clamped
		if clamped != requested {
			return next, SignalClamped
		}
		return next, SignalNone
	}

	return next, SignalNone
}

// RemoveItem deletes the line for productID.
func RemoveItem(items []models.CartItem, productID string) ([]models.CartItem, Signal) {
	next := make([]models.CartItem, 0, len(items))
	removed := false
	for _, item := range items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		next = append(next, item)
	}
	if removed {
		return next, SignalRemoved
	}
	return next, SignalNone
}

// TotalPrice folds price×quantity over the cart. Lines with a corrupted
// price or quantity are skipped so a single bad entry cannot turn the whole
// total into NaN.
func TotalPrice(items []models.CartItem) float64 {
	total := 0.0
	for _, item := range items {
		if !validLine(item) {
			continue
		}
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// TotalItems counts units across all valid lines.
func TotalItems(items []models.CartItem) int {
	count := 0
	for _, item := range items {
		if !validLine(item) {
			continue
		}
		count += item.Quantity
	}
	return count
}

func validLine(item models.CartItem) bool {
	if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) || item.Price < 0 {
		return false
	}
	return item.Quantity > 0
}

func clone(items []models.CartItem) []models.CartItem {
	next := make([]models.CartItem, len(items))
	copy(next, items)
	return next
}
