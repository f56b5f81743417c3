package repository

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when a document does not exist or is not
	// visible to the caller (soft-deleted, inactive).
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a conditional update matched nothing,
	// meaning another writer changed the document first.
	ErrConflict = errors.New("conflict: document changed concurrently")
)

// InsufficientStockError is returned when an atomic stock decrement would
// take the quantity below zero.
type InsufficientStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d",
		e.ProductID.Hex(), e.Available, e.Requested)
}
