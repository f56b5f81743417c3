package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/kv"
	"storefront/internal/models"
)

// Carts are kept for a month of inactivity before the store may drop them.
const retention = 30 * 24 * time.Hour

// Key builds the namespaced storage key for one owner's cart.
func Key(ownerID string) string {
	return fmt.Sprintf("storefront:cart:%s", ownerID)
}

// Store persists the whole cart as one JSON document under a single key.
// Every mutation saves the full snapshot; sessions rehydrate it once at
// start, so a fresh session never treats a transient empty cart as truth.
type Store struct {
	kv kv.Store
}

func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// Load returns the owner's saved cart, or an empty cart when none exists.
func (s *Store) Load(ctx context.Context, ownerID string) ([]models.CartItem, error) {
	raw, err := s.kv.Get(ctx, Key(ownerID))
	if errors.Is(err, kv.ErrMiss) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	items := make([]models.CartItem, 0)
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("corrupt cart snapshot: %w", err)
	}
	return items, nil
}

// Save writes the current cart snapshot.
func (s *Store) Save(ctx context.Context, ownerID string, items []models.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, Key(ownerID), raw, retention)
}

// Clear drops the owner's cart, typically after a successful checkout.
func (s *Store) Clear(ctx context.Context, ownerID string) error {
	return s.kv.Delete(ctx, Key(ownerID))
}
