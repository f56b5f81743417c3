package cart

import (
	"context"
	"testing"
	"time"

	"storefront/internal/kv"
	"storefront/internal/models"
)

type memKV struct {
	data map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (s *memKV) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := s.data[key]
	if !ok {
		return nil, kv.ErrMiss
	}
	return value, nil
}

func (s *memKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.data[key] = value
	return nil
}

func (s *memKV) Delete(ctx context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(newMemKV())
	ctx := context.Background()

	items := []models.CartItem{
		{ProductID: "p1", Name: "Keyboard", Price: 99.9, Quantity: 2, Stock: 5},
	}
	if err := store.Save(ctx, "user-1", items); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "user-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ProductID != "p1" || loaded[0].Quantity != 2 {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestLoadMissingCartIsEmptyNotError(t *testing.T) {
	store := NewStore(newMemKV())

	items, err := store.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("missing cart must load as empty, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
}

func TestCartsAreNamespacedPerOwner(t *testing.T) {
	store := NewStore(newMemKV())
	ctx := context.Background()

	if err := store.Save(ctx, "alice", []models.CartItem{{ProductID: "p1", Price: 1, Quantity: 1, Stock: 9}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	bobItems, err := store.Load(ctx, "bob")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(bobItems) != 0 {
		t.Fatalf("owners must not share carts, got %+v", bobItems)
	}
}

func TestCorruptSnapshotSurfacesError(t *testing.T) {
	backing := newMemKV()
	backing.data[Key("user-1")] = []byte("{not json")
	store := NewStore(backing)

	if _, err := store.Load(context.Background(), "user-1"); err == nil {
		t.Fatal("expected error for corrupt snapshot")
	}
}

func TestClearDropsCart(t *testing.T) {
	store := NewStore(newMemKV())
	ctx := context.Background()

	if err := store.Save(ctx, "user-1", []models.CartItem{{ProductID: "p1", Price: 1, Quantity: 1, Stock: 9}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Clear(ctx, "user-1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	items, err := store.Load(ctx, "user-1")
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v err=%v", items, err)
	}
}
