package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestCache(ttl time.Duration) (*Cache, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := New(ttl)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestLookupMissThenHit(t *testing.T) {
	c, _ := newTestCache(5 * time.Minute)
	ctx := context.Background()

	calls := 0
	compute := func(ctx context.Context) (interface{}, error) {
		calls++
		return "aggregate-result", nil
	}

	value, hit, err := c.Lookup(ctx, "popular:10", compute)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if hit {
		t.Fatal("first lookup must be a miss")
	}
	if value != "aggregate-result" {
		t.Fatalf("unexpected value %v", value)
	}

	value, hit, err = c.Lookup(ctx, "popular:10", compute)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !hit {
		t.Fatal("second lookup within TTL must be a hit")
	}
	if value != "aggregate-result" {
		t.Fatalf("hit must return the cached value, got %v", value)
	}
	if calls != 1 {
		t.Fatalf("compute must run once, ran %d times", calls)
	}
}

func TestLookupRecomputesAfterTTL(t *testing.T) {
	c, now := newTestCache(5 * time.Minute)
	ctx := context.Background()

	calls := 0
	compute := func(ctx context.Context) (interface{}, error) {
		calls++
		return calls, nil
	}

	c.Lookup(ctx, "k", compute)
	*now = now.Add(5 * time.Minute)

	value, hit, err := c.Lookup(ctx, "k", compute)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if hit {
		t.Fatal("lookup after TTL must be a miss")
	}
	if value != 2 || calls != 2 {
		t.Fatalf("expected exactly one recomputation, calls=%d value=%v", calls, value)
	}
}

func TestLookupErrorIsNotCached(t *testing.T) {
	c, _ := newTestCache(5 * time.Minute)
	ctx := context.Background()

	boom := errors.New("aggregation failed")
	fail := true
	compute := func(ctx context.Context) (interface{}, error) {
		if fail {
			return nil, boom
		}
		return "ok", nil
	}

	if _, _, err := c.Lookup(ctx, "k", compute); !errors.Is(err, boom) {
		t.Fatalf("expected compute error, got %v", err)
	}

	fail = false
	value, hit, err := c.Lookup(ctx, "k", compute)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if hit {
		t.Fatal("a failed compute must not populate the cache")
	}
	if value != "ok" {
		t.Fatalf("unexpected value %v", value)
	}
}

func TestConcurrentMissRecomputesOnce(t *testing.T) {
	c := New(5 * time.Minute)
	ctx := context.Background()

	var calls int32
	compute := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return "v", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := c.Lookup(ctx, "hot-key", compute); err != nil {
				t.Errorf("lookup failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("concurrent misses for one key must compute once, got %d", n)
	}
}

func TestDistinctKeysDoNotShareEntries(t *testing.T) {
	c, _ := newTestCache(5 * time.Minute)
	ctx := context.Background()

	a, _, _ := c.Lookup(ctx, Key("popular-products", 10), func(ctx context.Context) (interface{}, error) { return "ten", nil })
	b, _, _ := c.Lookup(ctx, Key("popular-products", 20), func(ctx context.Context) (interface{}, error) { return "twenty", nil })

	if a == b {
		t.Fatal("different parameters must produce different entries")
	}
}

func TestKeyBuilder(t *testing.T) {
	if got := Key("popular-products", 10); got != "popular-products:10" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := Key("search", "shoes", 2); got != "search:shoes:2" {
		t.Fatalf("unexpected key %q", got)
	}
}
