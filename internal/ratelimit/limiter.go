package ratelimit

import (
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 16

// Decision is the outcome of one admission check. Limit and Remaining are
// always populated so callers can render quota headers; RetryAfter is set
// only on rejection.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type window struct {
	count     int
	startedAt time.Time
}

type shard struct {
	mu      sync.Mutex
	windows map[string]window
}

// Limiter is a fixed-window request counter per client key. The key space is
// sharded so unrelated clients never contend on one lock; within a shard a
// window is replaced wholesale when it expires, never partially updated.
//
// Fixed windows deliberately admit brief bursts at window boundaries. That is
// acceptable for the limiter's protective role; it is not a precision
// guarantee.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time
	shards [shardCount]*shard
}

func New(limit int, windowSize time.Duration) *Limiter {
	l := &Limiter{
		limit:  limit,
		window: windowSize,
		now:    time.Now,
	}
	for i := range l.shards {
		l.shards[i] = &shard{windows: make(map[string]window)}
	}
	return l
}

// Allow admits or rejects one request for key.
func (l *Limiter) Allow(key string) Decision {
	sh := l.shardFor(key)
	now := l.now()

	sh.mu.Lock()
	defer sh.mu.Unlock()

	w, exists := sh.windows[key]
	if !exists || now.Sub(w.startedAt) >= l.window {
		sh.windows[key] = window{count: 1, startedAt: now}
		l.sweepLocked(sh, now)
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit - 1}
	}

	if w.count >= l.limit {
		return Decision{
			Allowed:    false,
			Limit:      l.limit,
			Remaining:  0,
			RetryAfter: l.window,
		}
	}

	w.count++
	sh.windows[key] = w
	return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit - w.count}
}

func (l *Limiter) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return l.shards[h.Sum32()%shardCount]
}

// sweepLocked drops expired windows from the shard. Piggybacked on window
// rollover so idle keys do not accumulate forever; the caller holds the lock.
func (l *Limiter) sweepLocked(sh *shard, now time.Time) {
	if len(sh.windows) < 1024 {
		return
	}
	for key, w := range sh.windows {
		if now.Sub(w.startedAt) >= l.window {
			delete(sh.windows, key)
		}
	}
}
