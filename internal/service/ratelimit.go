package service

import (
	"sync"
	"time"
)

// Stale buckets are pruned once the map grows past this many keys.
const maxBuckets = 4096

// TokenBucket is an in-memory per-key rate limiter. It is safe for
// concurrent use. Login handlers key it by email so a burst of attempts
// against one account drains that account's bucket only.
type TokenBucket struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens added per second
	capacity float64 // maximum tokens
	now      func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewTokenBucket creates a rate limiter allowing up to capacity calls per
// key, refilling at rate tokens per second.
func NewTokenBucket(rate, capacity float64) *TokenBucket {
	return &TokenBucket{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		now:      time.Now,
	}
}

// Allow reports whether the given key may proceed under the rate limit.
// Each allowed call consumes one token.
func (tb *TokenBucket) Allow(key string) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()

	b, ok := tb.buckets[key]
	if !ok {
		if len(tb.buckets) >= maxBuckets {
			tb.pruneLocked(now)
		}
		b = &bucket{tokens: tb.capacity, last: now}
		tb.buckets[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*tb.rate, tb.capacity)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// pruneLocked drops buckets idle long enough to have refilled completely,
// since they are indistinguishable from absent ones.
func (tb *TokenBucket) pruneLocked(now time.Time) {
	idle := time.Duration(tb.capacity/tb.rate*float64(time.Second)) + time.Minute
	cutoff := now.Add(-idle)
	for key, b := range tb.buckets {
		if b.last.Before(cutoff) {
			delete(tb.buckets, key)
		}
	}
}
