package ratelimit

import (
	"sync"
	"time"
)

// bucket is a single token bucket. Tokens refill continuously at
// refillRate per second up to capacity.
type bucket struct {
	mu         sync.Mutex
	capacity   int
	tokens     float64
	refillRate float64
	lastRefill time.Time
}

func newBucket(capacity int, refillRate float64) *bucket {
	return &bucket{
		capacity:   capacity,
		tokens:     float64(capacity),
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

func (b *bucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * b.refillRate
	if b.tokens > float64(b.capacity) {
		b.tokens = float64(b.capacity)
	}
	b.lastRefill = now

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}
	return false
}

// Limiter tracks one token bucket per key, typically a client IP. Inactive
// buckets are dropped after the TTL so the map does not grow unbounded.
type Limiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	capacity   int
	refillRate float64
	ttl        time.Duration
}

// NewLimiter creates a keyed rate limiter allowing a burst of capacity
// requests and a sustained refillRate requests per second per key. A ttl of
// zero keeps buckets forever.
func NewLimiter(capacity int, refillRate float64, ttl time.Duration) *Limiter {
	l := &Limiter{
		buckets:    make(map[string]*bucket),
		capacity:   capacity,
		refillRate: refillRate,
		ttl:        ttl,
	}
	if ttl > 0 {
		go l.cleanup()
	}
	return l
}

// Allow reports whether a request for the given key is within its budget
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(l.capacity, l.refillRate)
		l.buckets[key] = b
	}
	l.mu.Unlock()

	return b.allow()
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.ttl)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, b := range l.buckets {
			b.mu.Lock()
			idle := now.Sub(b.lastRefill) > l.ttl
			b.mu.Unlock()
			if idle {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}
