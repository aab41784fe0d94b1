// Package ratelimiter implements a per-key token bucket.
package ratelimiter

import (
	"sync"
	"time"
)

// bucket is one key's token bucket.
type bucket struct {
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	mu         sync.Mutex
	expiry     *time.Timer
	key        string
	parent     *KeyedLimiter
}

// KeyedLimiter manages one bucket per identity (IP, email, account id).
// Idle buckets expire so the map does not grow without bound.
type KeyedLimiter struct {
	buckets        map[string]*bucket
	mu             sync.RWMutex
	rate           float64
	capacity       float64
	expirationTime time.Duration
}

// New creates a limiter refilling rate tokens per second up to capacity.
func New(rate float64, capacity float64, expirationTime time.Duration) *KeyedLimiter {
	return &KeyedLimiter{
		buckets:        make(map[string]*bucket),
		rate:           rate,
		capacity:       capacity,
		expirationTime: expirationTime,
	}
}

func (kl *KeyedLimiter) cleanup(key string) {
	kl.mu.Lock()
	delete(kl.buckets, key)
	kl.mu.Unlock()
}

// touch pushes back the bucket's idle expiry. Concurrent requests for
// the same key land here holding only the limiter's read lock, so the
// timer swap must happen under the bucket lock.
func (b *bucket) touch() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.expiry != nil {
		b.expiry.Stop()
	}
	b.expiry = time.AfterFunc(b.parent.expirationTime, func() {
		b.parent.cleanup(b.key)
	})
}

func (kl *KeyedLimiter) getBucket(key string) *bucket {
	kl.mu.RLock()
	b, exists := kl.buckets[key]
	kl.mu.RUnlock()

	if !exists {
		kl.mu.Lock()
		// Another request may have created the bucket in the meantime
		b, exists = kl.buckets[key]
		if !exists {
			b = &bucket{
				tokens:     kl.capacity,
				capacity:   kl.capacity,
				rate:       kl.rate,
				lastRefill: time.Now(),
				key:        key,
				parent:     kl,
			}
			kl.buckets[key] = b
		}
		kl.mu.Unlock()
	}

	b.touch()
	return b
}

func (b *bucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()

	b.tokens += elapsed * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Allow reports whether a request for the given key may proceed.
func (kl *KeyedLimiter) Allow(key string) bool {
	return kl.getBucket(key).allow()
}

// Stop cancels all expiration timers.
func (kl *KeyedLimiter) Stop() {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	for _, b := range kl.buckets {
		b.mu.Lock()
		if b.expiry != nil {
			b.expiry.Stop()
		}
		b.mu.Unlock()
	}
}
