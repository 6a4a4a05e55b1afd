// Package ratelimit provides token-bucket rate limiting for LLM calls
// and HTTP requests.
package ratelimit

import (
	"sync"
	"time"
)

// Bucket is a token-bucket rate limiter, safe for concurrent use.
// Tokens refill continuously at refillRate per second up to maxTokens;
// each permitted request consumes one token.
type Bucket struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64
	lastRefill time.Time
}

// NewBucket creates a bucket with the given burst capacity and
// per-second refill rate. The bucket starts full.
func NewBucket(maxTokens, refillRate float64) *Bucket {
	return &Bucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow consumes one token when available.
func (b *Bucket) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill()
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Available returns the current token count.
func (b *Bucket) Available() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill()
	return b.tokens
}

// Full reports whether the bucket is back at capacity, i.e. the key has
// been idle long enough to be forgotten.
func (b *Bucket) Full() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill()
	return b.tokens >= b.maxTokens
}

// refill adds elapsed-time tokens. Caller must hold b.mu.
func (b *Bucket) refill() {
	now := time.Now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens += elapsed * b.refillRate
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}
	b.lastRefill = now
}
