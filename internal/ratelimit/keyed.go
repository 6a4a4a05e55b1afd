package ratelimit

import (
	"sync"
	"time"
)

// KeyedConfig configures a KeyedLimiter.
type KeyedConfig struct {
	MaxTokens     float64       // Burst capacity per key
	RefillRate    float64       // Tokens per second per key
	CleanupPeriod time.Duration // Sweep interval for idle buckets
}

// KeyedLimiter maintains one token bucket per key (session ID, client
// IP) and forgets buckets that have refilled to capacity.
type KeyedLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*Bucket
	config  KeyedConfig
	onDrop  func()
	stopCh  chan struct{}
	stop    sync.Once
}

// NewKeyedLimiter creates a keyed limiter and starts its sweep loop.
func NewKeyedLimiter(cfg KeyedConfig) *KeyedLimiter {
	kl := &KeyedLimiter{
		buckets: make(map[string]*Bucket),
		config:  cfg,
		stopCh:  make(chan struct{}),
	}
	if cfg.CleanupPeriod > 0 {
		go kl.sweep()
	}
	return kl
}

// OnDrop registers a callback invoked for every rejected request.
func (kl *KeyedLimiter) OnDrop(fn func()) {
	kl.onDrop = fn
}

// Allow consumes one token for key. An empty key is always allowed.
func (kl *KeyedLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	kl.mu.RLock()
	bucket, ok := kl.buckets[key]
	kl.mu.RUnlock()

	if !ok {
		kl.mu.Lock()
		if bucket, ok = kl.buckets[key]; !ok {
			bucket = NewBucket(kl.config.MaxTokens, kl.config.RefillRate)
			kl.buckets[key] = bucket
		}
		kl.mu.Unlock()
	}

	allowed := bucket.Allow()
	if !allowed && kl.onDrop != nil {
		kl.onDrop()
	}
	return allowed
}

// Available returns the remaining tokens for key, or the full capacity
// for keys without a bucket yet.
func (kl *KeyedLimiter) Available(key string) float64 {
	kl.mu.RLock()
	bucket, ok := kl.buckets[key]
	kl.mu.RUnlock()
	if !ok {
		return kl.config.MaxTokens
	}
	return bucket.Available()
}

// ActiveCount returns the number of tracked keys.
func (kl *KeyedLimiter) ActiveCount() int {
	kl.mu.RLock()
	defer kl.mu.RUnlock()
	return len(kl.buckets)
}

// Stop terminates the sweep loop. Safe to call multiple times.
func (kl *KeyedLimiter) Stop() {
	kl.stop.Do(func() { close(kl.stopCh) })
}

func (kl *KeyedLimiter) sweep() {
	ticker := time.NewTicker(kl.config.CleanupPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-kl.stopCh:
			return
		case <-ticker.C:
			kl.mu.Lock()
			for key, bucket := range kl.buckets {
				if bucket.Full() {
					delete(kl.buckets, key)
				}
			}
			kl.mu.Unlock()
		}
	}
}

// NewLLMLimiter builds a keyed limiter sized for per-session LLM call
// budgets: maxPerHour burst with an hourly refill.
func NewLLMLimiter(maxPerHour float64, cleanup time.Duration) *KeyedLimiter {
	return NewKeyedLimiter(KeyedConfig{
		MaxTokens:     maxPerHour,
		RefillRate:    maxPerHour / 3600.0,
		CleanupPeriod: cleanup,
	})
}
