package ratelimit

import (
	"testing"
)

func TestBucketAllow(t *testing.T) {
	t.Parallel()

	b := NewBucket(3, 0)
	for i := 0; i < 3; i++ {
		if !b.Allow() {
			t.Fatalf("request %d: expected allow", i)
		}
	}
	if b.Allow() {
		t.Error("expected deny once tokens are exhausted")
	}
}

func TestBucketAvailable(t *testing.T) {
	t.Parallel()

	b := NewBucket(5, 0)
	if got := b.Available(); got != 5 {
		t.Fatalf("Available() = %v, want 5", got)
	}
	b.Allow()
	b.Allow()
	if got := b.Available(); got != 3 {
		t.Errorf("Available() = %v, want 3", got)
	}
}

func TestBucketRefill(t *testing.T) {
	t.Parallel()

	// A very high refill rate restores the token between calls.
	b := NewBucket(1, 1e9)
	if !b.Allow() {
		t.Fatal("first request should pass")
	}
	if !b.Allow() {
		t.Error("expected refill to restore the token")
	}
}

func TestBucketCapsAtMax(t *testing.T) {
	t.Parallel()

	b := NewBucket(2, 1e9)
	b.Allow()
	if got := b.Available(); got > 2 {
		t.Errorf("Available() = %v, want at most the capacity", got)
	}
	if !b.Full() {
		t.Error("expected bucket to report full after refill")
	}
}
