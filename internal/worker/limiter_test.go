package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_UnlimitedNeverBlocks(t *testing.T) {
	limiter := NewLimiter(0, 1)

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("unlimited limiter blocked for %v", elapsed)
	}
}

func TestLimiter_AllowRespectsRate(t *testing.T) {
	// 1 req/s with burst 1: the first request passes, the immediate second
	// one does not
	limiter := NewLimiter(1, 1)

	if !limiter.Allow() {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow() {
		t.Fatal("second immediate request should be limited")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	if !limiter.Allow() {
		t.Fatal("first request should be allowed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Fatal("expected context error while waiting")
	}
}

func TestLimiter_DefaultBurst(t *testing.T) {
	limiter := NewLimiter(1, 0)
	if !limiter.Allow() {
		t.Fatal("limiter with defaulted burst should allow the first request")
	}
}
