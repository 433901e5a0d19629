package mdpress

import (
	"testing"
	"time"
)

func TestPublishLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewPublishLimiter(2, 200*time.Millisecond)
	ip := "203.0.113.10"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first call to be allowed")
	}
	if !limiter.Allow(ip) {
		t.Fatalf("expected second call to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected third call to be blocked")
	}
}

func TestPublishLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewPublishLimiter(1, 150*time.Millisecond)
	ip := "203.0.113.20"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first call to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected second call to be blocked")
	}

	time.Sleep(200 * time.Millisecond)
	if !limiter.Allow(ip) {
		t.Fatalf("expected call after window to be allowed")
	}
}

func TestPublishLimiterIsPerIP(t *testing.T) {
	limiter := NewPublishLimiter(1, 200*time.Millisecond)

	if !limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !limiter.Allow("203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}
