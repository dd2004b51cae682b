package crawl

import (
	"context"
	"testing"
	"time"
)

func TestLimiterAllowsBurst(t *testing.T) {
	limiter := NewLimiter(1.0, 3)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx, "https://www.amazon.co.jp/dp/B0TEST"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("burst of 3 took %v, expected near-instant", elapsed)
	}
}

func TestLimiterThrottlesBeyondBurst(t *testing.T) {
	limiter := NewLimiter(10.0, 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx, "https://www.amazon.co.jp/dp/B0TEST"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	// 10 rps with burst 1 means two 100ms waits after the first token.
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("3 requests took %v, expected throttling", elapsed)
	}
}

func TestLimiterIsolatesDomains(t *testing.T) {
	limiter := NewLimiter(1.0, 1)
	ctx := context.Background()

	urls := []string{
		"https://www.amazon.co.jp/dp/B0ONE",
		"https://example.com/dp/B0TWO",
		"https://example.org/dp/B0THREE",
	}

	start := time.Now()
	for _, u := range urls {
		if err := limiter.Wait(ctx, u); err != nil {
			t.Fatalf("Wait(%s): %v", u, err)
		}
	}
	// Each domain has its own bucket, so the first token of each is free.
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("first request per domain took %v, expected near-instant", elapsed)
	}
}

func TestLimiterWaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100.0, 1)
	ctx := context.Background()

	start := time.Now()
	err := limiter.WaitWithDelay(ctx, "https://www.amazon.co.jp/dp/B0TEST", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitWithDelay: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("delay not honored: %v", elapsed)
	}
}

func TestLimiterWaitWithDelayCanceled(t *testing.T) {
	limiter := NewLimiter(100.0, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.WaitWithDelay(ctx, "https://www.amazon.co.jp/dp/B0TEST", time.Second)
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
}

func TestLimiterRejectsUnparsableURL(t *testing.T) {
	limiter := NewLimiter(1.0, 1)
	if err := limiter.Wait(context.Background(), "://not-a-url"); err == nil {
		t.Fatal("expected error for unparsable URL")
	}
}
