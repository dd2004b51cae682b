package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const testRobotsTxt = `User-agent: *
Disallow: /gp/
Crawl-delay: 2

User-agent: BadBot
Disallow: /
`

func robotsServer(t *testing.T, robotsHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", robotsHandler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestCanFetchAllowsAndBlocks(t *testing.T) {
	server := robotsServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testRobotsTxt)
	})
	checker := NewRobotsChecker("esimprice-test", 5*time.Second)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/dp/B0TEST")
	if err != nil {
		t.Fatalf("CanFetch: %v", err)
	}
	if !allowed {
		t.Error("allowed path reported blocked")
	}
	if delay != 2*time.Second {
		t.Errorf("crawl delay = %v, want 2s", delay)
	}

	allowed, _, err = checker.CanFetch(ctx, server.URL+"/gp/cart")
	if err != nil {
		t.Fatalf("CanFetch: %v", err)
	}
	if allowed {
		t.Error("disallowed path reported allowed")
	}
}

func TestCanFetchCachesPerHost(t *testing.T) {
	var hits atomic.Int32
	server := robotsServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, testRobotsTxt)
	})
	checker := NewRobotsChecker("esimprice-test", 5*time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, _, err := checker.CanFetch(ctx, server.URL+"/dp/B0TEST"); err != nil {
			t.Fatalf("CanFetch #%d: %v", i+1, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("robots.txt fetched %d times, want 1", got)
	}
}

func TestCanFetchMissingRobotsAllowsAll(t *testing.T) {
	server := robotsServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	checker := NewRobotsChecker("esimprice-test", 5*time.Second)

	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/dp/B0TEST")
	if err != nil {
		t.Fatalf("CanFetch: %v", err)
	}
	if !allowed {
		t.Error("404 robots.txt should allow everything")
	}
}

func TestCanFetchUnreachableHostAllows(t *testing.T) {
	checker := NewRobotsChecker("esimprice-test", 200*time.Millisecond)

	allowed, _, err := checker.CanFetch(context.Background(), "http://127.0.0.1:1/dp/B0TEST")
	if err != nil {
		t.Fatalf("CanFetch: %v", err)
	}
	if !allowed {
		t.Error("unreachable robots endpoint should not block the batch")
	}
}
