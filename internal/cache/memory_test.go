package cache

import (
	"testing"
	"time"
)

func TestPageCacheRoundTrip(t *testing.T) {
	c := NewPageCache(time.Minute)

	key := Key("https://www.amazon.co.jp/dp/B0TEST")
	if _, found := c.Get(key); found {
		t.Fatal("unexpected hit on empty cache")
	}

	if err := c.Set(key, []byte("<html>page</html>"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	body, found := c.Get(key)
	if !found {
		t.Fatal("expected hit after Set")
	}
	if string(body) != "<html>page</html>" {
		t.Errorf("body = %q", body)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Fatal("hit after Delete")
	}
}

func TestPageCacheExpiry(t *testing.T) {
	c := NewPageCache(time.Minute)
	key := Key("https://www.amazon.co.jp/dp/B0SHORT")

	if err := c.Set(key, []byte("x"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get(key); found {
		t.Fatal("entry survived its TTL")
	}
}

func TestKeyIsStableAndDistinct(t *testing.T) {
	a := Key("https://www.amazon.co.jp/dp/B0ONE")
	b := Key("https://www.amazon.co.jp/dp/B0TWO")
	if a == b {
		t.Error("distinct URLs share a key")
	}
	if a != Key("https://www.amazon.co.jp/dp/B0ONE") {
		t.Error("key is not stable")
	}
}
