package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(ttl time.Duration) (*TTLCache[string, int], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewTTLCache[string, int](ttl)
	c.now = clock.now
	return c, clock
}

func TestTTLCacheGetSet(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	if _, ok := c.Get("PLN"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Set("PLN", 23)
	if v, ok := c.Get("PLN"); !ok || v != 23 {
		t.Fatalf("expected 23, got %d (ok=%v)", v, ok)
	}

	clock.t = clock.t.Add(2 * time.Minute)
	if _, ok := c.Get("PLN"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if _, ok := c.items["PLN"]; ok {
		t.Fatal("expected expired entry removed")
	}
}

func TestTTLCacheSetRefreshesExpiry(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	c.Set("a", 1)

	clock.t = clock.t.Add(45 * time.Second)
	c.Set("a", 2)
	clock.t = clock.t.Add(45 * time.Second)

	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Fatalf("expected overwritten entry to live on, got %d (ok=%v)", v, ok)
	}
}
