package cache

import (
	"testing"
	"time"
)

func TestLRUSetGetAndExpire(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewLRU[string, int](2, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected cached value, got %v %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected value to expire")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be removed, len=%d", c.Len())
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[string, int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected oldest entry to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected recent entry to remain")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatalf("expected newest entry to remain")
	}
}

func TestLRUGetOrCreateReusesLiveEntry(t *testing.T) {
	c := NewLRU[string, *int](4, time.Minute)
	calls := 0
	create := func() *int {
		calls++
		v := calls
		return &v
	}

	first := c.GetOrCreate("s", create)
	second := c.GetOrCreate("s", create)
	if first != second || calls != 1 {
		t.Fatalf("expected a single creation, calls=%d", calls)
	}
}

func TestLRUGetSlidesExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewLRU[string, int](2, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	now = now.Add(50 * time.Second)
	c.Get("a")
	now = now.Add(50 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("recently read entry should still be alive")
	}
}
