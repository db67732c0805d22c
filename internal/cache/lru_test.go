package cache

import (
	"testing"
	"time"
)

func TestLRUCacheEviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a becomes most recent
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("a = %v, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("size = %d, want 2", c.Size())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected hit before ttl")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after ttl")
	}

	c.Set("x", "1")
	c.Set("y", "2")
	now = now.Add(2 * time.Minute)
	if n := c.CleanExpired(); n != 2 {
		t.Errorf("CleanExpired() = %d, want 2", n)
	}
}

func TestLRUCacheDeletePrefix(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("sess1|week", 1)
	c.Set("sess1|month", 2)
	c.Set("sess2|week", 3)

	if n := c.DeletePrefix("sess1|"); n != 2 {
		t.Errorf("DeletePrefix() = %d, want 2", n)
	}
	if _, ok := c.Get("sess2|week"); !ok {
		t.Error("other session's entry should survive")
	}
}

func TestManagerCleanNow(t *testing.T) {
	m := NewManager(nil)
	calls := 0
	m.Register(CleanerFunc(func() int { calls++; return 3 }))
	m.Register(NewLRUCache[int](1, time.Minute))

	if n := m.CleanNow(); n != 3 {
		t.Errorf("CleanNow() = %d, want 3", n)
	}
	if calls != 1 {
		t.Errorf("cleaner called %d times", calls)
	}

	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()
}
