package cache

import (
	"testing"
	"time"
)

func TestTTLSetGet(t *testing.T) {
	c := NewTTL[string, int](2, time.Second)
	c.Set("a", 1)

	value, ok := c.Get("a")
	if !ok || value != 1 {
		t.Fatalf("expected 1, got %d (ok=%v)", value, ok)
	}
}

func TestTTLEvictsOldest(t *testing.T) {
	c := NewTTL[string, int](2, time.Second)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected key 'a' to be evicted")
	}
	if value, ok := c.Get("c"); !ok || value != 3 {
		t.Fatalf("expected key 'c' to remain")
	}
}

func TestTTLExpires(t *testing.T) {
	c := NewTTL[string, int](2, 10*time.Millisecond)
	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected key 'a' to expire")
	}
}

func TestTTLModifyCounts(t *testing.T) {
	c := NewTTL[string, int](4, time.Second)
	incr := func(current int, _ bool) int { return current + 1 }

	for i := 1; i <= 3; i++ {
		count, ok := c.Modify("k", incr)
		if !ok || count != i {
			t.Fatalf("expected count %d, got %d (ok=%v)", i, count, ok)
		}
	}
}

func TestTTLModifyNilFn(t *testing.T) {
	c := NewTTL[string, int](4, time.Second)
	if _, ok := c.Modify("k", nil); ok {
		t.Fatalf("expected modify with nil fn to be a no-op")
	}
}
