package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "plan:abc", []byte("{}"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "plan:abc")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "plan:abc"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(4)

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("Get on an empty cache should miss")
	}

	value := []byte("png bytes")
	if err := c.Set(ctx, "artifact:1", value, time.Hour); err != nil {
		t.Fatal(err)
	}
	value[0] = 'X'

	got, hit, err := c.Get(ctx, "artifact:1")
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v; want a hit", hit, err)
	}
	if string(got) != "png bytes" {
		t.Errorf("Get = %q, want a copy of the stored value", got)
	}

	got[0] = 'Y'
	again, _, _ := c.Get(ctx, "artifact:1")
	if string(again) != "png bytes" {
		t.Errorf("mutating a returned value changed the cache: %q", again)
	}

	if err := c.Delete(ctx, "artifact:1"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "artifact:1"); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "short", []byte("a"), time.Minute)
	c.Set(ctx, "forever", []byte("b"), 0)

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after the expired entry is dropped", c.Len())
	}
}

func TestMemoryCacheEvictsOldest(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(3)

	for i := range 5 {
		c.Set(ctx, fmt.Sprintf("k%d", i), []byte{byte(i)}, 0)
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	for i, want := range []bool{false, false, true, true, true} {
		if _, hit, _ := c.Get(ctx, fmt.Sprintf("k%d", i)); hit != want {
			t.Errorf("k%d hit = %v, want %v", i, hit, want)
		}
	}

	// Overwriting keeps the original position; re-adding after a delete
	// moves the key to the back.
	c.Set(ctx, "k2", []byte("new"), 0)
	c.Delete(ctx, "k3")
	c.Set(ctx, "k3", []byte("back"), 0)
	c.Set(ctx, "k5", []byte("five"), 0)
	if _, hit, _ := c.Get(ctx, "k2"); hit {
		t.Error("k2 should be evicted first")
	}
	for _, k := range []string{"k3", "k4", "k5"} {
		if _, hit, _ := c.Get(ctx, k); !hit {
			t.Errorf("%s should still be cached", k)
		}
	}
}
