package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Remote backends run only when a server is provided, e.g.
//
//	STRINGART_TEST_REDIS=redis://localhost:6379/15
//	STRINGART_TEST_MONGO=mongodb://localhost:27017/stringart_test

func TestRedisCache(t *testing.T) {
	url := os.Getenv("STRINGART_TEST_REDIS")
	if url == "" {
		t.Skip("STRINGART_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("STRINGART_TEST_MONGO")
	if uri == "" {
		t.Skip("STRINGART_TEST_MONGO not set")
	}
	ctx := context.Background()
	c, err := NewMongoCache(ctx, uri)
	if err != nil {
		t.Fatalf("NewMongoCache error: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "test:" + time.Now().Format(time.RFC3339Nano)
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get(new key) = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("entry should be gone after Delete")
	}
}
