package cache

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestHash(t *testing.T) {
	h := Hash([]byte("hello"))
	if len(h) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(h))
	}
	if h != Hash([]byte("hello")) {
		t.Error("hash is not deterministic")
	}
	if h == Hash([]byte("world")) {
		t.Error("distinct inputs collided")
	}
}

func TestCheckKey(t *testing.T) {
	key := CheckKey("abc123", "AG !crash")
	if !strings.HasPrefix(key, "check:abc123:") {
		t.Errorf("unexpected key shape: %s", key)
	}
	if key == CheckKey("abc123", "EF crash") {
		t.Error("different formulas must produce different keys")
	}
	if key == CheckKey("def456", "AG !crash") {
		t.Error("different models must produce different keys")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Errorf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "k1", []byte("v1"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := c.Get(ctx, "k1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(data, []byte("v1")) {
		t.Errorf("expected v1, got %q", data)
	}

	if err := c.Delete(ctx, "k1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k1"); ok {
		t.Error("entry survived deletion")
	}

	// Deleting a missing key is not an error.
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestFileCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k1", []byte("v1"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, ok, err := c.Get(ctx, "k1"); err != nil || ok {
		t.Errorf("expected expired entry to miss, got ok=%v err=%v", ok, err)
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()

	if err := c.Set(ctx, "k1", []byte("v1"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k1"); err != nil || ok {
		t.Errorf("null cache must always miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestScopedCache(t *testing.T) {
	ctx := context.Background()
	inner, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	a := NewScopedCache(inner, "a:")
	b := NewScopedCache(inner, "b:")

	if err := a.Set(ctx, "k", []byte("from-a"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := b.Get(ctx, "k"); ok {
		t.Error("scopes must not collide")
	}
	data, ok, err := a.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(data, []byte("from-a")) {
		t.Errorf("expected from-a, got %q", data)
	}
}
