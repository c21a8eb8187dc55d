//go:build integration
// +build integration

package valkey_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/samirrijal/searoute/internal/adapters/valkey"
)

func newCache(t *testing.T) *valkey.Cache {
	addr := os.Getenv("SEAROUTE_VALKEY_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	c, err := valkey.New(addr, "searoute-test:")
	if err != nil {
		t.Fatalf("connect valkey: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestCache_RoundTrip(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := c.Set(ctx, "route:abc", []byte(`[[1,2],[3,4]]`), 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.Get(ctx, "route:abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[[1,2],[3,4]]` {
		t.Errorf("unexpected value %q", got)
	}

	if err := c.Delete(ctx, "route:abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get(ctx, "route:abc"); !errors.Is(err, valkey.ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after delete, got %v", err)
	}
}
