package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestOpenRedis_RoundTripAndExpiry(t *testing.T) {
	s := miniredis.RunT(t)

	c, err := OpenRedis(s.Addr(), 3)
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if got := c.Options().DB; got != 3 {
		t.Fatalf("selected db = %d, want 3", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.Set(ctx, "idem:key", "1", 30*time.Second).Err(); err != nil {
		t.Fatalf("SET: %v", err)
	}
	got, err := c.Get(ctx, "idem:key").Result()
	if err != nil || got != "1" {
		t.Fatalf("GET = %q, %v; want %q, nil", got, err, "1")
	}

	// Keys disappear once their TTL elapses.
	s.FastForward(31 * time.Second)
	if _, err := c.Get(ctx, "idem:key").Result(); !errors.Is(err, redis.Nil) {
		t.Fatalf("GET after expiry = %v, want redis.Nil", err)
	}
}

func TestOpenRedis_PingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	if _, err := OpenRedis(addr, 0); err == nil {
		t.Fatal("expected error against closed server, got nil")
	}
}
