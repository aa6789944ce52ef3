package ratelimit

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewStore_AlwaysReturnsStorage(t *testing.T) {
	if s := NewStore(RedisConfig{}); s == nil {
		t.Fatalf("expected non-nil memory store when redis addr empty")
	}

	if s := NewStore(RedisConfig{Addr: "127.0.0.1:1", DB: 0}); s == nil {
		t.Fatalf("expected non-nil store even with redis config")
	}
}

func TestNewStore_RedisBackedRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	s := NewStore(RedisConfig{Addr: mr.Addr(), DB: 0})
	if s == nil {
		t.Fatalf("expected non-nil redis store")
	}

	if err := s.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := s.Get("k")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("expected %q, got %q", "v", got)
	}
}
