package kv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/haivivi/jarvis/pkg/kv"
)

// stores returns every Store implementation under test. The same checks run
// against the in-memory map and an in-memory badger engine.
func stores(t *testing.T) map[string]kv.Store {
	t.Helper()
	b, err := kv.NewBadger(kv.BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	m := kv.NewMemory(nil)
	t.Cleanup(func() {
		b.Close()
		m.Close()
	})
	return map[string]kv.Store{"memory": m, "badger": b}
}

func TestGetSetDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := kv.Key{"jarvis", "channel", "input"}

			if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}

			if err := s.Set(ctx, key, []byte("open chrome.")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err := s.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != "open chrome." {
				t.Fatalf("Get = %q, want %q", got, "open chrome.")
			}

			if err := s.Set(ctx, key, []byte("jarvis stop")); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, _ = s.Get(ctx, key)
			if string(got) != "jarvis stop" {
				t.Fatalf("Get after overwrite = %q", got)
			}

			if err := s.Delete(ctx, key); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
			if err := s.Delete(ctx, kv.Key{"no", "such", "key"}); err != nil {
				t.Fatalf("Delete non-existent: %v", err)
			}
		})
	}
}

func TestCompareAndDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := kv.Key{"input"}

			ok, err := s.CompareAndDelete(ctx, key, []byte("x"))
			if err != nil || ok {
				t.Fatalf("CompareAndDelete missing key = %v, %v", ok, err)
			}

			s.Set(ctx, key, []byte("newer"))
			ok, err = s.CompareAndDelete(ctx, key, []byte("older"))
			if err != nil || ok {
				t.Fatalf("CompareAndDelete mismatch = %v, %v", ok, err)
			}
			if got, _ := s.Get(ctx, key); string(got) != "newer" {
				t.Fatalf("mismatched compare removed value, got %q", got)
			}

			ok, err = s.CompareAndDelete(ctx, key, []byte("newer"))
			if err != nil || !ok {
				t.Fatalf("CompareAndDelete match = %v, %v", ok, err)
			}
			if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestSeparator(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory(&kv.Options{Separator: '/'})
	s.Set(ctx, kv.Key{"a", "b"}, []byte("1"))
	if _, err := s.Get(ctx, kv.Key{"a", "b"}); err != nil {
		t.Fatalf("Get with custom separator: %v", err)
	}
	if got := (kv.Key{"a", "b"}).String(); got != "a:b" {
		t.Fatalf("Key.String() = %q, want a:b", got)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory(nil)
	s.Set(ctx, kv.Key{"k"}, []byte("abc"))
	got, _ := s.Get(ctx, kv.Key{"k"})
	got[0] = 'X'
	again, _ := s.Get(ctx, kv.Key{"k"})
	if string(again) != "abc" {
		t.Fatalf("stored value mutated through Get result: %q", again)
	}
}
