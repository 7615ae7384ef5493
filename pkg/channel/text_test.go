package channel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/haivivi/jarvis/pkg/kv"
)

func textImpls(t *testing.T) map[string]Text {
	t.Helper()
	return map[string]Text{
		"file": NewFile(filepath.Join(t.TempDir(), "Data", "input.txt")),
		"kv":   NewKVText(kv.NewMemory(nil), nil),
	}
}

func TestTextReadMissing(t *testing.T) {
	for name, ch := range textImpls(t) {
		t.Run(name, func(t *testing.T) {
			got, err := ch.Read(context.Background())
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if got != "" {
				t.Fatalf("Read missing = %q, want empty", got)
			}
		})
	}
}

func TestTextWriteReadClear(t *testing.T) {
	for name, ch := range textImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := ch.Write(ctx, "open chrome.\n"); err != nil {
				t.Fatalf("Write: %v", err)
			}
			got, err := ch.Read(ctx)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if got != "open chrome." {
				t.Fatalf("Read = %q, want trimmed text", got)
			}
			if err := ch.Clear(ctx); err != nil {
				t.Fatalf("Clear: %v", err)
			}
			if got, _ := ch.Read(ctx); got != "" {
				t.Fatalf("Read after Clear = %q", got)
			}
		})
	}
}

func TestTextClearIf(t *testing.T) {
	for name, ch := range textImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ch.Write(ctx, "what time is it?")

			ok, err := ch.ClearIf(ctx, "jarvis stop")
			if err != nil || ok {
				t.Fatalf("ClearIf mismatch = %v, %v", ok, err)
			}
			if got, _ := ch.Read(ctx); got != "what time is it?" {
				t.Fatalf("mismatched ClearIf lost the utterance, got %q", got)
			}

			ok, err = ch.ClearIf(ctx, "what time is it?")
			if err != nil || !ok {
				t.Fatalf("ClearIf match = %v, %v", ok, err)
			}
			if got, _ := ch.Read(ctx); got != "" {
				t.Fatalf("Read after ClearIf = %q", got)
			}
		})
	}
}

func TestFileUnreadable(t *testing.T) {
	// A directory in place of the file cannot be read as text.
	dir := t.TempDir()
	ch := NewFile(dir)
	if _, err := ch.Read(context.Background()); err == nil {
		t.Fatal("expected error reading a directory")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatal(err)
	}
}
