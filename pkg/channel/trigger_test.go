package channel

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/haivivi/jarvis/pkg/kv"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		in   string
		want ImageRequest
	}{
		{"", ImageRequest{}},
		{"False,False", ImageRequest{Size: DefaultImageSize}},
		{"a red fox,True", ImageRequest{Prompt: "a red fox", Pending: true, Size: DefaultImageSize}},
		{"a red fox,True,512x512", ImageRequest{Prompt: "a red fox", Pending: true, Size: "512x512"}},
		{"fox, forest, dusk,True,auto", ImageRequest{Prompt: "fox, forest, dusk", Pending: true, Size: "auto"}},
		{" cat ,True\n", ImageRequest{Prompt: "cat", Pending: true, Size: DefaultImageSize}},
	}
	for _, tt := range tests {
		got, err := ParseRecord(tt.in)
		if err != nil {
			t.Errorf("ParseRecord(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRecord(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseRecordMalformed(t *testing.T) {
	for _, in := range []string{"no comma", "cat,Maybe", ",True", "cat,True,huge"} {
		if _, err := ParseRecord(in); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseRecord(%q) err = %v, want ErrMalformed", in, err)
		}
	}
}

func TestFormatRecordRoundTrip(t *testing.T) {
	req := ImageRequest{Prompt: "a castle, at night", Pending: true, Size: "1024x1792"}
	got, err := ParseRecord(FormatRecord(req))
	if err != nil {
		t.Fatal(err)
	}
	if got != req {
		t.Fatalf("got %+v, want %+v", got, req)
	}
	if FormatRecord(ImageRequest{}) != "False,False" {
		t.Fatalf("inert record = %q", FormatRecord(ImageRequest{}))
	}
}

func TestTriggers(t *testing.T) {
	impls := map[string]Trigger{
		"file": NewFileTrigger(filepath.Join(t.TempDir(), "ImageGeneration.data")),
		"kv":   NewKVTrigger(kv.NewMemory(nil), nil),
	}
	for name, tr := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			req, err := tr.Load(ctx)
			if err != nil || req.Pending {
				t.Fatalf("Load missing = %+v, %v", req, err)
			}

			want := ImageRequest{Prompt: "sunset over mountains", Pending: true, Size: "512x512"}
			if err := tr.Store(ctx, want); err != nil {
				t.Fatalf("Store: %v", err)
			}
			got, err := tr.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got != want {
				t.Fatalf("Load = %+v, want %+v", got, want)
			}

			if err := tr.Reset(ctx); err != nil {
				t.Fatalf("Reset: %v", err)
			}
			got, err = tr.Load(ctx)
			if err != nil || got.Pending {
				t.Fatalf("Load after Reset = %+v, %v", got, err)
			}
		})
	}
}

func TestKVTriggerMalformed(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory(nil)
	store.Set(ctx, DefaultTriggerKey, []byte{0xc1})
	if _, err := NewKVTrigger(store, nil).Load(ctx); !errors.Is(err, ErrMalformed) {
		t.Fatalf("Load garbage err = %v, want ErrMalformed", err)
	}
}
