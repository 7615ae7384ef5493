package tts

import (
	"slices"
	"strings"
	"testing"
)

func TestShortenLong(t *testing.T) {
	// Six sentences, 400 characters.
	sentence := strings.Repeat("x", 65) + "."
	text := strings.Repeat(sentence, 6)
	text += strings.Repeat("y", 400-len(text))
	if len(text) != 400 {
		t.Fatalf("setup: len = %d", len(text))
	}

	got := shorten(text, func(n int) int { return 3 })
	segs := strings.Split(text, ".")
	want := segs[0] + " " + segs[1] + ". " + Deflections[3]
	if got != want {
		t.Fatalf("shorten = %q\nwant %q", got, want)
	}
}

func TestShortenRandomDeflection(t *testing.T) {
	text := strings.Repeat("This sentence is long enough to count. ", 10)
	for range 20 {
		got := Shorten(text)
		suffix := got[strings.LastIndex(got, ". ")+2:]
		if !slices.Contains(Deflections[:], suffix) {
			t.Fatalf("unexpected deflection %q", suffix)
		}
	}
}

func TestShortenKeeps(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"short", "Hello. How are you."},
		{"many sentences but short", "A. B. C. D. E. F."},
		{"long but few sentences", strings.Repeat("word ", 80) + ". And more."},
		{"exactly 250 chars", strings.Repeat("abcd.", 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Shorten(tt.text); got != tt.text {
				t.Fatalf("Shorten changed text to %q", got)
			}
		})
	}
}
