package imagegen

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDimensions(t *testing.T) {
	tests := []struct {
		size string
		w, h int
	}{
		{"auto", 1024, 1024},
		{"", 1024, 1024},
		{"512x512", 512, 512},
		{"1792x1024", 1792, 1024},
		{"bogus", 1024, 1024},
		{"0x10", 1024, 1024},
	}
	for _, tt := range tests {
		w, h := Dimensions(tt.size)
		if w != tt.w || h != tt.h {
			t.Errorf("Dimensions(%q) = %dx%d, want %dx%d", tt.size, w, h, tt.w, tt.h)
		}
	}
}

func TestAspectRatio(t *testing.T) {
	tests := []struct {
		size   string
		ratios []string
		want   string
	}{
		{"auto", minimaxRatios, "1:1"},
		{"1792x1024", minimaxRatios, "16:9"},
		{"1024x1536", minimaxRatios, "2:3"},
		{"1024x1792", imagenRatios, "9:16"},
		{"1536x1024", imagenRatios, "4:3"},
	}
	for _, tt := range tests {
		if got := aspectRatio(tt.size, tt.ratios); got != tt.want {
			t.Errorf("aspectRatio(%q) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestVariantPrompt(t *testing.T) {
	if got := VariantPrompt("a fox", 1); got != "a fox" {
		t.Fatalf("index 1 = %q", got)
	}
	if got := VariantPrompt("a fox", 3); got != "a fox, variation 3" {
		t.Fatalf("index 3 = %q", got)
	}
}

func TestPollinationsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/prompt/a red fox" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("width") != "512" || q.Get("height") != "768" || q.Get("seed") != "42" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte("jpeg"))
	}))
	defer srv.Close()

	p := &Pollinations{BaseURL: srv.URL + "/prompt/"}
	body, err := p.Open(context.Background(), "a red fox", 512, 768, 42)
	if err != nil {
		t.Fatal(err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if string(data) != "jpeg" {
		t.Fatalf("body = %q", data)
	}
}

func TestPollinationsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := &Pollinations{BaseURL: srv.URL + "/"}
	if _, err := p.Open(context.Background(), "x", 1, 1, 0); err == nil {
		t.Fatal("expected error on 502")
	}
}
