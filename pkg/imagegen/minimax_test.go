package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haivivi/jarvis/pkg/minimax"
)

func newMiniMax(t *testing.T, reply string) (*minimax.Client, *minimax.ImageGenerateRequest) {
	t.Helper()
	req := &minimax.ImageGenerateRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/image_generation" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(req)
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return minimax.NewClient("key", minimax.WithBaseURL(srv.URL)), req
}

func TestMiniMaxProviderURL(t *testing.T) {
	client, req := newMiniMax(t, `{"id":"x1","data":{"image_urls":["https://img/1.jpg"]},"base_resp":{"status_code":0}}`)
	p := &MiniMaxProvider{Client: client}

	res, err := p.Generate(context.Background(), Request{Prompt: "a red fox", Size: "1792x1024"})
	if err != nil {
		t.Fatal(err)
	}
	if res.URL != "https://img/1.jpg" {
		t.Fatalf("result = %+v", res)
	}
	if req.Model != "image-01" || req.Prompt != "a red fox" || req.N != 1 {
		t.Fatalf("request = %+v", req)
	}
	if req.AspectRatio != "16:9" {
		t.Fatalf("aspect ratio = %q, want 16:9", req.AspectRatio)
	}
}

func TestMiniMaxProviderBase64(t *testing.T) {
	enc := base64.StdEncoding.EncodeToString([]byte("fox-jpeg"))
	client, _ := newMiniMax(t, `{"data":{"image_base64":["`+enc+`"]},"base_resp":{"status_code":0}}`)
	p := &MiniMaxProvider{Client: client}

	res, err := p.Generate(context.Background(), Request{Model: "image-01", Prompt: "fox"})
	if err != nil {
		t.Fatal(err)
	}
	if string(res.Data) != "fox-jpeg" {
		t.Fatalf("result = %+v", res)
	}
}

func TestMiniMaxProviderErrors(t *testing.T) {
	for name, reply := range map[string]string{
		"no images": `{"data":{},"base_resp":{"status_code":0}}`,
		"sensitive": `{"base_resp":{"status_code":1026,"status_msg":"input sensitive"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			client, _ := newMiniMax(t, reply)
			p := &MiniMaxProvider{Client: client}
			if _, err := p.Generate(context.Background(), Request{Prompt: "fox"}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
