package minimax

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL), WithRetry(0))
}

func TestImageGenerateURLs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/image_generation" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req ImageGenerateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Prompt != "a red fox" || req.Model != "image-01" {
			t.Errorf("request = %+v", req)
		}
		w.Write([]byte(`{"id":"x1","data":{"image_urls":["https://img/1.jpg"]},"base_resp":{"status_code":0,"status_msg":"success"}}`))
	})

	resp, err := c.Image.Generate(context.Background(), &ImageGenerateRequest{Model: "image-01", Prompt: "a red fox", N: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Images) != 1 || resp.Images[0].URL != "https://img/1.jpg" {
		t.Fatalf("images = %+v", resp.Images)
	}
}

func TestImageGenerateBase64(t *testing.T) {
	enc := base64.StdEncoding.EncodeToString([]byte("jpeg bytes"))
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"image_base64":["` + enc + `"]},"base_resp":{"status_code":0}}`))
	})
	resp, err := c.Image.Generate(context.Background(), &ImageGenerateRequest{Model: "image-01", Prompt: "p", ResponseFormat: "base64"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Images) != 1 || string(resp.Images[0].Data) != "jpeg bytes" {
		t.Fatalf("images = %+v", resp.Images)
	}
}

func TestSpeechSynthesize(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/t2a_v2" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"audio":"48656c6c6f","status":2},"trace_id":"t1","base_resp":{"status_code":0}}`))
	})
	resp, err := c.Speech.Synthesize(context.Background(), &SpeechRequest{Model: "speech-02-turbo", Text: "Hello"})
	if err != nil {
		t.Fatal(err)
	}
	if string(resp.Audio) != "Hello" || resp.TraceID != "t1" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestBaseRespError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"trace_id":"abc","base_resp":{"status_code":1026,"status_msg":"input sensitive"}}`))
	})
	_, err := c.Image.Generate(context.Background(), &ImageGenerateRequest{Prompt: "p"})
	e, ok := AsError(err)
	if !ok {
		t.Fatalf("err = %v, want *Error", err)
	}
	if !e.IsSensitive() || e.Retryable() || e.TraceID != "abc" {
		t.Fatalf("error = %+v", e)
	}
}

func TestHTTPErrorRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("busy"))
			return
		}
		w.Write([]byte(`{"data":{"audio":"00"},"base_resp":{"status_code":0}}`))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithRetry(1))
	if _, err := c.Speech.Synthesize(context.Background(), &SpeechRequest{Text: "x"}); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestUnauthorizedNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad", WithBaseURL(srv.URL), WithRetry(3))
	_, err := c.Speech.Synthesize(context.Background(), &SpeechRequest{Text: "x"})
	e, ok := AsError(err)
	if !ok || !e.IsInvalidAPIKey() {
		t.Fatalf("err = %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}
