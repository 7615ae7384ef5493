package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/haivivi/jarvis/pkg/minimax"
)

func TestOpenAISynthesizer(t *testing.T) {
	var path string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3-mp3-bytes"))
	}))
	defer srv.Close()
	c := openai.NewClient(option.WithAPIKey("test"), option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))

	s := &OpenAISynthesizer{Client: &c, Model: "provider-3/tts-1", Voice: "onyx", Speed: 1.25}
	audio, err := s.Synthesize(context.Background(), "hello sir")
	if err != nil {
		t.Fatal(err)
	}
	if string(audio.Data) != "ID3-mp3-bytes" || audio.Format != "mp3" {
		t.Fatalf("audio = %q (%s)", audio.Data, audio.Format)
	}
	if path != "/audio/speech" {
		t.Fatalf("path = %q", path)
	}
	if body["input"] != "hello sir" || body["model"] != "provider-3/tts-1" || body["voice"] != "onyx" {
		t.Fatalf("body = %v", body)
	}
	if body["speed"] != 1.25 || body["response_format"] != "mp3" {
		t.Fatalf("body = %v", body)
	}
}

func TestOpenAISynthesizerErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`},
		{"empty audio", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			c := openai.NewClient(option.WithAPIKey("test"), option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))

			s := &OpenAISynthesizer{Client: &c, Model: "tts-1", Voice: "onyx"}
			if _, err := s.Synthesize(context.Background(), "hello"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestMiniMaxSynthesizer(t *testing.T) {
	var req minimax.SpeechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/t2a_v2" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&req)
		w.Write([]byte(`{"data":{"audio":"48656c6c6f","status":2},"trace_id":"t1","base_resp":{"status_code":0}}`))
	}))
	defer srv.Close()

	s := &MiniMaxSynthesizer{
		Client:  minimax.NewClient("key", minimax.WithBaseURL(srv.URL)),
		Model:   "speech-02-hd",
		VoiceID: "male-qn-qingse",
		Speed:   1.1,
	}
	audio, err := s.Synthesize(context.Background(), "hello sir")
	if err != nil {
		t.Fatal(err)
	}
	if string(audio.Data) != "Hello" || audio.Format != "mp3" {
		t.Fatalf("audio = %q (%s)", audio.Data, audio.Format)
	}
	if req.Text != "hello sir" || req.Model != "speech-02-hd" {
		t.Fatalf("request = %+v", req)
	}
	if req.VoiceSetting == nil || req.VoiceSetting.VoiceID != "male-qn-qingse" || req.VoiceSetting.Speed != 1.1 {
		t.Fatalf("voice setting = %+v", req.VoiceSetting)
	}
	if req.AudioSetting == nil || req.AudioSetting.Format != minimax.AudioFormatMP3 {
		t.Fatalf("audio setting = %+v", req.AudioSetting)
	}
}

func TestMiniMaxSynthesizerAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"trace_id":"abc","base_resp":{"status_code":1026,"status_msg":"input sensitive"}}`))
	}))
	defer srv.Close()

	s := &MiniMaxSynthesizer{Client: minimax.NewClient("key", minimax.WithBaseURL(srv.URL)), Model: "speech-02-hd"}
	_, err := s.Synthesize(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if apiErr, ok := minimax.AsError(err); !ok || apiErr.StatusCode != 1026 {
		t.Fatalf("err = %v", err)
	}
}
