package tts

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/openai/openai-go"

	"github.com/haivivi/jarvis/pkg/minimax"
)

// Audio is synthesized speech.
type Audio struct {
	Data []byte

	// Format is the file extension, e.g. "mp3". Empty means "mp3".
	Format string
}

func (a *Audio) format() string {
	if a.Format == "" {
		return "mp3"
	}
	return a.Format
}

// Synthesizer turns text into speech.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*Audio, error)
}

// SynthesizerFunc adapts a function to Synthesizer.
type SynthesizerFunc func(ctx context.Context, text string) (*Audio, error)

func (f SynthesizerFunc) Synthesize(ctx context.Context, text string) (*Audio, error) {
	return f(ctx, text)
}

// OpenAISynthesizer uses an OpenAI-compatible /audio/speech endpoint.
type OpenAISynthesizer struct {
	Client *openai.Client
	Model  string
	Voice  string

	// Speed is the playback speed multiplier; zero leaves the default.
	Speed float64
}

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (*Audio, error) {
	params := openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(s.Model),
		Voice:          openai.AudioSpeechNewParamsVoice(s.Voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	}
	if s.Speed > 0 {
		params.Speed = openai.Float(s.Speed)
	}
	resp, err := s.Client.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("tts: openai speech: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts: read openai speech: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("tts: openai speech: empty audio")
	}
	return &Audio{Data: data, Format: "mp3"}, nil
}

// MiniMaxSynthesizer uses the MiniMax T2A API.
type MiniMaxSynthesizer struct {
	Client  *minimax.Client
	Model   string
	VoiceID string
	Speed   float64
}

func (s *MiniMaxSynthesizer) Synthesize(ctx context.Context, text string) (*Audio, error) {
	resp, err := s.Client.Speech.Synthesize(ctx, &minimax.SpeechRequest{
		Model: s.Model,
		Text:  text,
		VoiceSetting: &minimax.VoiceSetting{
			VoiceID: s.VoiceID,
			Speed:   s.Speed,
		},
		AudioSetting: &minimax.AudioSetting{
			Format:     minimax.AudioFormatMP3,
			SampleRate: 32000,
			Channel:    1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("tts: minimax speech: %w", err)
	}
	return &Audio{Data: resp.Audio, Format: "mp3"}, nil
}
