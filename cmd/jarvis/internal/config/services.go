package config

import (
	"fmt"
	"time"
)

// Service names.
const (
	ServiceAssistant = "assistant"
	ServiceGroq      = "groq"
	ServiceA4F       = "a4f"
	ServiceMiniMax   = "minimax"
	ServiceGemini    = "gemini"
	ServiceS3        = "s3"
)

// Channel backends.
const (
	ChannelFile   = "file"
	ChannelBadger = "badger"
)

// Assistant is assistant.yaml.
type Assistant struct {
	Username      string `yaml:"username,omitempty"`
	AssistantName string `yaml:"assistant_name,omitempty"`

	// DataDir holds the channel files, the badger store and artifacts.
	DataDir string `yaml:"data_dir,omitempty"`

	// Channel is "file" (default) or "badger".
	Channel string `yaml:"channel,omitempty"`

	// PollInterval is a Go duration string, default "100ms".
	PollInterval string `yaml:"poll_interval,omitempty"`

	// Player is the audio player command line; the file path is appended.
	Player []string `yaml:"player,omitempty"`

	// Speech selects the synthesizer: "a4f" (default) or "minimax".
	Speech string `yaml:"speech,omitempty"`

	// ImageStages is the ordered Stage A chain as "provider:model" entries,
	// provider being a4f, minimax or gemini.
	ImageStages []string `yaml:"image_stages,omitempty"`

	// Listen is the websocket bridge address. Empty disables the bridge.
	Listen string `yaml:"listen,omitempty"`

	// Mirror copies artifacts to the s3 service when set.
	Mirror bool `yaml:"mirror,omitempty"`
}

// Interval returns the parsed poll interval.
func (a *Assistant) Interval() (time.Duration, error) {
	if a.PollInterval == "" {
		return 100 * time.Millisecond, nil
	}
	d, err := time.ParseDuration(a.PollInterval)
	if err != nil {
		return 0, fmt.Errorf("assistant poll_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("assistant poll_interval must be positive, got %s", d)
	}
	return d, nil
}

// Groq is groq.yaml: the OpenAI-compatible chat endpoint used by the stop
// classifier, the decision model and the answerer.
type Groq struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`

	// Model is the chat model. ClassifierModel and DecisionModel default
	// to it.
	Model           string `yaml:"model,omitempty"`
	ClassifierModel string `yaml:"classifier_model,omitempty"`
	DecisionModel   string `yaml:"decision_model,omitempty"`
}

// A4F is a4f.yaml: the OpenAI-compatible images and speech endpoint.
type A4F struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	SpeechModel string  `yaml:"speech_model,omitempty"`
	Voice       string  `yaml:"voice,omitempty"`
	Speed       float64 `yaml:"speed,omitempty"`
}

// MiniMax is minimax.yaml.
type MiniMax struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	SpeechModel string  `yaml:"speech_model,omitempty"`
	VoiceID     string  `yaml:"voice_id,omitempty"`
	Speed       float64 `yaml:"speed,omitempty"`
	MaxRetries  int     `yaml:"max_retries,omitempty"`
}

// Gemini is gemini.yaml.
type Gemini struct {
	APIKey string `yaml:"api_key"`
}

// S3 is s3.yaml.
type S3 struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix,omitempty"`
	Region          string `yaml:"region,omitempty"`
	Endpoint        string `yaml:"endpoint,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
	PathStyle       bool   `yaml:"path_style,omitempty"`
}

// Defaults.
const (
	DefaultGroqURL     = "https://api.groq.com/openai/v1/"
	DefaultGroqModel   = "llama-3.3-70b-versatile"
	DefaultA4FURL      = "https://api.a4f.co/v1/"
	DefaultA4FSpeech   = "provider-3/tts-1"
	DefaultA4FVoice    = "alloy"
	DefaultMiniMaxTTS  = "speech-02-turbo"
	DefaultMiniMaxVoice = "male-qn-qingse"
)

// DefaultImageStages is the Stage A chain used when none is configured.
var DefaultImageStages = []string{
	"a4f:provider-4/imagen-4",
	"a4f:provider-4/imagen-3",
	"a4f:provider-1/FLUX.1-schnell",
	"a4f:provider-3/FLUX.1-dev",
}

// WithDefaults fills unset fields.
func (a Assistant) WithDefaults() Assistant {
	if a.Username == "" {
		a.Username = "User"
	}
	if a.AssistantName == "" {
		a.AssistantName = "Jarvis"
	}
	if a.Channel == "" {
		a.Channel = ChannelFile
	}
	if a.Speech == "" {
		a.Speech = ServiceA4F
	}
	if len(a.ImageStages) == 0 {
		a.ImageStages = DefaultImageStages
	}
	return a
}

// WithDefaults fills unset fields.
func (g Groq) WithDefaults() Groq {
	if g.BaseURL == "" {
		g.BaseURL = DefaultGroqURL
	}
	if g.Model == "" {
		g.Model = DefaultGroqModel
	}
	if g.ClassifierModel == "" {
		g.ClassifierModel = g.Model
	}
	if g.DecisionModel == "" {
		g.DecisionModel = g.Model
	}
	return g
}

// WithDefaults fills unset fields.
func (a A4F) WithDefaults() A4F {
	if a.BaseURL == "" {
		a.BaseURL = DefaultA4FURL
	}
	if a.SpeechModel == "" {
		a.SpeechModel = DefaultA4FSpeech
	}
	if a.Voice == "" {
		a.Voice = DefaultA4FVoice
	}
	return a
}

// WithDefaults fills unset fields.
func (m MiniMax) WithDefaults() MiniMax {
	if m.SpeechModel == "" {
		m.SpeechModel = DefaultMiniMaxTTS
	}
	if m.VoiceID == "" {
		m.VoiceID = DefaultMiniMaxVoice
	}
	return m
}
