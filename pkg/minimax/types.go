package minimax

// AudioFormat specifies the audio encoding format.
type AudioFormat string

const (
	AudioFormatMP3  AudioFormat = "mp3"
	AudioFormatWAV  AudioFormat = "wav"
	AudioFormatFLAC AudioFormat = "flac"
)

// SpeechRequest is the request for speech synthesis.
type SpeechRequest struct {
	Model        string        `json:"model" yaml:"model"`
	Text         string        `json:"text" yaml:"text"`
	VoiceSetting *VoiceSetting `json:"voice_setting,omitempty" yaml:"voice_setting,omitempty"`
	AudioSetting *AudioSetting `json:"audio_setting,omitempty" yaml:"audio_setting,omitempty"`
}

// VoiceSetting contains voice configuration.
type VoiceSetting struct {
	VoiceID string `json:"voice_id" yaml:"voice_id"`

	// Speed is the speech speed (0.5-2.0, default 1.0).
	Speed float64 `json:"speed,omitempty" yaml:"speed,omitempty"`

	// Vol is the volume (0-10, default 1.0).
	Vol float64 `json:"vol,omitempty" yaml:"vol,omitempty"`

	// Pitch is the pitch adjustment (-12 to 12, default 0).
	Pitch int `json:"pitch,omitempty" yaml:"pitch,omitempty"`
}

// AudioSetting contains audio configuration.
type AudioSetting struct {
	SampleRate int         `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
	Bitrate    int         `json:"bitrate,omitempty" yaml:"bitrate,omitempty"`
	Format     AudioFormat `json:"format,omitempty" yaml:"format,omitempty"`
	Channel    int         `json:"channel,omitempty" yaml:"channel,omitempty"`
}

// AudioInfo is the audio metadata returned with synthesized speech.
type AudioInfo struct {
	AudioLength     int64  `json:"audio_length"`
	AudioSampleRate int64  `json:"audio_sample_rate"`
	AudioSize       int64  `json:"audio_size"`
	AudioFormat     string `json:"audio_format"`
	UsageCharacters int64  `json:"usage_characters"`
}

// SpeechResponse is the response from speech synthesis.
type SpeechResponse struct {
	// Audio is the decoded audio data.
	Audio     []byte
	ExtraInfo *AudioInfo
	TraceID   string
}

// ImageGenerateRequest is the request for image generation.
type ImageGenerateRequest struct {
	Model  string `json:"model" yaml:"model"`
	Prompt string `json:"prompt" yaml:"prompt"`

	// AspectRatio is one of 1:1, 16:9, 4:3, 3:2, 2:3, 3:4, 9:16, 21:9.
	AspectRatio string `json:"aspect_ratio,omitempty" yaml:"aspect_ratio,omitempty"`

	// Width and Height set an explicit size instead of AspectRatio.
	Width  int `json:"width,omitempty" yaml:"width,omitempty"`
	Height int `json:"height,omitempty" yaml:"height,omitempty"`

	// ResponseFormat is "url" (default) or "base64".
	ResponseFormat string `json:"response_format,omitempty" yaml:"response_format,omitempty"`

	// N is the number of images to generate (1-9).
	N int `json:"n,omitempty" yaml:"n,omitempty"`

	PromptOptimizer *bool `json:"prompt_optimizer,omitempty" yaml:"prompt_optimizer,omitempty"`
}

// ImageResponse is the response from image generation.
type ImageResponse struct {
	ID     string
	Images []ImageData
}

// ImageData is one generated image: a URL or decoded bytes.
type ImageData struct {
	URL  string
	Data []byte
}
