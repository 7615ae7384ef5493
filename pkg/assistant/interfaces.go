package assistant

import (
	"context"

	"github.com/haivivi/jarvis/pkg/channel"
	"github.com/haivivi/jarvis/pkg/imagegen"
	"github.com/haivivi/jarvis/pkg/tts"
)

// Decider turns a query into decision tags such as "general how are you",
// "realtime weather today", "open chrome" or "generate image a red fox".
type Decider interface {
	Decide(ctx context.Context, query string) ([]string, error)
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(ctx context.Context, query string) ([]string, error)

func (f DeciderFunc) Decide(ctx context.Context, query string) ([]string, error) {
	return f(ctx, query)
}

// Answerer produces spoken answers.
type Answerer interface {
	Chat(ctx context.Context, query string) (string, error)
	Search(ctx context.Context, query string) (string, error)
}

// Automation performs desktop actions for automation tags. It receives the
// full tag list once per query.
type Automation interface {
	Run(ctx context.Context, tags []string) error
}

// Images runs the image request stored in a trigger.
type Images interface {
	ProcessTrigger(ctx context.Context, tr channel.Trigger) (*imagegen.Job, error)
}

// Speaker queues text for playback.
type Speaker interface {
	Enqueue(text string) *tts.Job
}

// Sink displays assistant status and conversation lines.
type Sink interface {
	SetStatus(status string)
	ShowText(text string)
}

// Microphone reports whether the user has the microphone switched on.
type Microphone interface {
	MicrophoneOn() bool
}

// Listener controls speech capture.
type Listener interface {
	StartListening()
	StopListening()
}

type nopSink struct{}

func (nopSink) SetStatus(string) {}
func (nopSink) ShowText(string)  {}
