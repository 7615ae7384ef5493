// Package watcher polls the shared input channel for stop commands while
// the assistant is busy.
package watcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/haivivi/jarvis/pkg/cancel"
	"github.com/haivivi/jarvis/pkg/channel"
	"github.com/haivivi/jarvis/pkg/stopintent"
)

// DefaultInterval is the default poll interval.
const DefaultInterval = 100 * time.Millisecond

// Interrupter is notified when a stop is detected. The TTS queue stops its
// playback and, for the sentinel, drops pending jobs.
type Interrupter interface {
	Interrupt(sentinel bool)
}

// InterrupterFunc adapts a function to Interrupter.
type InterrupterFunc func(sentinel bool)

func (f InterrupterFunc) Interrupt(sentinel bool) { f(sentinel) }

// Watcher raises the stop signal when the channel receives a stop command.
// Non-stop content is left in the channel for the orchestrator.
type Watcher struct {
	Channel      channel.Text
	Detector     *stopintent.Detector
	Signal       cancel.Raiser
	Interrupters []Interrupter

	// Interval defaults to DefaultInterval.
	Interval time.Duration

	// last is the text read on the previous tick.
	last string
}

// Run polls until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	slog.Info("watcher: started", "interval", interval)
	defer slog.Info("watcher: stopped")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll performs a single check and reports whether a stop was raised.
func (w *Watcher) Poll(ctx context.Context) bool {
	text, err := w.Channel.Read(ctx)
	if err != nil {
		slog.Warn("watcher: read channel failed", "error", err)
		return false
	}
	if text == w.last {
		return false
	}
	w.last = text
	if text == "" {
		return false
	}
	slog.Debug("watcher: new input", "text", text)

	v := w.Detector.Detect(ctx, text)
	if !v.Stop {
		return false
	}
	slog.Info("watcher: stop detected", "text", text, "sentinel", v.Sentinel)
	w.Signal.Set()
	for _, in := range w.Interrupters {
		in.Interrupt(v.Sentinel)
	}

	cleared, err := w.Channel.ClearIf(ctx, text)
	if err != nil {
		slog.Warn("watcher: clear channel failed", "error", err)
	}
	if cleared {
		w.last = ""
	}
	return true
}
