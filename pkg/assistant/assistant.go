// Package assistant is the conversation orchestrator. It consumes utterances
// from the input channel, routes them through the decision model and drives
// automation, image generation and spoken answers. It is the only owner of
// the stop signal reset.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/haivivi/jarvis/pkg/cancel"
	"github.com/haivivi/jarvis/pkg/channel"
	"github.com/haivivi/jarvis/pkg/stopintent"
	"github.com/haivivi/jarvis/pkg/tts"
	"github.com/haivivi/jarvis/pkg/watcher"
)

// Status lines shown on the Sink.
const (
	StatusAvailable  = "Available..."
	StatusThinking   = "Thinking..."
	StatusSearching  = "Searching..."
	StatusAnswering  = "Answering..."
	StatusGenerating = "Generating images..."
)

// Fixed phrases.
const (
	Greeting       = "Hello Sir! All systems active and alive! What can I assist you with today?"
	ImageStarted   = "Generating Images sir! might take a moment..."
	ImageFailed    = "Facing error while Generating Images , Sir!"
	Farewell       = "Okay, Bye! Have a nice day!"
	AnswerFailed   = "Sorry Sir, I could not get an answer right now."
	DefaultUser    = "User"
	DefaultName    = "Jarvis"
	DefaultPolling = 100 * time.Millisecond

	// DefaultFarewellWait bounds how long the exit intent waits for the
	// farewell to be spoken before calling the Exit hook.
	DefaultFarewellWait = 15 * time.Second
)

// Config wires the orchestrator's collaborators.
type Config struct {
	Channel  channel.Text
	Signal   *cancel.Signal
	Detector *stopintent.Detector

	// Interrupters are told to stop everything when a stop is read from
	// the channel. The TTS queue is the usual member.
	Interrupters []watcher.Interrupter

	Decider    Decider
	Answerer   Answerer
	Automation Automation
	Images     Images
	Trigger    channel.Trigger
	Speaker    Speaker

	// Optional.
	Sink       Sink
	Microphone Microphone
	Listener   Listener
	Exit       func()

	Username      string
	Assistantname string

	// PollInterval is the main loop period. Defaults to DefaultPolling.
	PollInterval time.Duration

	// FarewellWait defaults to DefaultFarewellWait.
	FarewellWait time.Duration
}

// Orchestrator dispatches one query at a time.
type Orchestrator struct {
	cfg Config

	dispatch sync.Mutex
	state    machine

	statusMu sync.Mutex
	status   string
}

// New returns an Orchestrator. It panics if a required collaborator is
// missing.
func New(cfg Config) *Orchestrator {
	if cfg.Channel == nil || cfg.Signal == nil || cfg.Decider == nil || cfg.Speaker == nil {
		panic("assistant: Channel, Signal, Decider and Speaker are required")
	}
	if cfg.Detector == nil {
		cfg.Detector = stopintent.NewDetector(nil)
	}
	if cfg.Sink == nil {
		cfg.Sink = nopSink{}
	}
	if cfg.Username == "" {
		cfg.Username = DefaultUser
	}
	if cfg.Assistantname == "" {
		cfg.Assistantname = DefaultName
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPolling
	}
	if cfg.FarewellWait <= 0 {
		cfg.FarewellWait = DefaultFarewellWait
	}
	return &Orchestrator{cfg: cfg}
}

// State returns the current dispatch state.
func (o *Orchestrator) State() State { return o.state.current() }

// Greet speaks the startup greeting.
func (o *Orchestrator) Greet() {
	o.setStatus(StatusAvailable)
	o.cfg.Speaker.Enqueue(Greeting)
}

// Run is the main loop. While the microphone is on it keeps the listener
// running and dispatches new input; while off it stops the listener and
// shows the available status.
func (o *Orchestrator) Run(ctx context.Context) error {
	slog.Info("assistant: started", "interval", o.cfg.PollInterval)
	defer slog.Info("assistant: stopped")

	ticker := time.NewTicker(o.cfg.PollInterval)
	defer ticker.Stop()

	listening := false
	defer func() {
		if listening && o.cfg.Listener != nil {
			o.cfg.Listener.StopListening()
		}
	}()
	for {
		if o.micOn() {
			if !listening && o.cfg.Listener != nil {
				o.cfg.Listener.StartListening()
			}
			listening = true
			if _, err := o.Step(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Warn("assistant: step failed", "error", err)
			}
		} else {
			if listening && o.cfg.Listener != nil {
				o.cfg.Listener.StopListening()
			}
			listening = false
			o.setStatus(StatusAvailable)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (o *Orchestrator) micOn() bool {
	return o.cfg.Microphone == nil || o.cfg.Microphone.MicrophoneOn()
}

// Step reads the channel once. A stop command stops everything and clears
// the channel; any other input is consumed and dispatched. It reports
// whether a query was dispatched.
func (o *Orchestrator) Step(ctx context.Context) (bool, error) {
	text, err := o.cfg.Channel.Read(ctx)
	if err != nil {
		return false, fmt.Errorf("assistant: read channel: %w", err)
	}
	v := o.cfg.Detector.Detect(ctx, text)
	if v.Text == "" {
		return false, nil
	}
	if v.Stop {
		slog.Info("assistant: stop command", "text", v.Text, "sentinel", v.Sentinel)
		o.StopAll()
		if err := o.cfg.Channel.Clear(ctx); err != nil {
			return false, fmt.Errorf("assistant: clear channel: %w", err)
		}
		return false, nil
	}

	if err := o.cfg.Channel.Clear(ctx); err != nil {
		return false, fmt.Errorf("assistant: clear channel: %w", err)
	}
	if err := o.Dispatch(ctx, v.Text); err != nil {
		return true, err
	}
	return true, nil
}

// StopAll raises the stop signal and stops playback with the pending queue
// dropped.
func (o *Orchestrator) StopAll() {
	o.cfg.Signal.Set()
	for _, it := range o.cfg.Interrupters {
		it.Interrupt(true)
	}
}

// Dispatch handles one query: it resets the stop signal, asks the decider
// for tags, then runs automation, image generation and the spoken answer in
// that order. The state returns to Idle when it finishes.
func (o *Orchestrator) Dispatch(ctx context.Context, query string) error {
	if !o.dispatch.TryLock() {
		return ErrBusy
	}
	defer o.dispatch.Unlock()

	// A new query starts with the signal lowered.
	o.cfg.Signal.Clear()
	if err := o.state.transition(Dispatched); err != nil {
		return err
	}
	defer func() {
		if err := o.state.transition(Idle); err != nil {
			slog.Error("assistant: reset state", "error", err)
		}
	}()

	o.cfg.Sink.ShowText(o.cfg.Username + " : " + query)
	o.setStatus(StatusThinking)

	tags, err := o.cfg.Decider.Decide(ctx, query)
	if err != nil || len(tags) == 0 {
		slog.Warn("assistant: decision unavailable, answering as general", "error", err)
		tags = []string{"general " + query}
	}
	slog.Info("assistant: decision", "query", query, "tags", tags)
	plan := PlanTags(tags)

	if plan.Automation && o.cfg.Automation != nil {
		if err := o.state.transition(Automating); err != nil {
			return err
		}
		if err := o.cfg.Automation.Run(ctx, tags); err != nil {
			slog.Warn("assistant: automation failed", "error", err)
		}
	}

	if plan.Image != "" && o.cfg.Images != nil && o.cfg.Trigger != nil {
		if err := o.state.transition(ImageGenerating); err != nil {
			return err
		}
		o.generate(ctx, plan)
	}

	if o.cfg.Signal.IsSet() {
		slog.Info("assistant: stopped before answering", "query", query)
		return nil
	}

	switch {
	case plan.Realtime && o.cfg.Answerer != nil:
		o.setStatus(StatusSearching)
		answer, err := o.cfg.Answerer.Search(ctx, QueryModifier(plan.Merged))
		o.respond(answer, err)
	case plan.General != "" && o.cfg.Answerer != nil:
		o.setStatus(StatusThinking)
		answer, err := o.cfg.Answerer.Chat(ctx, QueryModifier(plan.General))
		o.respond(answer, err)
	case plan.Exit:
		o.farewell(ctx)
	}
	return nil
}

// farewell speaks the goodbye, waits for it to finish playing and then
// calls the Exit hook. The chat model phrases the goodbye when one is
// configured.
func (o *Orchestrator) farewell(ctx context.Context) {
	answer := Farewell
	if o.cfg.Answerer != nil {
		reply, err := o.cfg.Answerer.Chat(ctx, QueryModifier(Farewell))
		switch {
		case err != nil:
			slog.Warn("assistant: farewell from chat model failed", "error", err)
		case reply != "":
			answer = reply
		}
	}
	if job := o.respond(answer, nil); job != nil {
		wctx, cancelWait := context.WithTimeout(ctx, o.cfg.FarewellWait)
		outcome, err := job.Wait(wctx)
		cancelWait()
		slog.Info("assistant: farewell", "outcome", outcome, "error", err)
	}
	if o.cfg.Exit != nil {
		o.cfg.Exit()
	}
}

func (o *Orchestrator) generate(ctx context.Context, plan Plan) {
	o.setStatus(StatusGenerating)
	req := channel.ImageRequest{Prompt: plan.Image, Pending: true, Size: plan.ImageSize}
	if err := o.cfg.Trigger.Store(ctx, req); err != nil {
		slog.Error("assistant: store image request", "error", err)
		o.cfg.Speaker.Enqueue(ImageFailed)
		return
	}
	o.cfg.Speaker.Enqueue(ImageStarted)

	job, err := o.cfg.Images.ProcessTrigger(ctx, o.cfg.Trigger)
	if err != nil {
		slog.Error("assistant: image generation", "error", err)
		o.cfg.Speaker.Enqueue(ImageFailed)
		return
	}
	if job == nil {
		slog.Error("assistant: image request was not run")
		o.cfg.Speaker.Enqueue(ImageFailed)
		return
	}
	slog.Info("assistant: images done", "prompt", job.Prompt, "completed", job.Completed(), "stopped", job.Stopped)
	if job.Completed() == 0 && !job.Stopped {
		o.cfg.Speaker.Enqueue(ImageFailed)
	}
}

func (o *Orchestrator) respond(answer string, err error) *tts.Job {
	if err != nil {
		slog.Error("assistant: answer failed", "error", err)
		answer = AnswerFailed
	}
	if err := o.state.transition(Answering); err != nil {
		slog.Error("assistant: enter answering", "error", err)
	}
	o.cfg.Sink.ShowText(o.cfg.Assistantname + " : " + answer)
	o.setStatus(StatusAnswering)
	return o.cfg.Speaker.Enqueue(answer)
}

func (o *Orchestrator) setStatus(s string) {
	o.statusMu.Lock()
	changed := o.status != s
	o.status = s
	o.statusMu.Unlock()
	if changed {
		o.cfg.Sink.SetStatus(s)
	}
}
