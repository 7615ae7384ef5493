package tts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/haivivi/jarvis/pkg/buffer"
	"github.com/haivivi/jarvis/pkg/cancel"
	"github.com/haivivi/jarvis/pkg/storage"
)

// DefaultPollInterval is how often playback checks the stop signal.
const DefaultPollInterval = 100 * time.Millisecond

// Config configures a Queue.
type Config struct {
	Synthesizer Synthesizer
	Player      Player

	// Store holds audio artifacts while they play. It must be a
	// storage.Locator so the player gets a file path.
	Store storage.FileStore

	// Signal is the shared stop signal. Nil means never stopped.
	Signal cancel.Checker

	// PollInterval defaults to DefaultPollInterval.
	PollInterval time.Duration

	// Shorten is applied to every enqueued text. Defaults to Shorten.
	Shorten func(string) string
}

// Queue is a FIFO of speech jobs served by a single worker.
type Queue struct {
	cfg  Config
	jobs *buffer.Buffer[*Job]
	seq  atomic.Uint64

	mu          sync.Mutex
	current     Playback
	interrupted bool
}

// NewQueue returns a Queue. Run must be called to start the worker.
func NewQueue(cfg Config) *Queue {
	if cfg.Signal == nil {
		cfg.Signal = cancel.Never
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Shorten == nil {
		cfg.Shorten = Shorten
	}
	return &Queue{
		cfg:  cfg,
		jobs: buffer.N[*Job](16),
	}
}

// Enqueue appends text to the queue and returns the job. It never blocks.
// Blank text is ignored and returns nil.
func (q *Queue) Enqueue(text string) *Job {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	job := &Job{
		ID:     uuid.NewString(),
		Seq:    q.seq.Add(1),
		Text:   text,
		Spoken: q.cfg.Shorten(text),
		done:   make(chan struct{}),
	}
	if err := q.jobs.Add(job); err != nil {
		job.finish(Cancelled, nil)
		slog.Warn("tts: enqueue on closed queue", "seq", job.Seq)
		return job
	}
	slog.Debug("tts: enqueued", "id", job.ID, "seq", job.Seq, "truncated", job.Truncated())
	return job
}

// Len returns the number of jobs waiting to be played.
func (q *Queue) Len() int { return q.jobs.Len() }

// Run serves the queue until ctx is done or the queue is closed.
// Jobs still queued when Run returns are cancelled.
func (q *Queue) Run(ctx context.Context) error {
	slog.Info("tts: worker started")
	defer slog.Info("tts: worker stopped")
	for {
		job, err := q.jobs.Next(ctx)
		if err != nil {
			for _, j := range q.jobs.Drain() {
				j.finish(Cancelled, nil)
			}
			if ctx.Err() != nil || errors.Is(err, buffer.ErrIteratorDone) {
				return nil
			}
			return err
		}
		q.process(ctx, job)
	}
}

// Close stops accepting jobs. Run returns after the queued ones are played,
// or as soon as its context is done, cancelling the rest.
func (q *Queue) Close() error {
	return q.jobs.CloseWrite()
}

// Interrupt stops the playback in progress. With sentinel set the pending
// jobs are dropped as well.
func (q *Queue) Interrupt(sentinel bool) {
	q.mu.Lock()
	if q.current != nil {
		q.interrupted = true
		q.current.Stop()
	}
	q.mu.Unlock()
	if sentinel {
		q.drain()
	}
}

// StopAll drops every pending job and stops the playback in progress.
func (q *Queue) StopAll() {
	q.Interrupt(true)
}

func (q *Queue) drain() {
	dropped := q.jobs.Drain()
	for _, j := range dropped {
		j.finish(Cancelled, nil)
	}
	if len(dropped) > 0 {
		slog.Info("tts: queue drained", "dropped", len(dropped))
	}
}

func (q *Queue) stopped(job *Job, stage string) bool {
	if !q.cfg.Signal.IsSet() {
		return false
	}
	slog.Info("tts: job cancelled", "id", job.ID, "seq", job.Seq, "stage", stage)
	return true
}

func (q *Queue) process(ctx context.Context, job *Job) {
	outcome, err := q.speak(ctx, job)
	if err != nil {
		slog.Error("tts: job failed", "id", job.ID, "seq", job.Seq, "error", err)
	}
	job.finish(outcome, err)
}

// speak runs one job through synthesis and playback. The audio artifact is
// deleted before speak returns, whatever the outcome.
func (q *Queue) speak(ctx context.Context, job *Job) (Outcome, error) {
	if q.stopped(job, "before synthesis") {
		return Cancelled, nil
	}

	audio, err := q.cfg.Synthesizer.Synthesize(ctx, job.Spoken)
	if err != nil {
		return Failed, err
	}

	name := "speech/" + job.ID + "." + audio.format()
	if err := storage.Put(ctx, q.cfg.Store, name, audio.Data); err != nil {
		return Failed, err
	}
	defer func() {
		if err := q.cfg.Store.Delete(context.WithoutCancel(ctx), name); err != nil {
			slog.Warn("tts: delete audio failed", "path", name, "error", err)
		}
	}()

	if q.stopped(job, "before playback") {
		return Cancelled, nil
	}

	path, err := storage.LocalPath(q.cfg.Store, name)
	if err != nil {
		return Failed, err
	}
	return q.play(ctx, job, path)
}

func (q *Queue) play(ctx context.Context, job *Job, path string) (Outcome, error) {
	pb, err := q.cfg.Player.Start(ctx, path)
	if err != nil {
		return Failed, fmt.Errorf("tts: start playback: %w", err)
	}
	q.mu.Lock()
	q.current = pb
	q.interrupted = false
	q.mu.Unlock()
	defer func() {
		q.mu.Lock()
		q.current = nil
		q.mu.Unlock()
	}()

	slog.Debug("tts: playing", "id", job.ID, "seq", job.Seq)
	ticker := time.NewTicker(q.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-pb.Done():
			// An Interrupt may have ended playback before the tick saw it.
			if q.stopped(job, "during playback") {
				return Cancelled, nil
			}
			q.mu.Lock()
			interrupted := q.interrupted
			q.mu.Unlock()
			if interrupted {
				slog.Info("tts: job interrupted", "id", job.ID, "seq", job.Seq)
				return Cancelled, nil
			}
			if err := pb.Err(); err != nil {
				return Failed, err
			}
			return Played, nil
		case <-ticker.C:
			if q.stopped(job, "during playback") {
				pb.Stop()
				<-pb.Done()
				return Cancelled, nil
			}
		case <-ctx.Done():
			pb.Stop()
			<-pb.Done()
			return Cancelled, nil
		}
	}
}
