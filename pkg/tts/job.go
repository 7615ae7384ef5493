package tts

import (
	"context"
	"sync"
)

// Outcome is how a job ended.
type Outcome int

const (
	Pending Outcome = iota
	Played
	Cancelled
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Played:
		return "played"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Job is one queued utterance.
type Job struct {
	ID  string
	Seq uint64

	// Text is the text as enqueued.
	Text string

	// Spoken is what is synthesized: Text, or its shortened form.
	Spoken string

	once    sync.Once
	done    chan struct{}
	outcome Outcome
	err     error
}

// Truncated reports whether Spoken differs from Text.
func (j *Job) Truncated() bool { return j.Spoken != j.Text }

// Done is closed when the job is finished, however it ended.
func (j *Job) Done() <-chan struct{} { return j.done }

// Outcome returns how the job ended and the error for Failed jobs.
// It is Pending until Done is closed.
func (j *Job) Outcome() (Outcome, error) {
	select {
	case <-j.done:
		return j.outcome, j.err
	default:
		return Pending, nil
	}
}

// Wait blocks until the job is finished or ctx is done.
func (j *Job) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-j.done:
		return j.outcome, j.err
	case <-ctx.Done():
		return Pending, ctx.Err()
	}
}

func (j *Job) finish(o Outcome, err error) {
	j.once.Do(func() {
		j.outcome, j.err = o, err
		close(j.done)
	})
}
