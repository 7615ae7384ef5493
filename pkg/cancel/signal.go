// Package cancel provides the process-wide stop signal shared by every
// assistant worker.
//
// The signal is level-triggered: once Set it stays set until the owner calls
// Clear. Workers only ever see it through [Checker] or [Raiser], neither of
// which can clear it, so a subsystem cannot re-enable work that a stop
// command has cancelled. The orchestrator holds the concrete [*Signal] and is
// the single place where the signal is reset for a new query.
package cancel

import (
	"context"
	"sync/atomic"
	"time"
)

// Checker reports whether a stop has been requested.
type Checker interface {
	IsSet() bool
}

// Raiser can request a stop but cannot reset the signal.
type Raiser interface {
	Checker
	Set()
}

// Signal is a concurrency-safe boolean stop flag. The zero value is ready to
// use and not set.
type Signal struct {
	v atomic.Bool
}

var _ Raiser = (*Signal)(nil)

// Set raises the signal. Idempotent.
func (s *Signal) Set() { s.v.Store(true) }

// Clear lowers the signal. Idempotent.
func (s *Signal) Clear() { s.v.Store(false) }

// IsSet reports whether the signal is raised.
func (s *Signal) IsSet() bool { return s.v.Load() }

// Wait blocks until c is set or ctx is done, re-checking every interval.
// It returns true if the signal was observed.
func Wait(ctx context.Context, c Checker, interval time.Duration) bool {
	if c.IsSet() {
		return true
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return c.IsSet()
		case <-t.C:
			if c.IsSet() {
				return true
			}
		}
	}
}

// Never is a Checker that is never set.
var Never Checker = never{}

type never struct{}

func (never) IsSet() bool { return false }
