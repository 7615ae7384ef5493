package assistant

import (
	"errors"
	"fmt"
	"sync"
)

// ErrBusy is returned by Dispatch when another query is being handled.
var ErrBusy = errors.New("assistant: query already in dispatch")

// State is the orchestrator's dispatch state.
type State int

const (
	Idle State = iota
	Dispatched
	Automating
	ImageGenerating
	Answering
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dispatched:
		return "dispatched"
	case Automating:
		return "automating"
	case ImageGenerating:
		return "image-generating"
	case Answering:
		return "answering"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// machine tracks the single query in dispatch.
type machine struct {
	mu    sync.RWMutex
	state State
}

func (m *machine) current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// transition validates and applies a state change.
func (m *machine) transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if to == m.state {
		return nil
	}
	if !isValidTransition(m.state, to) {
		return fmt.Errorf("assistant: invalid transition: %s -> %s", m.state, to)
	}
	m.state = to
	return nil
}

// isValidTransition enforces the dispatch order: automation, then images,
// then the spoken answer. Every active state may return to Idle.
func isValidTransition(from, to State) bool {
	switch from {
	case Idle:
		return to == Dispatched
	case Dispatched:
		return to == Automating || to == ImageGenerating || to == Answering || to == Idle
	case Automating:
		return to == ImageGenerating || to == Answering || to == Idle
	case ImageGenerating:
		return to == Answering || to == Idle
	case Answering:
		return to == Idle
	default:
		return false
	}
}
