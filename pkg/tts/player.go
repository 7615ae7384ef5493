package tts

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
)

// Player plays audio files. Only the queue worker plays, one file at a time.
type Player interface {
	Start(ctx context.Context, path string) (Playback, error)
}

// Playback is an audio file being played.
type Playback interface {
	// Done is closed when playback ends, naturally or by Stop.
	Done() <-chan struct{}

	// Err returns the playback error once Done is closed. A stopped
	// playback is not an error.
	Err() error

	// Stop ends playback. It is safe to call more than once.
	Stop()
}

// CommandPlayer plays a file by running an external program with the path
// as its last argument, e.g. "ffplay -nodisp -autoexit -loglevel quiet".
type CommandPlayer struct {
	Command string
	Args    []string
}

// DefaultPlayer plays through ffplay without a window.
var DefaultPlayer = CommandPlayer{
	Command: "ffplay",
	Args:    []string{"-nodisp", "-autoexit", "-loglevel", "quiet"},
}

func (p CommandPlayer) Start(_ context.Context, path string) (Playback, error) {
	if p.Command == "" {
		return nil, errors.New("tts: no player command")
	}
	args := append(append([]string(nil), p.Args...), path)
	cmd := exec.Command(p.Command, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("tts: start %s: %w", p.Command, err)
	}
	pb := &cmdPlayback{cmd: cmd, done: make(chan struct{})}
	go pb.wait()
	return pb, nil
}

type cmdPlayback struct {
	cmd  *exec.Cmd
	done chan struct{}

	mu      sync.Mutex
	stopped bool
	err     error
}

func (p *cmdPlayback) wait() {
	err := p.cmd.Wait()
	p.mu.Lock()
	if !p.stopped && err != nil {
		p.err = fmt.Errorf("tts: player exited: %w", err)
	}
	p.mu.Unlock()
	close(p.done)
}

func (p *cmdPlayback) Done() <-chan struct{} { return p.done }

func (p *cmdPlayback) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *cmdPlayback) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	select {
	case <-p.done:
	default:
		p.cmd.Process.Kill()
	}
}
