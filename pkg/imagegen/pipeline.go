package imagegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/haivivi/jarvis/pkg/cancel"
	"github.com/haivivi/jarvis/pkg/channel"
	"github.com/haivivi/jarvis/pkg/storage"
)

const (
	// DefaultTarget is the number of images produced per request.
	DefaultTarget = 4

	// DefaultAPITimeout bounds one Stage A provider call.
	DefaultAPITimeout = 60 * time.Second

	// DefaultDownloadTimeout bounds one image download.
	DefaultDownloadTimeout = 15 * time.Second

	// DefaultRevealGap is the pause between revealed images.
	DefaultRevealGap = time.Second
)

var (
	// errStopped marks a run ended by the stop signal.
	errStopped = errors.New("imagegen: stopped")

	errEmptyResult = errors.New("imagegen: empty result")
)

// Attempt records one provider call.
type Attempt struct {
	Index    int
	Stage    string
	Model    string
	Err      error
	Duration time.Duration
}

// Job is one image request and its progress.
type Job struct {
	ID     string
	Prompt string
	Size   string
	Target int

	// Artifacts are the storage names of the produced images, in index order.
	Artifacts []string
	Attempts  []Attempt

	// Stopped is set when the stop signal ended the run.
	Stopped bool

	// Revealed counts the artifacts shown to the user.
	Revealed int
}

// Completed is the number of images produced.
func (j *Job) Completed() int { return len(j.Artifacts) }

// Pipeline generates and reveals images.
type Pipeline struct {
	Stages   []Stage
	Fallback Fallback
	Store    storage.FileStore
	Signal   cancel.Checker
	Revealer Revealer

	// Target defaults to DefaultTarget.
	Target int

	// Prefix is prepended to artifact names, e.g. "images/".
	Prefix string

	// APITimeout defaults to DefaultAPITimeout.
	APITimeout time.Duration

	// HTTPClient downloads Stage A URLs. Defaults to a client with
	// DefaultDownloadTimeout.
	HTTPClient *http.Client

	// FallbackGap is the pause between Stage B requests.
	FallbackGap time.Duration

	// RevealGap defaults to DefaultRevealGap. Negative means no pause.
	RevealGap time.Duration

	// Seed returns the Stage B seed. Defaults to a random value in [0, 100000].
	Seed func() int
}

// Validate reports whether the pipeline can produce anything.
func (p *Pipeline) Validate() error {
	if len(p.Stages) == 0 && p.Fallback == nil {
		return ErrNoProviders
	}
	if p.Store == nil {
		return errors.New("imagegen: no artifact store")
	}
	return nil
}

func (p *Pipeline) signal() cancel.Checker {
	if p.Signal == nil {
		return cancel.Never
	}
	return p.Signal
}

func (p *Pipeline) target() int {
	if p.Target > 0 {
		return p.Target
	}
	return DefaultTarget
}

// ArtifactName is the storage name of image i for prompt.
func ArtifactName(prompt string, i int) string {
	r := strings.NewReplacer(" ", "_", "/", "_", "\\", "_")
	return "generated_" + r.Replace(prompt) + strconv.Itoa(i) + ".jpg"
}

// VariantPrompt is the Stage A prompt for image i.
func VariantPrompt(prompt string, i int) string {
	if i <= 1 {
		return prompt
	}
	return fmt.Sprintf("%s, variation %d", prompt, i)
}

// Generate runs Stage A and Stage B for prompt. It never fails: a run that
// produced nothing returns a Job with Completed() == 0.
func (p *Pipeline) Generate(ctx context.Context, prompt, size string) *Job {
	job := &Job{
		ID:     uuid.NewString(),
		Prompt: prompt,
		Size:   size,
		Target: p.target(),
	}
	log := slog.With("job", job.ID)
	log.Info("imagegen: started", "prompt", prompt, "size", size)

	done := map[int]bool{}
	defer p.collect(job, done)

	if p.stopped("before start", 0) {
		job.Stopped = true
		return job
	}
	err := p.stageA(ctx, job, done)
	if err == nil && len(done) < job.Target {
		log.Info("imagegen: falling back", "missing", job.Target-len(done))
		err = p.stageB(ctx, job, done)
	}
	if errors.Is(err, errStopped) {
		job.Stopped = true
		log.Info("imagegen: stopped", "completed", len(done))
		return job
	}
	log.Info("imagegen: finished", "completed", len(done), "attempts", len(job.Attempts))
	return job
}

// collect lists the produced artifacts in index order.
func (p *Pipeline) collect(job *Job, done map[int]bool) {
	job.Artifacts = nil
	for i := 1; i <= job.Target; i++ {
		if done[i] {
			job.Artifacts = append(job.Artifacts, p.Prefix+ArtifactName(job.Prompt, i))
		}
	}
}

func (p *Pipeline) stopped(where string, i int) bool {
	if !p.signal().IsSet() {
		return false
	}
	slog.Info("imagegen: stop observed", "at", where, "index", i)
	return true
}

func (p *Pipeline) stageA(ctx context.Context, job *Job, done map[int]bool) error {
	if len(p.Stages) == 0 {
		return nil
	}
	for i := 1; i <= job.Target; i++ {
		prompt := VariantPrompt(job.Prompt, i)
		for _, st := range p.Stages {
			if p.stopped("before attempt", i) {
				return errStopped
			}
			err := p.attempt(ctx, job, st, i, prompt)
			if errors.Is(err, errStopped) {
				return err
			}
			if err == nil {
				done[i] = true
				break
			}
			slog.Warn("imagegen: attempt failed", "index", i, "stage", st.Name, "model", st.Model, "error", err)
		}
	}
	return nil
}

func (p *Pipeline) attempt(ctx context.Context, job *Job, st Stage, i int, prompt string) error {
	timeout := p.APITimeout
	if timeout <= 0 {
		timeout = DefaultAPITimeout
	}
	start := time.Now()
	callCtx, cancelCall := context.WithTimeout(ctx, timeout)
	res, err := st.Provider.Generate(callCtx, Request{Model: st.Model, Prompt: prompt, Size: job.Size})
	cancelCall()
	if err == nil && res == nil {
		err = errEmptyResult
	}
	job.Attempts = append(job.Attempts, Attempt{
		Index: i, Stage: st.Name, Model: st.Model, Err: err, Duration: time.Since(start),
	})
	if p.stopped("after remote call", i) {
		return errStopped
	}
	if err != nil {
		return err
	}

	name := p.Prefix + ArtifactName(job.Prompt, i)
	if len(res.Data) > 0 {
		return p.save(ctx, name, i, bytes.NewReader(res.Data))
	}
	if res.URL == "" {
		return errEmptyResult
	}
	body, err := p.download(ctx, res.URL)
	if err != nil {
		return err
	}
	defer body.Close()
	return p.save(ctx, name, i, body)
}

func (p *Pipeline) download(ctx context.Context, u string) (io.ReadCloser, error) {
	client := p.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultDownloadTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagegen: download: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("imagegen: download: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// save streams src into the artifact, checking the stop signal between
// chunks and once more before committing.
func (p *Pipeline) save(ctx context.Context, name string, i int, src io.Reader) error {
	w, err := p.Store.Write(ctx, name)
	if err != nil {
		return err
	}
	buf := make([]byte, 32*1024)
	for {
		if p.stopped("during download", i) {
			w.Abort()
			return errStopped
		}
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				w.Abort()
				return err
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			w.Abort()
			return rerr
		}
	}
	if p.stopped("after download", i) {
		w.Abort()
		return errStopped
	}
	return w.Close()
}

func (p *Pipeline) stageB(ctx context.Context, job *Job, done map[int]bool) error {
	if p.Fallback == nil {
		return nil
	}
	width, height := Dimensions(job.Size)
	seed := p.Seed
	if seed == nil {
		seed = func() int { return rand.IntN(100001) }
	}
	first := true
	for i := 1; i <= job.Target; i++ {
		if done[i] {
			continue
		}
		if !first && p.FallbackGap > 0 {
			if err := p.sleep(ctx, p.FallbackGap); err != nil {
				return err
			}
		}
		first = false
		if p.stopped("before fallback", i) {
			return errStopped
		}

		start := time.Now()
		body, err := p.Fallback.Open(ctx, job.Prompt, width, height, seed())
		if err == nil {
			err = p.save(ctx, p.Prefix+ArtifactName(job.Prompt, i), i, body)
			body.Close()
		}
		job.Attempts = append(job.Attempts, Attempt{
			Index: i, Stage: "fallback", Err: err, Duration: time.Since(start),
		})
		if errors.Is(err, errStopped) {
			return err
		}
		if p.stopped("after fallback", i) {
			return errStopped
		}
		if err != nil {
			slog.Warn("imagegen: fallback failed", "index", i, "error", err)
			continue
		}
		done[i] = true
	}
	return nil
}

// sleep waits d, returning errStopped if the signal is raised meanwhile.
func (p *Pipeline) sleep(ctx context.Context, d time.Duration) error {
	wctx, cancelWait := context.WithTimeout(ctx, d)
	defer cancelWait()
	if cancel.Wait(wctx, p.signal(), 50*time.Millisecond) {
		return errStopped
	}
	return nil
}

// Reveal shows the job's artifacts in order, pausing between them. The stop
// signal is checked before every item.
func (p *Pipeline) Reveal(ctx context.Context, job *Job) int {
	if p.Revealer == nil {
		return 0
	}
	gap := p.RevealGap
	if gap == 0 {
		gap = DefaultRevealGap
	}
	for n, name := range job.Artifacts {
		if p.stopped("before reveal", n+1) {
			job.Stopped = true
			break
		}
		if n > 0 && gap > 0 {
			if err := p.sleep(ctx, gap); err != nil {
				job.Stopped = true
				break
			}
		}
		path, err := storage.LocalPath(p.Store, name)
		if err != nil {
			slog.Warn("imagegen: reveal skipped", "artifact", name, "error", err)
			continue
		}
		if err := p.Revealer.Reveal(ctx, path); err != nil {
			slog.Warn("imagegen: reveal failed", "artifact", name, "error", err)
			continue
		}
		job.Revealed++
	}
	return job.Revealed
}

// Run generates images for prompt and reveals them unless stopped.
func (p *Pipeline) Run(ctx context.Context, prompt, size string) *Job {
	job := p.Generate(ctx, prompt, size)
	if !job.Stopped && job.Completed() > 0 {
		p.Reveal(ctx, job)
	}
	return job
}

// ProcessTrigger runs the pending request in tr, if any, and resets the
// record to inert afterwards. Malformed records are logged and left alone.
func (p *Pipeline) ProcessTrigger(ctx context.Context, tr channel.Trigger) (*Job, error) {
	req, err := tr.Load(ctx)
	if errors.Is(err, channel.ErrMalformed) {
		slog.Warn("imagegen: ignoring malformed request", "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("imagegen: load request: %w", err)
	}
	if !req.Pending {
		return nil, nil
	}

	job := p.Run(ctx, req.Prompt, req.Size)
	if err := tr.Reset(context.WithoutCancel(ctx)); err != nil {
		return job, fmt.Errorf("imagegen: reset request: %w", err)
	}
	return job, nil
}
