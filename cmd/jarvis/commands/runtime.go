package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"

	"github.com/haivivi/jarvis/cmd/jarvis/internal/config"
	"github.com/haivivi/jarvis/pkg/answer"
	"github.com/haivivi/jarvis/pkg/assistant"
	"github.com/haivivi/jarvis/pkg/cancel"
	"github.com/haivivi/jarvis/pkg/channel"
	"github.com/haivivi/jarvis/pkg/decision"
	"github.com/haivivi/jarvis/pkg/imagegen"
	"github.com/haivivi/jarvis/pkg/kv"
	"github.com/haivivi/jarvis/pkg/minimax"
	"github.com/haivivi/jarvis/pkg/stopintent"
	"github.com/haivivi/jarvis/pkg/storage"
	"github.com/haivivi/jarvis/pkg/tts"
)

// services is the resolved per-context configuration. Optional services
// are nil when their file is absent.
type services struct {
	dir       string
	assistant config.Assistant
	groq      *config.Groq
	a4f       *config.A4F
	minimax   *config.MiniMax
	gemini    *config.Gemini
	s3        *config.S3
}

func loadServices() (*services, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	dir, err := cfg.ResolveContext(contextName)
	if err != nil {
		return nil, err
	}
	s := &services{dir: dir}

	a, err := config.LoadOptional[config.Assistant](dir, config.ServiceAssistant)
	if err != nil {
		return nil, err
	}
	if a != nil {
		s.assistant = *a
	}
	s.assistant = s.assistant.WithDefaults()
	if s.assistant.DataDir == "" {
		s.assistant.DataDir = filepath.Join(dir, "data")
	}

	if s.groq, err = config.LoadOptional[config.Groq](dir, config.ServiceGroq); err != nil {
		return nil, err
	}
	if s.a4f, err = config.LoadOptional[config.A4F](dir, config.ServiceA4F); err != nil {
		return nil, err
	}
	if s.minimax, err = config.LoadOptional[config.MiniMax](dir, config.ServiceMiniMax); err != nil {
		return nil, err
	}
	if s.gemini, err = config.LoadOptional[config.Gemini](dir, config.ServiceGemini); err != nil {
		return nil, err
	}
	if s.s3, err = config.LoadOptional[config.S3](dir, config.ServiceS3); err != nil {
		return nil, err
	}
	return s, nil
}

// runtime holds the assembled components. Fields are nil when the
// required service is not configured.
type runtime struct {
	svc    *services
	signal *cancel.Signal

	channel  channel.Text
	trigger  channel.Trigger
	detector *stopintent.Detector

	artifacts storage.FileStore
	queue     *tts.Queue
	pipeline  *imagegen.Pipeline
	decider   assistant.Decider
	answerer  assistant.Answerer

	closers []io.Closer
}

func (r *runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i].Close())
	}
	return errors.Join(errs...)
}

func newRuntime(ctx context.Context) (*runtime, error) {
	svc, err := loadServices()
	if err != nil {
		return nil, err
	}
	r := &runtime{svc: svc, signal: &cancel.Signal{}}
	if err := r.build(ctx); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *runtime) build(ctx context.Context) error {
	a := r.svc.assistant
	if err := os.MkdirAll(a.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := r.buildChannel(); err != nil {
		return err
	}

	var groq *openai.Client
	if g := r.svc.groq; g != nil && g.APIKey != "" {
		cfg := g.WithDefaults()
		groq = newOpenAIClient(cfg.APIKey, cfg.BaseURL)
		r.detector = stopintent.NewDetector(stopintent.NewClassifier(&stopintent.OpenAIJudge{Client: groq, Model: cfg.ClassifierModel}))
		r.decider = &decision.OpenAI{Client: groq, Model: cfg.DecisionModel}
		ans := answer.New(groq, cfg.Model, 0)
		ans.Username, ans.Assistantname = a.Username, a.AssistantName
		r.answerer = ans
	} else {
		slog.Warn("groq not configured; stop classification uses the heuristic and answers are disabled")
		r.detector = stopintent.NewDetector(nil)
		r.decider = assistant.DeciderFunc(func(_ context.Context, q string) ([]string, error) {
			return []string{"general " + q}, nil
		})
	}

	if err := r.buildArtifacts(); err != nil {
		return err
	}
	if err := r.buildSpeech(); err != nil {
		return err
	}
	return r.buildImages(ctx)
}

func (r *runtime) buildChannel() error {
	a := r.svc.assistant
	switch a.Channel {
	case config.ChannelFile:
		r.channel = channel.NewFile(filepath.Join(a.DataDir, "input.data"))
		r.trigger = channel.NewFileTrigger(filepath.Join(a.DataDir, "ImageGeneration.data"))
	case config.ChannelBadger:
		store, err := kv.NewBadger(kv.BadgerOptions{Dir: filepath.Join(a.DataDir, "kv")})
		if err != nil {
			return fmt.Errorf("open channel store: %w", err)
		}
		r.closers = append(r.closers, store)
		r.channel = channel.NewKVText(store, nil)
		r.trigger = channel.NewKVTrigger(store, nil)
	default:
		return fmt.Errorf("unknown channel backend %q", a.Channel)
	}
	return nil
}

func (r *runtime) buildArtifacts() error {
	a := r.svc.assistant
	local, err := storage.NewLocal(filepath.Join(a.DataDir, "artifacts"))
	if err != nil {
		return fmt.Errorf("artifact store: %w", err)
	}
	r.artifacts = local
	if !a.Mirror {
		return nil
	}
	if r.svc.s3 == nil || r.svc.s3.Bucket == "" {
		return errors.New("assistant mirror is set but s3 bucket is not configured")
	}
	r.artifacts = storage.NewMirror(local, storage.NewS3(newS3Client(r.svc.s3), r.svc.s3.Bucket, r.svc.s3.Prefix))
	return nil
}

func (r *runtime) buildSpeech() error {
	a := r.svc.assistant
	var synth tts.Synthesizer
	switch a.Speech {
	case config.ServiceA4F:
		if r.svc.a4f == nil || r.svc.a4f.APIKey == "" {
			slog.Warn("a4f not configured; speech disabled")
			return nil
		}
		c := r.svc.a4f.WithDefaults()
		synth = &tts.OpenAISynthesizer{
			Client: newOpenAIClient(c.APIKey, c.BaseURL),
			Model:  c.SpeechModel,
			Voice:  c.Voice,
			Speed:  c.Speed,
		}
	case config.ServiceMiniMax:
		if r.svc.minimax == nil || r.svc.minimax.APIKey == "" {
			slog.Warn("minimax not configured; speech disabled")
			return nil
		}
		c := r.svc.minimax.WithDefaults()
		synth = &tts.MiniMaxSynthesizer{
			Client:  newMiniMaxClient(c),
			Model:   c.SpeechModel,
			VoiceID: c.VoiceID,
			Speed:   c.Speed,
		}
	default:
		return fmt.Errorf("unknown speech service %q", a.Speech)
	}

	player := tts.DefaultPlayer
	if len(a.Player) > 0 {
		player = tts.CommandPlayer{Command: a.Player[0], Args: a.Player[1:]}
	}
	r.queue = tts.NewQueue(tts.Config{
		Synthesizer: synth,
		Player:      player,
		Store:       r.artifacts,
		Signal:      r.signal,
	})
	return nil
}

func (r *runtime) buildImages(ctx context.Context) error {
	var stages []imagegen.Stage
	var a4fClient *openai.Client
	var mmClient *minimax.Client
	var gemClient *genai.Client

	for _, entry := range r.svc.assistant.ImageStages {
		provider, model, ok := strings.Cut(entry, ":")
		if !ok || model == "" {
			return fmt.Errorf("image stage %q: want provider:model", entry)
		}
		st := imagegen.Stage{Name: provider, Model: model}
		switch provider {
		case config.ServiceA4F:
			if r.svc.a4f == nil || r.svc.a4f.APIKey == "" {
				continue
			}
			if a4fClient == nil {
				c := r.svc.a4f.WithDefaults()
				a4fClient = newOpenAIClient(c.APIKey, c.BaseURL)
			}
			st.Provider = &imagegen.OpenAIProvider{Client: a4fClient}
		case config.ServiceMiniMax:
			if r.svc.minimax == nil || r.svc.minimax.APIKey == "" {
				continue
			}
			if mmClient == nil {
				mmClient = newMiniMaxClient(r.svc.minimax.WithDefaults())
			}
			st.Provider = &imagegen.MiniMaxProvider{Client: mmClient}
		case config.ServiceGemini:
			if r.svc.gemini == nil || r.svc.gemini.APIKey == "" {
				continue
			}
			if gemClient == nil {
				c, err := genai.NewClient(ctx, &genai.ClientConfig{
					APIKey:  r.svc.gemini.APIKey,
					Backend: genai.BackendGeminiAPI,
				})
				if err != nil {
					return fmt.Errorf("gemini client: %w", err)
				}
				gemClient = c
			}
			st.Provider = &imagegen.GeminiProvider{Client: gemClient}
		default:
			return fmt.Errorf("image stage %q: unknown provider %q", entry, provider)
		}
		stages = append(stages, st)
	}
	if len(stages) == 0 {
		slog.Info("no image providers configured; using the fallback service only")
	}

	r.pipeline = &imagegen.Pipeline{
		Stages:   stages,
		Fallback: &imagegen.Pollinations{},
		Store:    r.artifacts,
		Signal:   r.signal,
		Revealer: imagegen.BrowserRevealer{},
		Prefix:   "images/",
	}
	return r.pipeline.Validate()
}

func newOpenAIClient(apiKey, baseURL string) *openai.Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &client
}

func newMiniMaxClient(c config.MiniMax) *minimax.Client {
	var opts []minimax.Option
	if c.BaseURL != "" {
		opts = append(opts, minimax.WithBaseURL(c.BaseURL))
	}
	if c.MaxRetries > 0 {
		opts = append(opts, minimax.WithRetry(c.MaxRetries))
	}
	return minimax.NewClient(c.APIKey, opts...)
}

func newS3Client(c *config.S3) *s3.Client {
	region := c.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{
		Region:       region,
		UsePathStyle: c.PathStyle,
	}
	if c.Endpoint != "" {
		opts.BaseEndpoint = aws.String(c.Endpoint)
	}
	if c.AccessKeyID != "" {
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     c.AccessKeyID,
				SecretAccessKey: c.SecretAccessKey,
				Source:          "jarvis s3.yaml",
			}, nil
		}))
	}
	return s3.New(opts)
}
