package commands

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/jarvis/pkg/assistant"
	"github.com/haivivi/jarvis/pkg/automation"
	"github.com/haivivi/jarvis/pkg/bridge"
	"github.com/haivivi/jarvis/pkg/channel"
	"github.com/haivivi/jarvis/pkg/console"
	"github.com/haivivi/jarvis/pkg/stopintent"
	"github.com/haivivi/jarvis/pkg/tts"
	"github.com/haivivi/jarvis/pkg/watcher"
)

var (
	runNoGreet bool
	runStdin   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the assistant",
	Long: `Run the assistant until interrupted or told goodbye.

Utterances arrive through the input channel. They are written by the
websocket bridge when assistant.listen is set, by standard input otherwise,
or by any other process sharing the data directory ("jarvis stop" among
them).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer r.Close()
		return runAssistant(ctx, r, cmd.OutOrStdout(), cmd.InOrStdin())
	},
}

func runAssistant(ctx context.Context, r *runtime, out io.Writer, in io.Reader) error {
	ctx, exit := context.WithCancel(ctx)
	defer exit()

	a := r.svc.assistant
	interval, err := a.Interval()
	if err != nil {
		return err
	}

	sinks := multiSink{console.New(out, a.Username, console.DefaultTheme)}
	var wg sync.WaitGroup

	cfg := assistant.Config{
		Channel:       r.channel,
		Signal:        r.signal,
		Detector:      r.detector,
		Decider:       r.decider,
		Answerer:      r.answerer,
		Automation:    &automation.Browser{},
		Images:        r.pipeline,
		Trigger:       r.trigger,
		Exit:          exit,
		Username:      a.Username,
		Assistantname: a.AssistantName,
		PollInterval:  interval,
	}

	if r.queue != nil {
		cfg.Speaker = r.queue
		cfg.Interrupters = []watcher.Interrupter{r.queue}
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.queue.Run(ctx)
		}()
	} else {
		cfg.Speaker = logSpeaker{}
	}

	if a.Listen != "" {
		hub := bridge.NewHub(r.channel)
		sinks = append(sinks, hub)
		cfg.Microphone = hub
		cfg.Listener = hub
		srv := &http.Server{Addr: a.Listen, Handler: hub}
		wg.Add(1)
		go func() {
			defer wg.Done()
			slog.Info("bridge: listening", "addr", a.Listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("bridge: server failed", "error", err)
				exit()
			}
		}()
		defer func() {
			hub.Close()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}
	if runStdin || a.Listen == "" {
		go readLines(ctx, in, r.channel)
	}
	cfg.Sink = sinks

	w := &watcher.Watcher{
		Channel:      r.channel,
		Detector:     r.detector,
		Signal:       r.signal,
		Interrupters: cfg.Interrupters,
		Interval:     interval,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Run(ctx)
	}()

	orch := assistant.New(cfg)
	if !runNoGreet {
		orch.Greet()
	}
	err = orch.Run(ctx)

	exit()
	if r.queue != nil {
		r.queue.Close()
	}
	wg.Wait()
	return err
}

// readLines writes each non-empty line of in to the channel. It exits at
// EOF; a blocked read is abandoned when the command returns.
func readLines(ctx context.Context, in io.Reader, ch channel.Text) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line != stopintent.Sentinel {
			line = assistant.QueryModifier(line)
		}
		if err := ch.Write(ctx, line); err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("stdin: write failed", "error", err)
		}
	}
}

// multiSink fans status and text out to every sink.
type multiSink []assistant.Sink

func (m multiSink) SetStatus(s string) {
	for _, sink := range m {
		sink.SetStatus(s)
	}
}

func (m multiSink) ShowText(s string) {
	for _, sink := range m {
		sink.ShowText(s)
	}
}

// logSpeaker stands in for the speech queue when no synthesizer is
// configured.
type logSpeaker struct{}

func (logSpeaker) Enqueue(text string) *tts.Job {
	slog.Info("speech disabled", "text", text)
	return nil
}

func init() {
	runCmd.Flags().BoolVar(&runNoGreet, "no-greet", false, "skip the startup greeting")
	runCmd.Flags().BoolVar(&runStdin, "stdin", false, "read utterances from standard input even when the bridge is enabled")
	rootCmd.AddCommand(runCmd)
}
