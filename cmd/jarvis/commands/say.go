package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sayCmd = &cobra.Command{
	Use:   "say <text>",
	Short: "Speak a text through the speech queue",
	Long: `Synthesize and play a text the way the assistant speaks its answers,
including the long-answer shortening.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer r.Close()
		if r.queue == nil {
			return errors.New("speech is not configured for this context")
		}

		runCtx, stop := context.WithCancel(ctx)
		defer stop()
		go r.queue.Run(runCtx)

		job := r.queue.Enqueue(strings.Join(args, " "))
		if job == nil {
			return errors.New("nothing to say")
		}
		outcome, err := job.Wait(ctx)
		if err != nil {
			return fmt.Errorf("speech %s: %w", outcome, err)
		}
		if job.Truncated() {
			fmt.Fprintf(cmd.OutOrStdout(), "Spoken (shortened): %s\n", job.Spoken)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sayCmd)
}
