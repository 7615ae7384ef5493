package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haivivi/jarvis/pkg/channel"
	"github.com/haivivi/jarvis/pkg/cli"
	"github.com/haivivi/jarvis/pkg/imagegen"
)

var (
	imageSize    string
	imageNoOpen  bool
	imageRequest bool
)

var imageCmd = &cobra.Command{
	Use:   "image <prompt>",
	Short: "Generate images for a prompt",
	Long: `Generate four images through the configured provider chain, falling
back to the keyless service for any that fail, then open them.

With --request the prompt is only written to the image request record for
a running assistant to pick up.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.Join(args, " ")
		if !channel.ValidSize(imageSize) {
			return fmt.Errorf("invalid size %q: want WIDTHxHEIGHT or auto", imageSize)
		}
		ctx := cmd.Context()
		r, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer r.Close()

		if imageRequest {
			req := channel.ImageRequest{Prompt: prompt, Pending: true, Size: imageSize}
			if err := r.trigger.Store(ctx, req); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Image request stored.")
			return nil
		}

		if imageNoOpen {
			r.pipeline.Revealer = nil
		}
		job := r.pipeline.Run(ctx, prompt, imageSize)
		return output(cmd, jobReport(job))
	},
}

type attemptReport struct {
	Index    int    `json:"index" yaml:"index"`
	Stage    string `json:"stage" yaml:"stage"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`
	Duration string `json:"duration" yaml:"duration"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

type imageReport struct {
	ID        string          `json:"id" yaml:"id"`
	Prompt    string          `json:"prompt" yaml:"prompt"`
	Size      string          `json:"size" yaml:"size"`
	Completed int             `json:"completed" yaml:"completed"`
	Stopped   bool            `json:"stopped" yaml:"stopped"`
	Revealed  int             `json:"revealed" yaml:"revealed"`
	Artifacts []string        `json:"artifacts" yaml:"artifacts"`
	Attempts  []attemptReport `json:"attempts,omitempty" yaml:"attempts,omitempty"`
}

func jobReport(job *imagegen.Job) imageReport {
	rep := imageReport{
		ID:        job.ID,
		Prompt:    job.Prompt,
		Size:      job.Size,
		Completed: job.Completed(),
		Stopped:   job.Stopped,
		Revealed:  job.Revealed,
		Artifacts: job.Artifacts,
	}
	for _, a := range job.Attempts {
		ar := attemptReport{Index: a.Index, Stage: a.Stage, Model: a.Model, Duration: cli.FormatDuration(a.Duration)}
		if a.Err != nil {
			ar.Error = a.Err.Error()
		}
		rep.Attempts = append(rep.Attempts, ar)
	}
	return rep
}

func init() {
	imageCmd.Flags().StringVarP(&imageSize, "size", "s", channel.DefaultImageSize, "image size, WIDTHxHEIGHT or auto")
	imageCmd.Flags().BoolVar(&imageNoOpen, "no-open", false, "do not open the generated images")
	imageCmd.Flags().BoolVar(&imageRequest, "request", false, "store the request for a running assistant instead of generating")
	rootCmd.AddCommand(imageCmd)
}
