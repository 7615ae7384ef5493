package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/haivivi/jarvis/pkg/stopintent"
)

var classifyOffline bool

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Classify an utterance as a stop command",
	Long: `Run the stop detector on an utterance and print the verdict.

With --offline (or without a groq service) only the keyword heuristic is
used: "stop" together with "jarvis" or "assistant".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		det := stopintent.NewDetector(nil)
		if !classifyOffline {
			d, err := onlineDetector()
			if err != nil {
				return err
			}
			det = d
		}
		return output(cmd, verdict(det.Detect(cmd.Context(), text)))
	},
}

// onlineDetector returns the configured judge-backed detector, or the
// heuristic detector when groq is not configured.
func onlineDetector() (*stopintent.Detector, error) {
	svc, err := loadServices()
	if err != nil {
		return nil, err
	}
	if svc.groq == nil || svc.groq.APIKey == "" {
		return stopintent.NewDetector(nil), nil
	}
	g := svc.groq.WithDefaults()
	judge := &stopintent.OpenAIJudge{Client: newOpenAIClient(g.APIKey, g.BaseURL), Model: g.ClassifierModel}
	return stopintent.NewDetector(stopintent.NewClassifier(judge)), nil
}

type verdictOutput struct {
	Text     string `json:"text" yaml:"text"`
	Stop     bool   `json:"stop" yaml:"stop"`
	Sentinel bool   `json:"sentinel" yaml:"sentinel"`
}

func verdict(v stopintent.Verdict) verdictOutput {
	return verdictOutput{Text: v.Text, Stop: v.Stop, Sentinel: v.Sentinel}
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyOffline, "offline", false, "use the keyword heuristic only")
	rootCmd.AddCommand(classifyCmd)
}
