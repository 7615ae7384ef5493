package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/jarvis/cmd/jarvis/internal/config"
	"github.com/haivivi/jarvis/pkg/cli"
)

var (
	// Global flags
	verbose      bool
	contextName  string
	formatOutput string

	globalConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "jarvis",
	Short: "Interruptible personal assistant",
	Long: `jarvis - a voice assistant runtime that can be stopped at any moment.

Utterances arrive through a shared input channel (a file, a badger store, or
the websocket bridge). Saying "jarvis stop" halts speech and image
generation within a poll interval.

Configuration is stored in the OS config directory (override with
$JARVIS_CONFIG_DIR):
  macOS:   ~/Library/Application Support/jarvis/
  Linux:   ~/.config/jarvis/
  Windows: %AppData%/jarvis/

Examples:
  jarvis config add-context home
  jarvis config use-context home
  jarvis config set home groq api_key gsk_xxx
  jarvis config set home a4f api_key ddc-xxx
  jarvis run
  jarvis stop`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use (default: current context)")
	rootCmd.PersistentFlags().StringVar(&formatOutput, "format", "yaml", "output format: yaml or json")
}

// GetConfig returns the configuration, loading it on first use.
func GetConfig() (*config.Config, error) {
	if globalConfig == nil {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

func output(cmd *cobra.Command, v any) error {
	return cli.Output(cmd.OutOrStdout(), v, cli.Format(formatOutput))
}
