package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/jarvis/pkg/stopintent"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running assistant",
	Long: `Write the stop command into the input channel of the current context.

A running assistant picks it up within one poll interval, stops speaking,
drops queued speech and abandons image generation. With the badger channel
backend the store is held by the running process; use the bridge instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := loadServices()
		if err != nil {
			return err
		}
		r := &runtime{svc: svc}
		defer r.Close()
		if err := r.buildChannel(); err != nil {
			return err
		}
		if err := r.channel.Write(cmd.Context(), stopintent.Sentinel); err != nil {
			return fmt.Errorf("write stop command: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Stop command sent.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
