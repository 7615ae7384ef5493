// Command jarvis runs the interruptible personal assistant.
//
// Usage:
//
//	jarvis [flags] <command> [args]
//
// Commands:
//
//	run        - Run the assistant loop (watcher, speech queue, bridge)
//	say        - Speak a text through the speech queue
//	stop       - Send the stop command to a running assistant
//	image      - Generate images for a prompt
//	classify   - Classify an utterance as a stop command or not
//	config     - Configuration management (contexts, services)
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/jarvis/cmd/jarvis/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
