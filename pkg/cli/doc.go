// Package cli holds the output helpers shared by the jarvis commands:
// structured result printing (YAML or JSON), secret masking for config
// display, and human-readable durations and sizes.
//
// Example usage:
//
//	cli.Output(os.Stdout, verdict, cli.FormatJSON)
//	fmt.Println(cli.MaskAPIKey(key))
package cli
