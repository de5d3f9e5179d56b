// Command ptfilter evaluates the threshold-pT trajectory filter on single
// states and replays recorded candidate traces through it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "v0.3.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ptfilter",
		Short:         "Threshold-pT trajectory filter tools",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newEvalCmd(), newReplayCmd(), newConvertCmd())
	return rootCmd
}
