// Command frtraceconv converts a recorded embedded trace stream into a
// Perfetto trace, either as a one-shot file conversion, a raw event
// dump for inspection, or a long-running HTTP conversion server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "frtraceconv",
		Short: "Convert an embedded device trace stream into a Perfetto trace",
	}
	root.AddCommand(newConvCmd())
	root.AddCommand(newDumpCmd())
	root.AddCommand(newServeCmd())
	return root
}
