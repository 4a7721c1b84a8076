package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/embtrace/embtrace/streamdecoder"
)

func newDumpCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "dump <input>",
		Short: "Print every decoded event in a raw trace binary, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			d := streamdecoder.New(m)
			for _, ev := range d.Push(data) {
				ts, hasTs := ev.Timestamp()
				if hasTs {
					fmt.Printf("%10d %T %+v\n", ts, ev, ev)
				} else {
					fmt.Printf("%10s %T %+v\n", "-", ev, ev)
				}
			}
			if n := d.EmptyFrames(); n > 0 {
				fmt.Fprintf(os.Stderr, "dump: %d empty frames ignored\n", n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "bare-metal", "trace mode: bare-metal or freertos")
	return cmd
}
