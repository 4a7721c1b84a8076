package main

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/embtrace/embtrace/convert"
	"github.com/embtrace/embtrace/evt"
)

func newConvCmd() *cobra.Command {
	var (
		coreCount int
		mode      string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "conv <input>",
		Short: "Convert a raw trace binary into a Perfetto trace file",
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

			c, err := convert.NewTraceConverter(coreCount, m)
			if err != nil {
				return err
			}
			if err := c.AddBinary(data); err != nil {
				return fmt.Errorf("converting %s: %w", args[0], err)
			}

			out, err := c.GeneratePerfettoTrace()
			if err != nil {
				return fmt.Errorf("converting %s: %w", args[0], err)
			}
			if output == "" {
				output = args[0] + ".perfetto-trace"
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			glog.Infof("conv: wrote %d bytes to %s", len(out), output)
			return nil
		},
	}
	cmd.Flags().IntVar(&coreCount, "cores", 1, "number of CPU cores the trace was recorded on")
	cmd.Flags().StringVar(&mode, "mode", "bare-metal", "trace mode: bare-metal or freertos")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.perfetto-trace)")
	return cmd
}

func parseMode(s string) (evt.Mode, error) {
	switch s {
	case "bare-metal":
		return evt.ModeBareMetal, nil
	case "freertos":
		return evt.ModeFreeRTOS, nil
	default:
		return 0, fmt.Errorf("unknown mode %q: want bare-metal or freertos", s)
	}
}
