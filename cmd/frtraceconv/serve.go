package main

import (
	"fmt"
	"net/http"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/embtrace/embtrace/internal/httpserve"
)

func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an HTTP server accepting trace uploads and returning Perfetto traces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := fmt.Sprintf(":%d", port)
			glog.Infof("serve: listening on %s", addr)
			return http.ListenAndServe(addr, httpserve.NewRouter())
		},
	}
	cmd.Flags().IntVar(&port, "port", 7529, "HTTP port to listen on")
	return cmd
}
