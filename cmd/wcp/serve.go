package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wippyai/wcp-tools/internal/server"
	"github.com/wippyai/wcp-tools/store"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [files...]",
		Short: "Serve waveforms over HTTP",
		Long: `Serve starts the HTTP API. Files given on the command line are opened
before the server starts; more can be uploaded with POST /api/files/<name>.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}

			st := store.New()
			defer st.Shutdown()
			for _, f := range args {
				if _, err := st.OpenFile(f); err != nil {
					return err
				}
			}

			ctx, cancel := signalContext(context.Background())
			defer cancel()
			return server.New(st, cfg).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
