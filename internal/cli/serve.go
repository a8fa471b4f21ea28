package cli

import (
	"github.com/spf13/cobra"

	"github.com/jonwraymond/codeplay/mcpserver"
	"github.com/jonwraymond/codeplay/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr   string
		warmup bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := interruptible(cmd.Context())
			defer stop()

			pg, err := a.newPlayground(ctx, true)
			if err != nil {
				return err
			}
			defer pg.Close()

			if warmup {
				if err := pg.registry.StartAll(ctx); err != nil {
					a.logger.Warn("some runtimes failed to load", "error", err)
				}
			}

			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}
			opts := []server.Option{server.WithDefaultLanguage(a.cfg.DefaultLanguage)}
			if pg.store != nil {
				opts = append(opts, server.WithHistory(pg.store))
			}
			return server.New(cfg, pg.agg, a.logger, opts...).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&warmup, "warmup", true, "Load every runtime before accepting requests")

	return cmd
}

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the playground as an MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := interruptible(cmd.Context())
			defer stop()

			pg, err := a.newPlayground(ctx, true)
			if err != nil {
				return err
			}
			defer pg.Close()

			return mcpserver.NewServer(pg.agg, version, a.logger).Run(ctx)
		},
	}
}
