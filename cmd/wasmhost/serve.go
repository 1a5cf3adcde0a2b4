package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vortexchain/wasmhost/internal/debugsrv"
	"github.com/vortexchain/wasmhost/internal/metrics"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the debug/introspection HTTP surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			host, cfg, err := buildHost(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.DebugServer.ListenAddr
			}

			collector := metrics.New()
			srv := debugsrv.New(debugsrv.Options{
				Addr:            addr,
				RateLimitPerSec: cfg.DebugServer.RateLimitPerSec,
				RateLimitBurst:  cfg.DebugServer.RateLimitBurst,
				Host:            host,
				Metrics:         collector,
			})

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to config's debug_server.listen_addr)")
	return cmd
}
