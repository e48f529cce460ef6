package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphweave/internal/server"
	"github.com/matzehuels/graphweave/pkg/observability"
)

// serveCommand creates the serve command, which starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

Endpoints:
  GET  /healthz                 liveness probe
  POST /api/v1/layout           payload → layout JSON
  POST /api/v1/render?format=   payload → rendered artifact
  GET  /metrics                 Prometheus metrics (server.metrics)

Defaults come from the [server] table of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	cfg := c.Config.Server
	var metrics *observability.Metrics
	if cfg.Metrics {
		metrics = observability.NewMetrics()
		observability.SetPipelineHooks(metrics)
		observability.SetCacheHooks(metrics)
		observability.SetSourceHooks(metrics)
		defer observability.Reset()
	}

	srv := server.New(runner, server.Options{
		Addr:         cfg.Addr,
		ReadTimeout:  cfg.ReadTimeout.Std(),
		WriteTimeout: cfg.WriteTimeout.Std(),
		MaxBodyBytes: cfg.MaxBodyBytes,
		Defaults:     c.pipelineOptions(),
		Metrics:      metrics,
	}, c.Logger)

	printInfo("Serving on %s", StyleHighlight.Render(cfg.Addr))
	return srv.ListenAndServe(ctx)
}
