package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/buildinfo"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/server"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart over HTTP",
		Long: `Serve the chart API with Prometheus metrics on /metrics.

Collapse state is either held by the client (GET /api/graph?collapsed=a,b)
or by the server in sessions (POST /api/sessions).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, cfg, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer r.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := observability.NewPrometheus(reg)
			observability.SetBuildHooks(metrics)
			observability.SetCacheHooks(metrics)
			observability.SetServerHooks(metrics)
			defer observability.Reset()

			if addr == "" {
				addr = cfg.Server.Addr
			}
			logger := loggerFromContext(ctx)
			logger.Info("orgchart", "version", buildinfo.String(), "source", r.Source.Name(), "engine", r.Options.Engine)

			srv := server.New(r, server.Options{
				SessionTTL:  cfg.Server.SessionTTL,
				MaxSessions: cfg.Server.MaxSessions,
				Metrics:     reg,
			}, logger)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
