package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/getmentor/supercoach-admin/internal/handlers"
	"github.com/getmentor/supercoach-admin/internal/server"
	"github.com/getmentor/supercoach-admin/pkg/logger"
	"github.com/getmentor/supercoach-admin/pkg/profiling"
	"github.com/getmentor/supercoach-admin/pkg/tracing"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local dashboard backend",
		Long: `Serve the dashboard API on 127.0.0.1. Every view keeps its last loaded data,
so a failed refresh shows the previous data with a warning instead of an error.

Set DASHBOARD_TOKEN to require the X-Dashboard-Token header on every view.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if port != "" {
				cfg.Server.Port = port
			}
			ctx := cmd.Context()

			logger.Info("Starting SuperCoach dashboard",
				zap.String("version", version),
				zap.String("environment", cfg.Server.AppEnv),
				zap.String("platform", cfg.API.BaseURL),
			)

			tracerShutdown, err := tracing.InitTracer(tracing.Config{
				ServiceName:      cfg.Observability.ServiceName,
				ServiceNamespace: cfg.Observability.ServiceNamespace,
				ServiceVersion:   cfg.Observability.ServiceVersion,
				Environment:      cfg.Server.AppEnv,
				Endpoint:         cfg.Observability.ExporterEndpoint,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize tracer: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if shutdownErr := tracerShutdown(shutdownCtx); shutdownErr != nil {
					logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
				}
			}()

			stopProfiler, err := profiling.Start(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
			if err != nil {
				return fmt.Errorf("failed to start profiler: %w", err)
			}
			defer stopProfiler()

			views := handlers.NewViews(a.client, time.Duration(cfg.Server.ViewTTLSeconds)*time.Second, cfg.API.FallbackEnabled)
			defer views.Reset()

			if cfg.Server.DashboardToken == "" {
				logger.Warn("DASHBOARD_TOKEN not set: any local process can use the stored session through the dashboard")
			}

			return server.Run(ctx, cfg, server.NewRouter(ctx, cfg, a.client, views))
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (default PORT)")
	return cmd
}
