package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/getmentor/supercoach-admin/internal/models"
	"github.com/getmentor/supercoach-admin/pkg/retry"
)

func newHealthCmd(a *app) *cobra.Command {
	var wait bool
	var attempts int

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the platform API is reachable",
		Long: `Check the platform API health endpoint. No session is needed.

With --wait, server errors and network failures are retried with exponential
backoff, which is handy right after starting the platform locally.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			check := func() (*models.HealthStatus, error) {
				return a.client.Health(ctx)
			}

			var status *models.HealthStatus
			var err error
			if wait {
				if !cmd.Flags().Changed("attempts") {
					attempts = a.cfg.API.HealthWaitAttempts
				}
				status, err = retry.DoWithResult(ctx, retry.HealthConfig(attempts), "platform_health", check)
			} else {
				status, err = check()
			}
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("❌ Platform API unreachable at "+a.cfg.API.BaseURL))
				return err
			}
			if status == nil {
				status = &models.HealthStatus{Status: "ok"}
			}

			return a.print(cmd, status, func(w io.Writer) { renderHealth(w, status, a.cfg.API.BaseURL) })
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "Retry until the platform answers")
	cmd.Flags().IntVar(&attempts, "attempts", 0, "Retries with --wait (default HEALTH_WAIT_ATTEMPTS)")
	return cmd
}

func renderHealth(w io.Writer, status *models.HealthStatus, baseURL string) {
	msg := fmt.Sprintf("✅ Platform API is %s", status.Status)
	if status.Version != "" {
		msg += " (version " + status.Version + ")"
	}
	fmt.Fprintln(w, successStyle.Render(msg))
	fmt.Fprintln(w, dimStyle.Render(baseURL))
}
