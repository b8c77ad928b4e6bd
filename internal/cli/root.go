// Package cli is the coachadmin command line: one-shot views over the coaching
// platform, login/logout, create and enroll commands, and the dashboard server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/getmentor/supercoach-admin/config"
	"github.com/getmentor/supercoach-admin/internal/api"
	"github.com/getmentor/supercoach-admin/internal/gateway"
	"github.com/getmentor/supercoach-admin/internal/session"
	apperrors "github.com/getmentor/supercoach-admin/pkg/errors"
	"github.com/getmentor/supercoach-admin/pkg/httpclient"
	"github.com/getmentor/supercoach-admin/pkg/logger"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes
const (
	exitError        = 1
	exitAuthRequired = 2
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// app is the state shared by all commands of one invocation
type app struct {
	output string

	cfg     *config.Config
	storage session.Storage
	client  *api.Client
	serving bool
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		if errors.Is(err, apperrors.ErrAuthRequired) {
			os.Exit(exitAuthRequired)
		}
		os.Exit(exitError)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "coachadmin",
		Short: "Admin client for the SuperCoach coaching platform",
		Long: `Manage courses, students and AI supercoaches of the coaching platform.

Quick Start:
  coachadmin login --email coach@example.com     # Sign in
  coachadmin students list --status stuck        # Students who need a nudge
  coachadmin conversations --student 12          # Supercoach threads of a student
  coachadmin serve                               # Local dashboard backend`,
		Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVarP(&a.output, "output", "o", formatTable, "Output format: table, json or yaml")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newDashboardCmd(a),
		newStudentsCmd(a),
		newCoursesCmd(a),
		newEnrollmentsCmd(a),
		newEnrollCmd(a),
		newLeaderboardCmd(a),
		newSuperCoachesCmd(a),
		newConversationsCmd(a),
		newHealthCmd(a),
		newServeCmd(a),
	)
	return root
}

// setup loads configuration and opens the session store for the command about to run
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	switch a.output {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown output format %q, use table, json or yaml", a.output)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a.serving = cmd.Name() == "serve"
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
		Quiet:       !a.serving,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	storage, err := session.OpenStorage(cfg.Session)
	if err != nil {
		return fmt.Errorf("failed to open session storage: %w", err)
	}

	httpClient := httpclient.NewStandardClient(time.Duration(cfg.API.TimeoutSeconds) * time.Second)
	gw := gateway.New(cfg.API.BaseURL, httpClient, session.NewStore(storage),
		gateway.WithAuthRequiredHandler(a.authRequired(cmd.ErrOrStderr())),
	)

	a.cfg = cfg
	a.storage = storage
	a.client = api.NewClient(gw)
	return nil
}

// authRequired is the login redirect of the command line: the session is
// already gone, so the coach is told how to get a new one.
func (a *app) authRequired(stderr io.Writer) gateway.AuthRequiredFunc {
	return func(reason string) {
		logger.Warn("Session ended", zap.String("reason", reason))
		if a.serving {
			return
		}
		fmt.Fprintln(stderr, warningStyle.Render("⚠️  You are signed out ("+reason+"). Run `coachadmin login` to sign in again."))
	}
}

func (a *app) close() {
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			logger.Error("Failed to close session storage", zap.Error(err))
		}
		a.storage = nil
	}
	logger.Sync()
}
