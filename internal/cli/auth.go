package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/getmentor/supercoach-admin/internal/models"
	apperrors "github.com/getmentor/supercoach-admin/pkg/errors"
)

// sessionInfo describes the stored session without exposing tokens
type sessionInfo struct {
	Authenticated bool          `json:"authenticated" yaml:"authenticated"`
	Coach         *models.Coach `json:"coach,omitempty" yaml:"coach,omitempty"`
	ExpiresAt     *time.Time    `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	ExpiresIn     string        `json:"expires_in,omitempty" yaml:"expires_in,omitempty"`
}

func describeSession(sess *models.Session, now time.Time) sessionInfo {
	if !sess.IsValid(now) {
		return sessionInfo{}
	}
	expiresAt := time.UnixMilli(sess.ExpiresAt)
	return sessionInfo{
		Authenticated: true,
		Coach:         sess.Coach,
		ExpiresAt:     &expiresAt,
		ExpiresIn:     sess.ExpiresIn(now).Round(time.Second).String(),
	}
}

func coachLabel(c *models.Coach) string {
	if c == nil {
		return "unknown coach"
	}
	if c.Email == "" {
		return c.Name
	}
	return fmt.Sprintf("%s <%s>", c.Name, c.Email)
}

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a coach",
		Long:  `Sign in with your platform credentials. The password is prompted for when --password is omitted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := readPassword(cmd)
				if err != nil {
					return err
				}
				password = p
			}

			sess, err := a.client.Login(cmd.Context(), models.LoginRequest{Email: email, Password: password})
			if err != nil {
				if apperrors.KindOf(err) == apperrors.KindValidationFailed {
					reportValidation(cmd, err)
				}
				return err
			}

			info := describeSession(sess, time.Now())
			return a.print(cmd, info, func(w io.Writer) {
				fmt.Fprintln(w, successStyle.Render("✅ Logged in as "+coachLabel(sess.Coach)))
				fmt.Fprintln(w, dimStyle.Render("Session expires in "+info.ExpiresIn))
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Coach email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// readPassword prompts on stderr. Terminal input is not echoed.
func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil {
				return err
			}
			return a.print(cmd, sessionInfo{}, func(w io.Writer) {
				fmt.Fprintln(w, successStyle.Render("✅ Logged out"))
			})
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in coach and when the session expires",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.client.Session(cmd.Context())
			if err != nil {
				return err
			}

			info := describeSession(sess, time.Now())
			if err := a.print(cmd, info, func(w io.Writer) {
				if !info.Authenticated {
					fmt.Fprintln(w, warningStyle.Render("Not logged in"))
					return
				}
				fmt.Fprintln(w, headerStyle.Render("👤 "+coachLabel(info.Coach)))
				fmt.Fprintln(w, dimStyle.Render("Session expires in "+info.ExpiresIn))
			}); err != nil {
				return err
			}

			if !info.Authenticated {
				return apperrors.AuthRequiredError("not logged in, run `coachadmin login`")
			}
			return nil
		},
	}
}
