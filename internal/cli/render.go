package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmentor/supercoach-admin/internal/loader"
	"github.com/getmentor/supercoach-admin/internal/models"
	apperrors "github.com/getmentor/supercoach-admin/pkg/errors"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// fetchOnce loads a view with a loader that lives for a single command
func fetchOnce[F comparable, T any](ctx context.Context, name string, fetch loader.FetchFunc[F, T], filter F, opts ...loader.Option[F, T]) loader.State[T] {
	r := loader.New(name, fetch, opts...)
	defer r.Close()
	return r.Fetch(ctx, filter)
}

// show prints a loaded view, with a banner on stderr when the data is not live.
// Without any data the fetch error is returned.
func show[T any](a *app, cmd *cobra.Command, st loader.State[T], table func(w io.Writer, data T)) error {
	if !st.HasData() {
		return failure(st)
	}

	switch st.Source {
	case loader.SourceFallback:
		warn(cmd, "Showing built-in sample data, the platform does not provide this list yet")
	case loader.SourceStale:
		warn(cmd, "Showing previously loaded data: "+st.Error)
	}

	data := *st.Data
	return a.print(cmd, data, func(w io.Writer) { table(w, data) })
}

// failure is the error of a state that ended without data
func failure[T any](st loader.State[T]) error {
	if st.Err != nil {
		return st.Err
	}
	if st.Error != "" {
		return errors.New(st.Error)
	}
	return errors.New("no data loaded")
}

// print writes v in the selected output format. table renders the human format.
func (a *app) print(cmd *cobra.Command, v any, table func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	switch a.output {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(out)
		defer func() { _ = enc.Close() }()
		return enc.Encode(v)
	default:
		table(out)
		return nil
	}
}

func warn(cmd *cobra.Command, msg string) {
	fmt.Fprintln(cmd.ErrOrStderr(), warningStyle.Render("⚠️  "+msg))
}

// submit runs a mutation, listing every invalid field when the payload is rejected
func submit[P any, R any](cmd *cobra.Command, m *loader.Mutation[P, R], payload P) (R, error) {
	result, err := m.Run(cmd.Context(), payload)
	if err != nil && apperrors.KindOf(err) == apperrors.KindValidationFailed {
		reportValidation(cmd, err)
	}
	return result, err
}

// reportValidation lists every invalid field of a rejected payload on stderr
func reportValidation(cmd *cobra.Command, err error) {
	for _, d := range models.ParseValidationErrors(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("✗ ")+d.Message)
	}
}

func heading(w io.Writer, title string, count int) {
	if count == 0 {
		fmt.Fprintln(w, headerStyle.Render("📋 No "+title+" found"))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("📋 %d %s", count, title)))
	fmt.Fprintln(w)
}

// newTable starts an aligned table with a styled header row. Flush it when done.
func newTable(w io.Writer, columns ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	titles := make([]string, len(columns))
	for i, c := range columns {
		titles[i] = titleStyle.Render(c)
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cells ...any) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func percent(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func relative(t time.Time, now time.Time) string {
	if t.IsZero() {
		return dimStyle.Render("never")
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("2006-01-02")
	}
}
