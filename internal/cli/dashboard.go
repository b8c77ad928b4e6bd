package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/getmentor/supercoach-admin/internal/models"
)

type dashboardView struct {
	Metrics       *models.DashboardMetrics     `json:"metrics" yaml:"metrics"`
	StudentStatus *models.StudentStatusSummary `json:"student_status,omitempty" yaml:"student_status,omitempty"`
}

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show headline numbers and the student status breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			metrics := fetchOnce(ctx, "dashboard_metrics", func(ctx context.Context, _ struct{}) (*models.DashboardMetrics, error) {
				return a.client.DashboardMetrics(ctx)
			}, struct{}{})
			if !metrics.HasData() {
				return failure(metrics)
			}

			// The breakdown is secondary; the dashboard still renders without it
			status := fetchOnce(ctx, "student_status", func(ctx context.Context, _ struct{}) (*models.StudentStatusSummary, error) {
				return a.client.StudentStatusSummary(ctx)
			}, struct{}{})
			view := dashboardView{Metrics: *metrics.Data}
			if status.HasData() {
				view.StudentStatus = *status.Data
			} else {
				warn(cmd, "Student status unavailable: "+status.Error)
			}

			return a.print(cmd, view, func(w io.Writer) { renderDashboard(w, view) })
		},
	}
}

func renderDashboard(w io.Writer, v dashboardView) {
	m := v.Metrics
	if m == nil {
		m = &models.DashboardMetrics{}
	}

	fmt.Fprintln(w, headerStyle.Render("📊 Dashboard"))
	fmt.Fprintln(w)

	tw := newTable(w, "Metric", "Value")
	row(tw, "Students", fmt.Sprintf("%d (%d active)", m.TotalStudents, m.ActiveStudents))
	row(tw, "Courses", fmt.Sprintf("%d (%d active)", m.TotalCourses, m.ActiveCourses))
	row(tw, "Conversations", m.TotalConversations)
	row(tw, "Average progress", percent(m.AverageProgress))
	row(tw, "Completion rate", percent(m.CompletionRate))
	_ = tw.Flush()

	if v.StudentStatus == nil {
		return
	}
	s := v.StudentStatus
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s  %s %d   %s %d   %s %d\n",
		titleStyle.Render("Student status"),
		successStyle.Render(string(models.StudentStatusActive)), s.Active,
		warningStyle.Render(string(models.StudentStatusStuck)), s.Stuck,
		dimStyle.Render(string(models.StudentStatusInactive)), s.Inactive)
}
