package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/getmentor/supercoach-admin/internal/loader"
	"github.com/getmentor/supercoach-admin/internal/models"
)

const maxLeaderboardLimit = 100

func newEnrollmentsCmd(a *app) *cobra.Command {
	var filter models.EnrollmentFilter

	cmd := &cobra.Command{
		Use:   "enrollments",
		Short: "List enrollments, optionally of one course or student",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := fetchOnce(cmd.Context(), "enrollments", a.client.ListEnrollments, filter,
				loader.WithNormalize[models.EnrollmentFilter](loader.NonNil[models.Enrollment]))
			return show(a, cmd, st, renderEnrollments)
		},
	}

	cmd.Flags().IntVar(&filter.CourseID, "course", 0, "Only enrollments of this course")
	cmd.Flags().IntVar(&filter.StudentID, "student", 0, "Only enrollments of this student")
	return cmd
}

func renderEnrollments(w io.Writer, enrollments []models.Enrollment) {
	heading(w, "enrollments", len(enrollments))
	if len(enrollments) == 0 {
		return
	}

	tw := newTable(w, "ID", "Student", "Course", "Progress", "Enrolled")
	for _, e := range enrollments {
		row(tw, e.ID, e.StudentID, e.CourseID, percent(e.Progress), e.EnrolledAt.Format("2006-01-02"))
	}
	_ = tw.Flush()
}

func newEnrollCmd(a *app) *cobra.Command {
	var req models.EnrollRequest

	cmd := &cobra.Command{
		Use:     "enroll",
		Short:   "Enroll a student in a course",
		Example: `  coachadmin enroll --student 12 --course 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			enrollment, err := submit(cmd, loader.NewMutation("enroll", a.client.Enroll), req)
			if err != nil {
				return err
			}

			return a.print(cmd, enrollment, func(w io.Writer) {
				fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("✅ Enrolled student #%d in course #%d", enrollment.StudentID, enrollment.CourseID)))
			})
		},
	}

	cmd.Flags().IntVar(&req.StudentID, "student", 0, "Student ID")
	cmd.Flags().IntVar(&req.CourseID, "course", 0, "Course ID")
	return cmd
}

func newLeaderboardCmd(a *app) *cobra.Command {
	filter := models.LeaderboardFilter{Limit: 10}

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top students by points",
		RunE: func(cmd *cobra.Command, args []string) error {
			if filter.Limit <= 0 || filter.Limit > maxLeaderboardLimit {
				return fmt.Errorf("limit must be between 1 and %d", maxLeaderboardLimit)
			}

			st := fetchOnce(cmd.Context(), "leaderboard", a.client.Leaderboard, filter,
				loader.WithNormalize[models.LeaderboardFilter](loader.NonNil[models.LeaderboardEntry]))
			return show(a, cmd, st, renderLeaderboard)
		},
	}

	cmd.Flags().IntVar(&filter.CourseID, "course", 0, "Only students of this course")
	cmd.Flags().IntVar(&filter.Limit, "limit", filter.Limit, "Number of students to show")
	return cmd
}

func renderLeaderboard(w io.Writer, entries []models.LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, headerStyle.Render("🏆 Nobody on the leaderboard yet"))
		return
	}
	fmt.Fprintln(w, headerStyle.Render("🏆 Leaderboard"))
	fmt.Fprintln(w)

	tw := newTable(w, "Rank", "Student", "Points", "Progress")
	for _, e := range entries {
		row(tw, e.Rank, truncate(e.StudentName, 40), e.Points, percent(e.Progress))
	}
	_ = tw.Flush()
}
