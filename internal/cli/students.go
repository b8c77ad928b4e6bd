package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmentor/supercoach-admin/internal/loader"
	"github.com/getmentor/supercoach-admin/internal/models"
)

func newStudentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "students",
		Aliases: []string{"student"},
		Short:   "List, inspect and create students",
	}
	cmd.AddCommand(
		newStudentsListCmd(a),
		newStudentsShowCmd(a),
		newStudentsCreateCmd(a),
	)
	return cmd
}

func newStudentsListCmd(a *app) *cobra.Command {
	var filter models.StudentFilter
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students, optionally by course, status or search text",
		Example: `  coachadmin students list --status stuck
  coachadmin students list --course 3 --search ann`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Status = models.StudentStatus(status)
			if status != "" && !filter.Status.IsValid() {
				return fmt.Errorf("unknown status %q, use active, stuck or inactive", status)
			}

			st := fetchOnce(cmd.Context(), "students", a.client.ListStudents, filter,
				loader.WithNormalize[models.StudentFilter](loader.NonNil[models.Student]))
			return show(a, cmd, st, renderStudents)
		},
	}

	cmd.Flags().IntVar(&filter.CourseID, "course", 0, "Only students of this course")
	cmd.Flags().StringVar(&status, "status", "", "Only students with this status: active, stuck or inactive")
	cmd.Flags().StringVar(&filter.Search, "search", "", "Match name or email")
	return cmd
}

func renderStudents(w io.Writer, students []models.Student) {
	heading(w, "students", len(students))
	if len(students) == 0 {
		return
	}

	now := time.Now()
	tw := newTable(w, "ID", "Name", "Email", "Status", "Progress", "Points", "Last active")
	for _, s := range students {
		lastActive := time.Time{}
		if s.LastActivityAt != nil {
			lastActive = *s.LastActivityAt
		}
		row(tw, s.ID, truncate(s.Name, 40), s.Email, statusLabel(s.DisplayStatus()), percent(s.Progress), s.Points, relative(lastActive, now))
	}
	_ = tw.Flush()
}

func statusLabel(s models.StudentStatus) string {
	switch s {
	case models.StudentStatusActive:
		return successStyle.Render(string(s))
	case models.StudentStatusStuck:
		return warningStyle.Render(string(s))
	default:
		return dimStyle.Render(string(s))
	}
}

func newStudentsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <student-id>",
		Short: "Show a student with their enrollments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid student id %q", args[0])
			}

			ctx := cmd.Context()
			st := fetchOnce(ctx, "student_detail", a.client.GetStudent, id)
			if !st.HasData() {
				return failure(st)
			}

			// Course titles are a nicety; without them enrollments show course ids
			courses := fetchOnce(ctx, "courses", func(ctx context.Context, _ struct{}) ([]models.Course, error) {
				return a.client.ListCourses(ctx)
			}, struct{}{})
			var known []models.Course
			if courses.HasData() {
				known = *courses.Data
			}

			return show(a, cmd, st, func(w io.Writer, d *models.StudentDetail) {
				renderStudentDetail(w, d, known)
			})
		},
	}
}

func renderStudentDetail(w io.Writer, d *models.StudentDetail, courses []models.Course) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("🎓 %s (#%d)", d.Name, d.ID)))
	fmt.Fprintln(w)

	tw := newTable(w, "Field", "Value")
	row(tw, "Email", d.Email)
	if d.Phone != "" {
		row(tw, "Phone", d.Phone)
	}
	row(tw, "Status", statusLabel(d.DisplayStatus()))
	row(tw, "Progress", percent(d.Progress))
	row(tw, "Points", d.Points)
	if d.Notes != "" {
		row(tw, "Notes", truncate(d.Notes, 80))
	}
	_ = tw.Flush()

	fmt.Fprintln(w)
	if len(d.Enrollments) == 0 {
		fmt.Fprintln(w, dimStyle.Render("Not enrolled in any course"))
		return
	}
	tw = newTable(w, "Course", "Progress", "Enrolled")
	for _, e := range d.Enrollments {
		row(tw, courseLabel(courses, e.CourseID), percent(e.Progress), e.EnrolledAt.Format("2006-01-02"))
	}
	_ = tw.Flush()
}

func courseLabel(courses []models.Course, id int) string {
	if c := models.FindCourse(courses, id); c != nil {
		return c.Title
	}
	return fmt.Sprintf("#%d", id)
}

func newStudentsCreateCmd(a *app) *cobra.Command {
	var req models.CreateStudentRequest
	var courseID int

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a student, optionally enrolled in a course",
		Example: `  coachadmin students create --name "Ann Lee" --email ann@example.com --phone 5551234567 --course 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("course") {
				req.CourseID = &courseID
			}

			student, err := submit(cmd, loader.NewMutation("create_student", a.client.CreateStudent), req)
			if err != nil {
				return err
			}

			return a.print(cmd, student, func(w io.Writer) {
				fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("✅ Created student %s (#%d)", student.Name, student.ID)))
			})
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number, digits only")
	cmd.Flags().IntVar(&courseID, "course", 0, "Enroll the student in this course")
	return cmd
}
