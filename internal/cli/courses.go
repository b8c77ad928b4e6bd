package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/getmentor/supercoach-admin/internal/loader"
	"github.com/getmentor/supercoach-admin/internal/models"
)

func newCoursesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "courses",
		Aliases: []string{"course"},
		Short:   "List and create courses",
	}
	cmd.AddCommand(newCoursesListCmd(a), newCoursesCreateCmd(a))
	return cmd
}

func newCoursesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := fetchOnce(cmd.Context(), "courses", func(ctx context.Context, _ struct{}) ([]models.Course, error) {
				return a.client.ListCourses(ctx)
			}, struct{}{}, loader.WithNormalize[struct{}](loader.NonNil[models.Course]))
			return show(a, cmd, st, renderCourses)
		},
	}
}

func renderCourses(w io.Writer, courses []models.Course) {
	heading(w, "courses", len(courses))
	if len(courses) == 0 {
		return
	}

	tw := newTable(w, "ID", "Title", "Status", "Students", "Modules")
	for _, c := range courses {
		row(tw, c.ID, truncate(c.Title, 50), courseStatusLabel(c.Status()), c.StudentCount, c.ModuleCount)
	}
	_ = tw.Flush()
}

func courseStatusLabel(s models.CourseStatus) string {
	switch s {
	case models.CourseStatusActive:
		return successStyle.Render(string(s))
	case models.CourseStatusPaused:
		return warningStyle.Render(string(s))
	default:
		return dimStyle.Render(string(s))
	}
}

func newCoursesCreateCmd(a *app) *cobra.Command {
	var req models.CreateCourseRequest

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a course",
		Example: `  coachadmin courses create --title "Go basics" --active`,
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := submit(cmd, loader.NewMutation("create_course", a.client.CreateCourse), req)
			if err != nil {
				return err
			}

			return a.print(cmd, course, func(w io.Writer) {
				fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("✅ Created course %s (#%d, %s)", course.Title, course.ID, course.Status())))
			})
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "Course title")
	cmd.Flags().StringVar(&req.Description, "description", "", "Course description")
	cmd.Flags().BoolVar(&req.IsActive, "active", false, "Publish the course right away")
	return cmd
}
