package handlers

import (
	"context"
	"time"

	"github.com/getmentor/supercoach-admin/internal/api"
	"github.com/getmentor/supercoach-admin/internal/cache"
	"github.com/getmentor/supercoach-admin/internal/fallback"
	"github.com/getmentor/supercoach-admin/internal/loader"
	"github.com/getmentor/supercoach-admin/internal/models"
)

// noFilter is the filter of views that take no parameters
type noFilter struct{}

// Views holds the loaded state of every list view of the dashboard
type Views struct {
	Metrics       *cache.ResourceCache[noFilter, *models.DashboardMetrics]
	StatusSummary *cache.ResourceCache[noFilter, *models.StudentStatusSummary]
	Courses       *cache.ResourceCache[noFilter, []models.Course]
	Students      *cache.ResourceCache[models.StudentFilter, []models.Student]
	StudentDetail *cache.ResourceCache[int, *models.StudentDetail]
	Leaderboard   *cache.ResourceCache[models.LeaderboardFilter, []models.LeaderboardEntry]
	Enrollments   *cache.ResourceCache[models.EnrollmentFilter, []models.Enrollment]
	SuperCoaches  *cache.ResourceCache[noFilter, []models.SuperCoach]
	Conversations *cache.ResourceCache[models.ConversationFilter, []models.Conversation]
}

// NewViews wires every view to client. With fallbackEnabled, supercoaches and
// conversations show built-in data while the platform answers 404 for them.
func NewViews(client *api.Client, ttl time.Duration, fallbackEnabled bool) *Views {
	superCoachOpts := []loader.Option[noFilter, []models.SuperCoach]{}
	conversationOpts := []loader.Option[models.ConversationFilter, []models.Conversation]{}
	if fallbackEnabled {
		superCoachOpts = append(superCoachOpts, loader.WithFallback(func(noFilter) []models.SuperCoach {
			return fallback.SuperCoaches()
		}))
		conversationOpts = append(conversationOpts, loader.WithFallback(fallback.Conversations))
	}

	return &Views{
		Metrics: cache.NewResourceCache(
			"dashboard_metrics", ttl, func() *loader.Resource[noFilter, *models.DashboardMetrics] {
				return loader.New("dashboard_metrics", func(ctx context.Context, _ noFilter) (*models.DashboardMetrics, error) {
					return client.DashboardMetrics(ctx)
				})
			}),
		StatusSummary: cache.NewResourceCache(
			"student_status", ttl, func() *loader.Resource[noFilter, *models.StudentStatusSummary] {
				return loader.New("student_status", func(ctx context.Context, _ noFilter) (*models.StudentStatusSummary, error) {
					return client.StudentStatusSummary(ctx)
				})
			}),
		Courses: cache.NewResourceCache(
			"courses", ttl, func() *loader.Resource[noFilter, []models.Course] {
				return loader.New("courses", func(ctx context.Context, _ noFilter) ([]models.Course, error) {
					return client.ListCourses(ctx)
				}, loader.WithNormalize[noFilter](loader.NonNil[models.Course]))
			}),
		Students: cache.NewResourceCache(
			"students", ttl, func() *loader.Resource[models.StudentFilter, []models.Student] {
				return loader.New("students", client.ListStudents, loader.WithNormalize[models.StudentFilter](loader.NonNil[models.Student]))
			}),
		StudentDetail: cache.NewResourceCache(
			"student_detail", ttl, func() *loader.Resource[int, *models.StudentDetail] {
				return loader.New("student_detail", client.GetStudent)
			}),
		Leaderboard: cache.NewResourceCache(
			"leaderboard", ttl, func() *loader.Resource[models.LeaderboardFilter, []models.LeaderboardEntry] {
				return loader.New("leaderboard", client.Leaderboard, loader.WithNormalize[models.LeaderboardFilter](loader.NonNil[models.LeaderboardEntry]))
			}),
		Enrollments: cache.NewResourceCache(
			"enrollments", ttl, func() *loader.Resource[models.EnrollmentFilter, []models.Enrollment] {
				return loader.New("enrollments", client.ListEnrollments, loader.WithNormalize[models.EnrollmentFilter](loader.NonNil[models.Enrollment]))
			}),
		SuperCoaches: cache.NewResourceCache(
			"supercoaches", ttl, func() *loader.Resource[noFilter, []models.SuperCoach] {
				return loader.New("supercoaches", func(ctx context.Context, _ noFilter) ([]models.SuperCoach, error) {
					return client.ListSuperCoaches(ctx)
				}, superCoachOpts...)
			}),
		Conversations: cache.NewResourceCache(
			"conversations", ttl, func() *loader.Resource[models.ConversationFilter, []models.Conversation] {
				return loader.New("conversations", client.ListConversations, conversationOpts...)
			}),
	}
}

// Reset drops all loaded data, e.g. when the coach logs out or the session is lost
func (v *Views) Reset() {
	v.Metrics.Reset()
	v.StatusSummary.Reset()
	v.Courses.Reset()
	v.Students.Reset()
	v.StudentDetail.Reset()
	v.Leaderboard.Reset()
	v.Enrollments.Reset()
	v.SuperCoaches.Reset()
	v.Conversations.Reset()
}
