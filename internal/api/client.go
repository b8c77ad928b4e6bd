// Package api is the typed client for the coaching platform's REST API.
// Every call goes through the gateway, which owns authentication.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getmentor/supercoach-admin/internal/gateway"
	"github.com/getmentor/supercoach-admin/internal/models"
)

// Client is the platform API client
type Client struct {
	gw *gateway.Gateway
}

// NewClient creates a platform API client on top of gw
func NewClient(gw *gateway.Gateway) *Client {
	return &Client{gw: gw}
}

// Gateway returns the underlying gateway
func (c *Client) Gateway() *gateway.Gateway {
	return c.gw
}

// Login authenticates a coach and stores the session
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	return c.gw.Login(ctx, req)
}

// Logout forgets the stored session
func (c *Client) Logout(ctx context.Context) error {
	return c.gw.Logout(ctx)
}

// Session returns the stored session, or nil
func (c *Client) Session(ctx context.Context) (*models.Session, error) {
	return c.gw.Session(ctx)
}

// Health checks the platform's health endpoint. It needs no session.
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	return gateway.Do[*models.HealthStatus](ctx, c.gw, gateway.Request{
		Method:   http.MethodGet,
		Path:     "/health",
		NoAuth:   true,
		Endpoint: "health",
	})
}

// DashboardMetrics returns the headline numbers of the dashboard
func (c *Client) DashboardMetrics(ctx context.Context) (*models.DashboardMetrics, error) {
	return gateway.Do[*models.DashboardMetrics](ctx, c.gw, get("/dashboard/metrics", "dashboard.metrics", nil))
}

// StudentStatusSummary returns the number of students per status
func (c *Client) StudentStatusSummary(ctx context.Context) (*models.StudentStatusSummary, error) {
	return gateway.Do[*models.StudentStatusSummary](ctx, c.gw, get("/dashboard/student-status", "dashboard.student_status", nil))
}

// ListCourses returns all courses of the coach
func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	return gateway.Do[[]models.Course](ctx, c.gw, get("/courses", "courses.list", nil))
}

// CreateCourse creates a course
func (c *Client) CreateCourse(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	return gateway.Do[*models.Course](ctx, c.gw, post("/courses", "courses.create", req))
}

// ListStudents returns the students matching filter
func (c *Client) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	return gateway.Do[[]models.Student](ctx, c.gw, get("/students", "students.list", filter))
}

// GetStudent returns one student with their enrollments
func (c *Client) GetStudent(ctx context.Context, id int) (*models.StudentDetail, error) {
	return gateway.Do[*models.StudentDetail](ctx, c.gw, get(fmt.Sprintf("/students/%d", id), "students.get", nil))
}

// CreateStudent creates a student, optionally enrolled in a course
func (c *Client) CreateStudent(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	return gateway.Do[*models.Student](ctx, c.gw, post("/students", "students.create", req))
}

// Leaderboard returns the top students, optionally for one course
func (c *Client) Leaderboard(ctx context.Context, filter models.LeaderboardFilter) ([]models.LeaderboardEntry, error) {
	return gateway.Do[[]models.LeaderboardEntry](ctx, c.gw, get("/leaderboard", "leaderboard", filter))
}

// ListEnrollments returns the enrollments matching filter
func (c *Client) ListEnrollments(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	return gateway.Do[[]models.Enrollment](ctx, c.gw, get("/enrollments", "enrollments.list", filter))
}

// Enroll enrolls a student in a course
func (c *Client) Enroll(ctx context.Context, req models.EnrollRequest) (*models.Enrollment, error) {
	return gateway.Do[*models.Enrollment](ctx, c.gw, post("/enrollments", "enrollments.create", req))
}

// ListSuperCoaches returns the AI coach personas
func (c *Client) ListSuperCoaches(ctx context.Context) ([]models.SuperCoach, error) {
	return gateway.Do[[]models.SuperCoach](ctx, c.gw, get("/supercoaches", "supercoaches.list", nil))
}

// ListConversations returns supercoach conversations matching filter
func (c *Client) ListConversations(ctx context.Context, filter models.ConversationFilter) ([]models.Conversation, error) {
	return gateway.Do[[]models.Conversation](ctx, c.gw, get("/conversations", "conversations.list", filter))
}

func get(path, endpoint string, filter any) gateway.Request {
	req := gateway.Request{
		Method:   http.MethodGet,
		Path:     path,
		Endpoint: endpoint,
	}
	if filter != nil {
		req.Query = EncodeQuery(filter)
	}
	return req
}

func post(path, endpoint string, body any) gateway.Request {
	return gateway.Request{
		Method:   http.MethodPost,
		Path:     path,
		Body:     body,
		Endpoint: endpoint,
	}
}
