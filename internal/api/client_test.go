package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/getmentor/supercoach-admin/internal/fallback"
	"github.com/getmentor/supercoach-admin/internal/gateway"
	"github.com/getmentor/supercoach-admin/internal/loader"
	"github.com/getmentor/supercoach-admin/internal/models"
	"github.com/getmentor/supercoach-admin/internal/session"
	apperrors "github.com/getmentor/supercoach-admin/pkg/errors"
	"github.com/getmentor/supercoach-admin/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewStore(session.NewMemoryStorage())
	require.NoError(t, store.Set(context.Background(), models.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour).UnixMilli(),
	}))

	gw := gateway.New(srv.URL+"/api/v1", httpclient.NewStandardClient(5*time.Second), store)
	return NewClient(gw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListStudents_StatusFilter(t *testing.T) {
	var gotURI string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		writeJSON(w, http.StatusOK, []models.Student{
			{ID: 1, Name: "Ann", IsActive: true, Status: "stuck"},
			{ID: 2, Name: "Bob", IsActive: true, Status: "stuck"},
		})
	})

	students := loader.New("students", client.ListStudents)
	st := students.Fetch(context.Background(), models.StudentFilter{Status: models.StudentStatusStuck})

	assert.Equal(t, "/api/v1/students?status=stuck", gotURI)
	require.True(t, st.HasData())
	assert.Len(t, *st.Data, 2)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
}

func TestListStudents_AllFilters(t *testing.T) {
	var query map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writeJSON(w, http.StatusOK, []models.Student{})
	})

	_, err := client.ListStudents(context.Background(), models.StudentFilter{
		CourseID: 4,
		Status:   models.StudentStatusActive,
		Search:   "ann lee",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, query["course_id"])
	assert.Equal(t, []string{"active"}, query["status"])
	assert.Equal(t, []string{"ann lee"}, query["search"])
}

func TestConversations_FallbackOn404(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	})

	conversations := loader.New("conversations", client.ListConversations, loader.WithFallback(fallback.Conversations))
	st := conversations.Fetch(context.Background(), models.ConversationFilter{})

	require.True(t, st.HasData())
	assert.Equal(t, fallback.Conversations(models.ConversationFilter{}), *st.Data)
	assert.Empty(t, st.Error)
	assert.Equal(t, loader.SourceFallback, st.Source)
}

func TestEndpoints(t *testing.T) {
	tests := []struct {
		name   string
		call   func(c *Client) error
		method string
		uri    string
	}{
		{"dashboard metrics", func(c *Client) error { _, err := c.DashboardMetrics(context.Background()); return err }, "GET", "/api/v1/dashboard/metrics"},
		{"status summary", func(c *Client) error { _, err := c.StudentStatusSummary(context.Background()); return err }, "GET", "/api/v1/dashboard/student-status"},
		{"courses", func(c *Client) error { _, err := c.ListCourses(context.Background()); return err }, "GET", "/api/v1/courses"},
		{"student detail", func(c *Client) error { _, err := c.GetStudent(context.Background(), 12); return err }, "GET", "/api/v1/students/12"},
		{"leaderboard", func(c *Client) error {
			_, err := c.Leaderboard(context.Background(), models.LeaderboardFilter{CourseID: 3, Limit: 10})
			return err
		}, "GET", "/api/v1/leaderboard?course_id=3&limit=10"},
		{"enrollments", func(c *Client) error {
			_, err := c.ListEnrollments(context.Background(), models.EnrollmentFilter{CourseID: 3})
			return err
		}, "GET", "/api/v1/enrollments?course_id=3"},
		{"supercoaches", func(c *Client) error { _, err := c.ListSuperCoaches(context.Background()); return err }, "GET", "/api/v1/supercoaches"},
		{"conversations", func(c *Client) error {
			_, err := c.ListConversations(context.Background(), models.ConversationFilter{StudentID: 1, SuperCoachID: "tutor"})
			return err
		}, "GET", "/api/v1/conversations?coach_id=tutor&student_id=1"},
		{"create course", func(c *Client) error {
			_, err := c.CreateCourse(context.Background(), models.CreateCourseRequest{Title: "Go"})
			return err
		}, "POST", "/api/v1/courses"},
		{"create student", func(c *Client) error {
			_, err := c.CreateStudent(context.Background(), models.CreateStudentRequest{Name: "A", Email: "a@b.com", Phone: "5551234567"})
			return err
		}, "POST", "/api/v1/students"},
		{"enroll", func(c *Client) error {
			_, err := c.Enroll(context.Background(), models.EnrollRequest{StudentID: 1, CourseID: 2})
			return err
		}, "POST", "/api/v1/enrollments"},
		{"health", func(c *Client) error { _, err := c.Health(context.Background()); return err }, "GET", "/api/v1/health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var method, uri string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				method = r.Method
				uri = r.URL.RequestURI()
				w.WriteHeader(http.StatusNoContent)
			})

			require.NoError(t, tt.call(client))
			assert.Equal(t, tt.method, method)
			assert.Equal(t, tt.uri, uri)
		})
	}
}

func TestHealth_NoSessionNeeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, models.HealthStatus{Status: "ok"})
	}))
	defer srv.Close()

	gw := gateway.New(srv.URL, httpclient.NewStandardClient(0), session.NewStore(session.NewMemoryStorage()))
	health, err := NewClient(gw).Health(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
}

func TestCreateStudent_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
	})

	_, err := client.CreateStudent(context.Background(), models.CreateStudentRequest{Name: "A", Email: "a@b.com", Phone: "5551234567"})

	require.Error(t, err)
	assert.Equal(t, "Email already registered", apperrors.Message(err))
}
