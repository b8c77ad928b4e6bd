package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmentor/supercoach-admin/config"
	"github.com/getmentor/supercoach-admin/internal/api"
	"github.com/getmentor/supercoach-admin/internal/cache"
	"github.com/getmentor/supercoach-admin/internal/fallback"
	"github.com/getmentor/supercoach-admin/internal/gateway"
	"github.com/getmentor/supercoach-admin/internal/handlers"
	"github.com/getmentor/supercoach-admin/internal/models"
	"github.com/getmentor/supercoach-admin/internal/session"
	"github.com/getmentor/supercoach-admin/pkg/httpclient"
)

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Source  string          `json:"source"`
	Warning string          `json:"warning"`
}

type testApp struct {
	router   *gin.Engine
	store    *session.Store
	platform *http.ServeMux
	calls    atomic.Int32
}

func newTestApp(t *testing.T, dashboardToken string) *testApp {
	t.Helper()

	app := &testApp{platform: http.NewServeMux()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.calls.Add(1)
		app.platform.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		API:           config.APIConfig{BaseURL: srv.URL, LoginURL: "/login", FallbackEnabled: true},
		Server:        config.ServerConfig{Port: "0", GinMode: gin.TestMode, AppEnv: "test", DashboardToken: dashboardToken},
		Observability: config.ObservabilityConfig{ServiceName: "supercoach-admin-test"},
	}

	app.store = session.NewStore(session.NewMemoryStorage())
	gw := gateway.New(cfg.API.BaseURL, httpclient.NewStandardClient(5*time.Second), app.store)
	client := api.NewClient(gw)
	views := handlers.NewViews(client, cache.DefaultViewTTL, cfg.API.FallbackEnabled)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	app.router = NewRouter(ctx, cfg, client, views)
	return app
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	require.NoError(t, a.store.Set(context.Background(), models.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Coach:        &models.Coach{ID: 1, Name: "Ada", Email: "ada@example.com"},
		ExpiresAt:    time.Now().Add(time.Hour).UnixMilli(),
	}))
}

func (a *testApp) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestStudents_StatusFilter(t *testing.T) {
	app := newTestApp(t, "")
	app.login(t)
	app.platform.HandleFunc("/students", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "status=stuck", r.URL.RawQuery)
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []models.Student{{ID: 1, IsActive: true, Status: "stuck"}, {ID: 2, IsActive: true, Status: "stuck"}})
	})

	w := app.do(t, "GET", "/api/students?status=stuck", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	var students []models.Student
	require.NoError(t, json.Unmarshal(env.Data, &students))
	assert.Len(t, students, 2)
	assert.Equal(t, "live", env.Source)
	assert.Empty(t, env.Warning)
}

func TestStudents_InvalidQuery(t *testing.T) {
	app := newTestApp(t, "")
	app.login(t)

	w := app.do(t, "GET", "/api/students?status=asleep", "")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "status must be one of")
	assert.Equal(t, int32(0), app.calls.Load())
}

func TestConversations_FallbackOn404(t *testing.T) {
	app := newTestApp(t, "")
	app.login(t)

	w := app.do(t, "GET", "/api/conversations?student_id=1", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	var conversations []models.Conversation
	require.NoError(t, json.Unmarshal(env.Data, &conversations))
	assert.Equal(t, len(fallback.Conversations(models.ConversationFilter{StudentID: 1})), len(conversations))
	assert.Equal(t, "fallback", env.Source)
	assert.Empty(t, env.Warning)
}

func TestCourses_StaleDataOnFailure(t *testing.T) {
	app := newTestApp(t, "")
	app.login(t)

	var failing atomic.Bool
	app.platform.HandleFunc("/courses", func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "Maintenance"})
			return
		}
		writeJSON(w, http.StatusOK, []models.Course{{ID: 1, Title: "Go"}})
	})

	require.Equal(t, http.StatusOK, app.do(t, "GET", "/api/courses", "").Code)

	failing.Store(true)
	w := app.do(t, "GET", "/api/courses", "")

	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "stale", env.Source)
	assert.Equal(t, "Maintenance", env.Warning)
	assert.JSONEq(t, `[{"id":1,"title":"Go","is_active":false,"student_count":0,"module_count":0,"created_at":"0001-01-01T00:00:00Z"}]`, string(env.Data))
}

func TestDashboard_NoDataIsBadGateway(t *testing.T) {
	app := newTestApp(t, "")
	app.login(t)
	app.platform.HandleFunc("/dashboard/metrics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
	})

	w := app.do(t, "GET", "/api/dashboard", "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"boom"}`, w.Body.String())
}

func TestAuthRequired_RedirectsToLogin(t *testing.T) {
	app := newTestApp(t, "")

	w := app.do(t, "GET", "/api/courses", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/login", body["redirect"])
	assert.NotEmpty(t, body["error"])
	assert.Equal(t, int32(0), app.calls.Load())
}

func TestAuthRequired_RefreshFailureClearsSession(t *testing.T) {
	app := newTestApp(t, "")
	app.login(t)
	app.platform.HandleFunc("/students", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "expired"})
	})
	app.platform.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "revoked"})
	})

	w := app.do(t, "GET", "/api/students", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/login"`)
	assert.False(t, app.store.IsValid(context.Background()))
}

func TestCreateStudent_ValidationBeforeNetwork(t *testing.T) {
	app := newTestApp(t, "")
	app.login(t)

	w := app.do(t, "POST", "/api/students", `{"name":"","email":"a@b.com","phone":"5551234567"}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Error   string                   `json:"error"`
		Details []models.ValidationError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "name is required", body.Error)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "name", body.Details[0].Field)
	assert.Equal(t, int32(0), app.calls.Load())
}

func TestCreateCourse_InvalidatesList(t *testing.T) {
	app := newTestApp(t, "")
	app.login(t)

	var listCalls atomic.Int32
	app.platform.HandleFunc("/courses", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			writeJSON(w, http.StatusCreated, models.Course{ID: 2, Title: "Rust"})
			return
		}
		listCalls.Add(1)
		writeJSON(w, http.StatusOK, []models.Course{{ID: 1, Title: "Go"}})
	})

	require.Equal(t, http.StatusOK, app.do(t, "GET", "/api/courses", "").Code)

	w := app.do(t, "POST", "/api/courses", `{"title":"Rust"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":2,"title":"Rust","is_active":false,"student_count":0,"module_count":0,"created_at":"0001-01-01T00:00:00Z"}`, w.Body.String())

	require.Equal(t, http.StatusOK, app.do(t, "GET", "/api/courses", "").Code)
	assert.Equal(t, int32(2), listCalls.Load())
}

func TestLoginSessionLogout(t *testing.T) {
	app := newTestApp(t, "")
	app.platform.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "hunter2" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, models.TokenResponse{
			AccessToken:  "access",
			RefreshToken: "refresh",
			ExpiresIn:    3600,
			Coach:        &models.Coach{ID: 4, Name: "Ada", Email: "ada@example.com"},
		})
	})

	w := app.do(t, "POST", "/api/auth/login", `{"email":"ada@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "redirect")

	w = app.do(t, "POST", "/api/auth/login", `{"email":"ada@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, "GET", "/api/session", "")
	var sess handlers.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.True(t, sess.Authenticated)
	assert.Equal(t, "Ada", sess.Coach.Name)
	assert.InDelta(t, 3600, sess.ExpiresInSeconds, 5)
	assert.NotContains(t, w.Body.String(), "access")

	require.Equal(t, http.StatusOK, app.do(t, "POST", "/api/auth/logout", "").Code)

	w = app.do(t, "GET", "/api/session", "")
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
}

func TestDashboardToken(t *testing.T) {
	app := newTestApp(t, "s3cret")

	assert.Equal(t, http.StatusUnauthorized, app.do(t, "GET", "/api/session", "").Code)
	assert.Equal(t, http.StatusOK, app.do(t, "GET", "/api/session", "", "X-Dashboard-Token", "s3cret").Code)
	assert.Equal(t, http.StatusOK, app.do(t, "GET", "/api/metrics", "").Code)
}

func TestHealthcheck(t *testing.T) {
	app := newTestApp(t, "")

	w := app.do(t, "GET", "/api/healthcheck", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	app.platform.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.HealthStatus{Status: "healthy"})
	})

	w = app.do(t, "GET", "/api/healthcheck", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","platform":"healthy"}`, w.Body.String())
	assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
}

func TestStudentDetail_InvalidID(t *testing.T) {
	app := newTestApp(t, "")
	app.login(t)

	assert.Equal(t, http.StatusBadRequest, app.do(t, "GET", "/api/students/abc", "").Code)
}
