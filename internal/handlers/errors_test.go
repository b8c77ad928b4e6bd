package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getmentor/supercoach-admin/internal/loader"
	"github.com/getmentor/supercoach-admin/internal/models"
	apperrors "github.com/getmentor/supercoach-admin/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serveState(st loader.State[[]string], resp Responder) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/view", func(c *gin.Context) { respondState(c, resp, st) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/view", http.NoBody))
	return w
}

func TestRespondState(t *testing.T) {
	data := []string{"a"}
	stale := apperrors.FromStatus(503, "")

	tests := []struct {
		name     string
		state    loader.State[[]string]
		wantCode int
		wantBody string
	}{
		{
			name:     "live data",
			state:    loader.State[[]string]{Data: &data, Source: loader.SourceLive},
			wantCode: http.StatusOK,
			wantBody: `{"data":["a"],"source":"live"}`,
		},
		{
			name:     "stale data keeps warning",
			state:    loader.State[[]string]{Data: &data, Source: loader.SourceStale, Error: apperrors.Message(stale), Err: stale},
			wantCode: http.StatusOK,
			wantBody: `{"data":["a"],"source":"stale","warning":"Server error, please try again later"}`,
		},
		{
			name:     "no data",
			state:    loader.State[[]string]{Error: "Server error", Err: apperrors.FromStatus(500, "Server error")},
			wantCode: http.StatusBadGateway,
			wantBody: `{"error":"Server error"}`,
		},
		{
			name:     "forbidden",
			state:    loader.State[[]string]{Err: apperrors.FromStatus(403, "Not your course")},
			wantCode: http.StatusForbidden,
			wantBody: `{"error":"Not your course"}`,
		},
		{
			name:     "auth required wins over stale data",
			state:    loader.State[[]string]{Data: &data, Err: apperrors.AuthRequiredError("Session expired, please log in again")},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"error":"Session expired, please log in again","redirect":"/login"}`,
		},
		{
			name:     "superseded",
			state:    loader.State[[]string]{Loading: true},
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"error":"A newer request for this view is in progress"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveState(tt.state, NewResponder("/login", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestRespondState_AuthResetsViews(t *testing.T) {
	resets := 0
	w := serveState(loader.State[[]string]{Err: apperrors.AuthRequiredError("expired")},
		NewResponder("/login", func() { resets++ }))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 1, resets)
}

func TestAPIError_Validation(t *testing.T) {
	err := models.Validate(models.EnrollRequest{StudentID: 0, CourseID: 3})
	verr := apperrors.ValidationError("student_id is required", err)

	router := gin.New()
	router.POST("/enroll", func(c *gin.Context) { NewResponder("/login", nil).apiError(c, verr) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/enroll", http.NoBody))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"student_id is required","details":[{"field":"student_id","message":"student_id is required"}]}`, w.Body.String())
	assert.True(t, errors.Is(verr, apperrors.ErrValidationFailed))
}
