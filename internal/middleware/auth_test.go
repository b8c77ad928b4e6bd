package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTokenRouter(token string, called *bool) *gin.Engine {
	router := gin.New()
	router.Use(DashboardTokenMiddleware(token))
	router.GET("/test", func(c *gin.Context) {
		*called = true
		c.Status(http.StatusOK)
	})
	return router
}

func TestDashboardTokenMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		sent       string
		wantStatus int
		wantCalled bool
	}{
		{"valid token", "s3cret", "s3cret", http.StatusOK, true},
		{"invalid token", "s3cret", "guess", http.StatusUnauthorized, false},
		{"missing token", "s3cret", "", http.StatusUnauthorized, false},
		{"check disabled", "", "", http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			router := newTokenRouter(tt.configured, &called)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/test", http.NoBody)
			if tt.sent != "" {
				req.Header.Set(DashboardTokenHeader, tt.sent)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, called)
		})
	}
}
