package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getmentor/supercoach-admin/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthHandler_Healthcheck(t *testing.T) {
	tests := []struct {
		name     string
		health   func(ctx context.Context) (*models.HealthStatus, error)
		wantCode int
		wantBody string
	}{
		{
			name:     "platform healthy",
			health:   func(ctx context.Context) (*models.HealthStatus, error) { return &models.HealthStatus{Status: "ok"}, nil },
			wantCode: http.StatusOK,
			wantBody: `{"status":"ok","platform":"ok"}`,
		},
		{
			name:     "platform answers without body",
			health:   func(ctx context.Context) (*models.HealthStatus, error) { return nil, nil },
			wantCode: http.StatusOK,
			wantBody: `{"status":"ok","platform":"ok"}`,
		},
		{
			name:     "platform unreachable",
			health:   func(ctx context.Context) (*models.HealthStatus, error) { return nil, errors.New("dial tcp: refused") },
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"status":"unavailable","reason":"platform API unreachable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			handler := NewHealthHandler(tt.health)
			router := gin.New()
			router.GET("/healthcheck", handler.Healthcheck)

			// Execute
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/healthcheck", http.NoBody)
			router.ServeHTTP(w, req)

			// Assert
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
