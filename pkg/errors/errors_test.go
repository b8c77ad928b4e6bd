package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFromStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected Kind
	}{
		{http.StatusUnauthorized, KindAuthRequired},
		{http.StatusForbidden, KindForbidden},
		{http.StatusNotFound, KindNotFound},
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusInternalServerError, KindServerError},
		{http.StatusBadGateway, KindServerError},
		{http.StatusBadRequest, KindUnknown},
		{http.StatusConflict, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, KindFromStatus(tt.status))
		})
	}
}

func TestFromStatus_UsesDetail(t *testing.T) {
	err := FromStatus(http.StatusNotFound, "Course 7 does not exist")

	assert.Equal(t, KindNotFound, err.Kind)
	assert.Equal(t, "Course 7 does not exist", err.Message)
	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrServerError))
}

func TestFromStatus_GenericMessage(t *testing.T) {
	err := FromStatus(http.StatusServiceUnavailable, "")

	assert.Equal(t, KindServerError, err.Kind)
	assert.Equal(t, "Server error, please try again later", err.Message)
	assert.Contains(t, err.Error(), "status 503")
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("load conversations: %w", FromStatus(404, ""))))
	assert.Equal(t, KindAuthRequired, KindOf(AuthRequiredError("no session")))
	assert.Equal(t, KindAuthRequired, KindOf(fmt.Errorf("wrapped: %w", ErrAuthRequired)))
	assert.Equal(t, KindValidationFailed, KindOf(ValidationError("name is required", nil)))
	assert.Equal(t, KindUnknown, KindOf(fmt.Errorf("boom")))
}

func TestUnknownError_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := UnknownError("request failed", cause)

	assert.True(t, Is(err, cause))
	assert.True(t, Is(err, ErrUnknown))
	assert.Equal(t, "request failed: connection refused", Message(err))
	assert.Equal(t, 0, StatusOf(err))
}
