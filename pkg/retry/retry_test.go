package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/getmentor/supercoach-admin/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(retries int) Config {
	cfg := DefaultConfig()
	cfg.MaxRetries = retries
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.Jitter = false
	return cfg
}

func TestDoWithResult_SucceedsAfterRetry(t *testing.T) {
	calls := 0
	got, err := DoWithResult(context.Background(), fastConfig(3), "health", func() (string, error) {
		calls++
		if calls < 3 {
			return "", apperrors.FromStatus(503, "")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestDoWithResult_StopsOnNonRetryable(t *testing.T) {
	calls := 0
	_, err := DoWithResult(context.Background(), fastConfig(3), "health", func() (int, error) {
		calls++
		return 0, apperrors.FromStatus(403, "")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
}

func TestDoWithResult_GivesUp(t *testing.T) {
	calls := 0
	_, err := DoWithResult(context.Background(), fastConfig(2), "health", func() (int, error) {
		calls++
		return 0, errors.New("connection refused")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "operation failed after 2 retries")
}

func TestDoWithResult_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DoWithResult(ctx, fastConfig(2), "health", func() (int, error) {
		return 1, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculateDelay_CapsAtMax(t *testing.T) {
	cfg := fastConfig(10)
	assert.Equal(t, time.Millisecond, calculateDelay(0, cfg))
	assert.Equal(t, 2*time.Millisecond, calculateDelay(5, cfg))
}
