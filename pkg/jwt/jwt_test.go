package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnverified_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", "supercoach-test", time.Hour)

	token, err := tm.GenerateToken(42, "coach@example.com", "Ada Coach")
	require.NoError(t, err)

	claims, err := ParseUnverified(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.CoachID)
	assert.Equal(t, "coach@example.com", claims.Email)
	assert.Equal(t, "Ada Coach", claims.Name)
	assert.Equal(t, "42", claims.Subject)
}

func TestExpiresAt(t *testing.T) {
	tm := NewTokenManager("test-secret", "supercoach-test", 15*time.Minute)
	token, err := tm.GenerateToken(1, "c@example.com", "C")
	require.NoError(t, err)

	exp, err := ExpiresAt(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 2*time.Second)
}

func TestParseUnverified_Garbage(t *testing.T) {
	_, err := ParseUnverified("not-a-jwt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTimingSafeCompare(t *testing.T) {
	assert.True(t, TimingSafeCompare("secret", "secret"))
	assert.False(t, TimingSafeCompare("secret", "Secret"))
	assert.False(t, TimingSafeCompare("secret", ""))
}
