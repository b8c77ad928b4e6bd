package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/getmentor/supercoach-admin/internal/models"
	"github.com/getmentor/supercoach-admin/pkg/logger"
	"go.uber.org/zap"
)

// Storage keys. Nothing outside this package reads them directly.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyCoach        = "coach"
	KeyExpiresAt    = "token_expires_at"
)

var allKeys = []string{KeyAccessToken, KeyRefreshToken, KeyCoach, KeyExpiresAt}

// Store reads and writes the coach session. It performs no network I/O.
type Store struct {
	storage Storage
	now     func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for validity checks
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a session store over storage
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store's current time
func (s *Store) Now() time.Time {
	return s.now()
}

// Get returns the stored session, or nil when no session fields are stored
func (s *Store) Get(ctx context.Context) (*models.Session, error) {
	values, err := s.storage.GetMany(ctx, allKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	sess := &models.Session{
		AccessToken:  values[KeyAccessToken],
		RefreshToken: values[KeyRefreshToken],
	}

	if raw, ok := values[KeyExpiresAt]; ok {
		expiresAt, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// A corrupt expiry leaves ExpiresAt at 0, which is never valid
			logger.Warn("Ignoring unparsable session expiry", zap.String("value", raw))
		} else {
			sess.ExpiresAt = expiresAt
		}
	}

	if raw, ok := values[KeyCoach]; ok && raw != "" {
		var coach models.Coach
		if err := json.Unmarshal([]byte(raw), &coach); err != nil {
			logger.Warn("Ignoring unparsable coach identity", zap.Error(err))
		} else {
			sess.Coach = &coach
		}
	}

	return sess, nil
}

// Set overwrites all four session fields in one storage batch
func (s *Store) Set(ctx context.Context, sess models.Session) error {
	coach := ""
	if sess.Coach != nil {
		raw, err := json.Marshal(sess.Coach)
		if err != nil {
			return fmt.Errorf("failed to encode coach identity: %w", err)
		}
		coach = string(raw)
	}

	values := map[string]string{
		KeyAccessToken:  sess.AccessToken,
		KeyRefreshToken: sess.RefreshToken,
		KeyCoach:        coach,
		KeyExpiresAt:    strconv.FormatInt(sess.ExpiresAt, 10),
	}

	if err := s.storage.SetMany(ctx, values); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes all session fields
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.DeleteMany(ctx, allKeys); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// IsValid reports whether a session with both tokens exists and has not expired.
// Read failures count as invalid.
func (s *Store) IsValid(ctx context.Context) bool {
	sess, err := s.Get(ctx)
	if err != nil {
		logger.Warn("Session read failed during validity check", zap.Error(err))
		return false
	}
	return sess.IsValid(s.now())
}

// NewSessionFromTokens builds a session from a login/refresh response.
// expires_in is seconds; when it is missing the access token's exp claim is used.
func NewSessionFromTokens(resp *models.TokenResponse, now time.Time, expiryFromToken func(string) (time.Time, error)) (models.Session, error) {
	sess := models.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Coach:        resp.Coach,
	}

	switch {
	case resp.ExpiresIn > 0:
		sess.ExpiresAt = now.UnixMilli() + resp.ExpiresIn*1000
	case expiryFromToken != nil:
		exp, err := expiryFromToken(resp.AccessToken)
		if err != nil {
			return models.Session{}, fmt.Errorf("token response has no expires_in and no usable exp claim: %w", err)
		}
		sess.ExpiresAt = exp.UnixMilli()
	default:
		return models.Session{}, fmt.Errorf("token response has no expires_in")
	}

	return sess, nil
}
