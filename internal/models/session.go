package models

import "time"

// Coach is the identity of the logged-in coach, persisted alongside the tokens
type Coach struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Session is the authenticated client's token pair plus expiry and identity.
// ExpiresAt is epoch milliseconds.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Coach        *Coach `json:"coach,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
}

// IsValid reports whether both tokens are present and the session has not expired at now
func (s *Session) IsValid(now time.Time) bool {
	if s == nil || s.AccessToken == "" || s.RefreshToken == "" {
		return false
	}
	return now.UnixMilli() < s.ExpiresAt
}

// ExpiresIn returns the time left before expiry, negative once expired
func (s *Session) ExpiresIn(now time.Time) time.Duration {
	return time.UnixMilli(s.ExpiresAt).Sub(now)
}

// LoginRequest is the payload of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the payload of POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is returned by login and refresh
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Coach        *Coach `json:"coach,omitempty"`
}
