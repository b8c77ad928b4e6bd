package handlers

import (
	"net/http"
	"time"

	"github.com/getmentor/supercoach-admin/internal/api"
	"github.com/getmentor/supercoach-admin/internal/models"
	apperrors "github.com/getmentor/supercoach-admin/pkg/errors"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles login, logout and the current session
type AuthHandler struct {
	client *api.Client
	views  *Views
	resp   Responder
	now    func() time.Time
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(client *api.Client, views *Views, resp Responder) *AuthHandler {
	return &AuthHandler{
		client: client,
		views:  views,
		resp:   resp,
		now:    time.Now,
	}
}

// SessionResponse describes the stored session without exposing tokens
type SessionResponse struct {
	Authenticated    bool          `json:"authenticated"`
	Coach            *models.Coach `json:"coach,omitempty"`
	ExpiresAt        *time.Time    `json:"expires_at,omitempty"`
	ExpiresInSeconds int64         `json:"expires_in_seconds,omitempty"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	sess, err := h.client.Login(c.Request.Context(), req)
	if err != nil {
		// Rejected credentials are a plain 401, not a lost session
		if apperrors.KindOf(err) == apperrors.KindAuthRequired {
			respondError(c, http.StatusUnauthorized, apperrors.Message(err), err)
			return
		}
		h.resp.apiError(c, err)
		return
	}

	// Data loaded for a previous coach must not leak into this session
	h.views.Reset()

	c.JSON(http.StatusOK, h.describe(sess))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.client.Logout(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to clear session", err)
		return
	}
	h.views.Reset()

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) GetSession(c *gin.Context) {
	sess, err := h.client.Session(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to read session", err)
		return
	}
	c.JSON(http.StatusOK, h.describe(sess))
}

func (h *AuthHandler) describe(sess *models.Session) SessionResponse {
	now := h.now()
	if !sess.IsValid(now) {
		return SessionResponse{Authenticated: false}
	}
	expiresAt := time.UnixMilli(sess.ExpiresAt).UTC()
	return SessionResponse{
		Authenticated:    true,
		Coach:            sess.Coach,
		ExpiresAt:        &expiresAt,
		ExpiresInSeconds: int64(sess.ExpiresIn(now).Seconds()),
	}
}
