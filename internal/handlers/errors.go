package handlers

import (
	"net/http"

	"github.com/getmentor/supercoach-admin/internal/loader"
	"github.com/getmentor/supercoach-admin/internal/models"
	apperrors "github.com/getmentor/supercoach-admin/pkg/errors"
	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// Envelope wraps view data with where it came from and a non-blocking warning
type Envelope struct {
	Data    any           `json:"data"`
	Source  loader.Source `json:"source,omitempty"`
	Warning string        `json:"warning,omitempty"`
}

// Responder maps platform failures to dashboard responses
type Responder struct {
	loginURL string
	onAuth   func()
}

// NewResponder creates a Responder. onAuth runs whenever a request ends in AuthRequired.
func NewResponder(loginURL string, onAuth func()) Responder {
	return Responder{loginURL: loginURL, onAuth: onAuth}
}

// apiError sends the response for a failed platform call
func (r Responder) apiError(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindAuthRequired:
		if r.onAuth != nil {
			r.onAuth()
		}
		attachError(c, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.Message(err), "redirect": r.loginURL})
	case apperrors.KindValidationFailed:
		respondErrorWithDetails(c, http.StatusUnprocessableEntity, apperrors.Message(err), models.ParseValidationErrors(err), err)
	case apperrors.KindForbidden:
		respondError(c, http.StatusForbidden, apperrors.Message(err), err)
	case apperrors.KindNotFound:
		respondError(c, http.StatusNotFound, apperrors.Message(err), err)
	case apperrors.KindRateLimited:
		respondError(c, http.StatusTooManyRequests, apperrors.Message(err), err)
	default:
		respondError(c, http.StatusBadGateway, apperrors.Message(err), err)
	}
}

// respondState sends a loader snapshot. Stale or fallback data is still a 200 with a warning;
// an error status is only used when there is no data of any kind.
func respondState[T any](c *gin.Context, r Responder, st loader.State[T]) {
	if apperrors.Is(st.Err, apperrors.ErrAuthRequired) {
		r.apiError(c, st.Err)
		return
	}

	if st.HasData() {
		attachError(c, st.Err)
		c.JSON(http.StatusOK, Envelope{Data: *st.Data, Source: st.Source, Warning: st.Error})
		return
	}

	if st.Err != nil {
		r.apiError(c, st.Err)
		return
	}

	// superseded by a newer request for the same view
	c.Header("Retry-After", "1")
	respondError(c, http.StatusServiceUnavailable, "A newer request for this view is in progress", nil)
}
