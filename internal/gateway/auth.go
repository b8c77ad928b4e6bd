package gateway

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/getmentor/supercoach-admin/internal/models"
	"github.com/getmentor/supercoach-admin/internal/session"
	apperrors "github.com/getmentor/supercoach-admin/pkg/errors"
	"github.com/getmentor/supercoach-admin/pkg/jwt"
	"github.com/getmentor/supercoach-admin/pkg/logger"
	"github.com/getmentor/supercoach-admin/pkg/metrics"
	"go.uber.org/zap"
)

var (
	// ErrNoRefreshToken is returned by Refresh when the session holds no refresh token
	ErrNoRefreshToken = errors.New("no token")

	// ErrRefreshFailed is returned by Refresh for network, status or body failures
	ErrRefreshFailed = errors.New("failed")
)

const refreshKey = "refresh"

// Refresh exchanges the stored refresh token for a new token pair and returns the new access token.
// Concurrent callers share a single in-flight refresh that outlives any one caller's context.
// On failure the session is cleared and the redirect handler fires; the returned error matches
// both ErrAuthRequired and ErrNoRefreshToken or ErrRefreshFailed. A caller whose own context
// ends first gets an Unknown error and the session is left as it is.
func (g *Gateway) Refresh(ctx context.Context) (string, error) {
	shared := context.WithoutCancel(ctx)
	ch := g.refreshGroup.DoChan(refreshKey, func() (any, error) {
		return g.refresh(shared)
	})

	select {
	case <-ctx.Done():
		logger.Debug("Caller left in-flight token refresh", zap.Error(ctx.Err()))
		return "", apperrors.UnknownError("Token refresh abandoned", ctx.Err())
	case res := <-ch:
		if res.Shared {
			logger.Debug("Joined in-flight token refresh")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (g *Gateway) refresh(ctx context.Context) (string, error) {
	sess, err := g.store.Get(ctx)
	if err != nil {
		logger.Warn("Failed to read session before refresh", zap.Error(err))
	}
	if err != nil || sess == nil || sess.RefreshToken == "" {
		metrics.TokenRefreshTotal.WithLabelValues("no_token").Inc()
		g.authFailed(ctx, ReasonNoRefreshToken)
		return "", &apperrors.APIError{
			Kind:    apperrors.KindAuthRequired,
			Message: "Session expired, please log in again",
			Err:     ErrNoRefreshToken,
		}
	}

	tokens, err := g.requestRefresh(ctx, sess.RefreshToken)
	if err == nil {
		// Platforms that don't rotate refresh tokens omit it; the old one stays valid
		if tokens.RefreshToken == "" {
			tokens.RefreshToken = sess.RefreshToken
		}
		if tokens.Coach == nil {
			tokens.Coach = sess.Coach
		}
		var next models.Session
		next, err = session.NewSessionFromTokens(tokens, g.store.Now(), g.expiryFromJWT)
		if err == nil {
			err = g.store.Set(ctx, next)
		}
		if err == nil {
			metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
			logger.Debug("Access token refreshed",
				zap.Duration("expires_in", next.ExpiresIn(g.store.Now())))
			return next.AccessToken, nil
		}
	}

	metrics.TokenRefreshTotal.WithLabelValues("failed").Inc()
	logger.Warn("Token refresh failed", zap.Error(err))
	g.authFailed(ctx, ReasonRefreshFailed)
	return "", &apperrors.APIError{
		Kind:    apperrors.KindAuthRequired,
		Message: "Session expired, please log in again",
		Err:     errors.Join(ErrRefreshFailed, err),
	}
}

func (g *Gateway) requestRefresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	tokens, err := Do[*models.TokenResponse](ctx, g, Request{
		Method:   http.MethodPost,
		Path:     refreshPath,
		Body:     models.RefreshRequest{RefreshToken: refreshToken},
		NoAuth:   true,
		Endpoint: "auth.refresh",
	})
	if err != nil {
		return nil, err
	}
	if tokens == nil || tokens.AccessToken == "" {
		return nil, errors.New("refresh response has no access_token")
	}
	return tokens, nil
}

// Login authenticates with email and password and stores the new session
func (g *Gateway) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	if err := models.Validate(req); err != nil {
		return nil, apperrors.ValidationError("Invalid credentials payload", err)
	}

	tokens, err := Do[*models.TokenResponse](ctx, g, Request{
		Method:   http.MethodPost,
		Path:     loginPath,
		Body:     req,
		NoAuth:   true,
		Endpoint: "auth.login",
	})
	if err != nil {
		return nil, err
	}
	if tokens == nil || tokens.AccessToken == "" || tokens.RefreshToken == "" {
		return nil, apperrors.UnknownError("Login failed", errors.New("token response is missing tokens"))
	}

	if tokens.Coach == nil {
		tokens.Coach = coachFromToken(tokens.AccessToken)
	}

	sess, err := session.NewSessionFromTokens(tokens, g.store.Now(), g.expiryFromJWT)
	if err != nil {
		return nil, apperrors.UnknownError("Login failed", err)
	}
	if err := g.store.Set(ctx, sess); err != nil {
		return nil, err
	}

	logger.Info("Coach logged in", zap.String("email", req.Email))
	return &sess, nil
}

// Logout forgets the stored session. The platform keeps no server-side session to revoke.
func (g *Gateway) Logout(ctx context.Context) error {
	return g.store.Clear(ctx)
}

// Session returns the stored session, or nil when logged out
func (g *Gateway) Session(ctx context.Context) (*models.Session, error) {
	return g.store.Get(ctx)
}

func defaultTokenExpiry(token string) (time.Time, error) {
	return jwt.ExpiresAt(token)
}

// coachFromToken reads the coach identity hints of an access token, or nil
func coachFromToken(token string) *models.Coach {
	claims, err := jwt.ParseUnverified(token)
	if err != nil {
		return nil
	}
	coach := &models.Coach{
		ID:    claims.CoachID,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}
	if coach.ID == 0 && claims.Subject != "" {
		if id, err := strconv.Atoi(claims.Subject); err == nil {
			coach.ID = id
		}
	}
	return coach
}
